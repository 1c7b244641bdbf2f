// Package record implements the recording session lifecycle: buffering
// encoded chunks from a capturable output stream and shipping the finished
// clip to the remote archive.
package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Status is the recording session state.
type Status uint8

const (
	StatusIdle Status = iota
	StatusRecording
	StatusUploading
	StatusError
)

// String returns the status display name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRecording:
		return "recording"
	case StatusUploading:
		return "uploading"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// ErrInvalidState reports a start/stop call in the wrong state. It is a
// recoverable condition for the caller, never a crash.
var ErrInvalidState = errors.New("record: invalid session state")

// CaptureSource is the capturable output stream handle exposed by the
// rendering collaborator. Chunks delivers encoded chunks while capturing;
// Finalize flushes the encoder and closes the chunk channel.
type CaptureSource interface {
	Chunks() <-chan []byte
	Finalize() error
}

// Uploader ships a finished clip to the remote relay.
type Uploader interface {
	Submit(ctx context.Context, blob []byte, filename string) (*Receipt, error)
}

// uploadResult carries an upload completion back onto the frame loop.
type uploadResult struct {
	receipt *Receipt
	err     error
}

// Session is the recording state machine: idle → recording → uploading →
// idle on success or error on failure. Error is not sticky: a fresh Start is
// allowed from it. All methods are called from the single frame-loop context;
// only the upload itself runs in the background, reporting back through a
// channel drained by Poll.
type Session struct {
	uploader Uploader

	status  Status
	id      string
	capture CaptureSource
	chunks  [][]byte
	lastErr string

	results chan uploadResult
}

// NewSession creates an idle session that uploads finished clips through
// uploader.
func NewSession(uploader Uploader) *Session {
	return &Session{
		uploader: uploader,
		results:  make(chan uploadResult, 1),
	}
}

// Status returns the current session state.
func (s *Session) Status() Status { return s.status }

// LastError returns the most recent failure reason, empty if none.
func (s *Session) LastError() string { return s.lastErr }

// ChunkCount returns the number of buffered chunks.
func (s *Session) ChunkCount() int { return len(s.chunks) }

// Start begins a capture session. Valid only from idle or error; a missing
// capture stream keeps the session idle and reports the reason.
func (s *Session) Start(capture CaptureSource) error {
	if s.status != StatusIdle && s.status != StatusError {
		return fmt.Errorf("%w: start while %s", ErrInvalidState, s.status)
	}
	if capture == nil {
		s.lastErr = "no capturable output stream"
		return errors.New("record: no capturable output stream")
	}

	s.capture = capture
	s.chunks = s.chunks[:0]
	s.id = uuid.NewString()
	s.lastErr = ""
	s.status = StatusRecording

	slog.Info("recording started", "session", s.id)
	return nil
}

// Append buffers one encoded chunk while recording. Zero-length chunks are
// ignored. Chunks still in flight when Stop is called are collected by the
// finalization drain there, so nothing delivered in the same tick is lost.
func (s *Session) Append(chunk []byte) {
	if s.status != StatusRecording || len(chunk) == 0 {
		return
	}
	s.chunks = append(s.chunks, chunk)
}

// Stop finalizes the capture and hands the concatenated clip to the uploader
// in the background. Valid only while recording.
func (s *Session) Stop() error {
	if s.status != StatusRecording {
		return fmt.Errorf("%w: stop while %s", ErrInvalidState, s.status)
	}

	if err := s.capture.Finalize(); err != nil {
		slog.Warn("capture finalize failed", "session", s.id, "error", err)
	}

	// Drain chunks that arrived between the stop request and finalization.
	for chunk := range s.capture.Chunks() {
		if len(chunk) > 0 {
			s.chunks = append(s.chunks, chunk)
		}
	}
	s.capture = nil

	blob := s.concat()
	filename := s.filename(time.Now())
	s.status = StatusUploading

	slog.Info("recording stopped",
		"session", s.id,
		"chunks", len(s.chunks),
		"bytes", len(blob),
		"filename", filename,
	)

	go func() {
		receipt, err := s.uploader.Submit(context.Background(), blob, filename)
		s.results <- uploadResult{receipt: receipt, err: err}
	}()

	return nil
}

// Poll applies a pending upload completion, if any. Called once per frame
// from the loop that owns the session. Both outcomes discard the buffered
// chunks; only the failure reason is retained.
func (s *Session) Poll() {
	if s.status != StatusUploading {
		return
	}

	select {
	case res := <-s.results:
		s.chunks = nil
		if res.err != nil {
			s.lastErr = res.err.Error()
			s.status = StatusError
			slog.Error("upload failed", "session", s.id, "error", res.err)
			return
		}
		s.lastErr = ""
		s.status = StatusIdle
		slog.Info("upload complete", "session", s.id, "receipt", res.receipt)
	default:
	}
}

// concat joins the buffered chunks into one opaque blob.
func (s *Session) concat() []byte {
	total := 0
	for _, c := range s.chunks {
		total += len(c)
	}
	blob := make([]byte, 0, total)
	for _, c := range s.chunks {
		blob = append(blob, c...)
	}
	return blob
}

// filename derives a filesystem-safe clip name from wall-clock time.
func (s *Session) filename(now time.Time) string {
	short := s.id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("murmur-%s-%s.mjpeg", now.Format("20060102-150405"), short)
}
