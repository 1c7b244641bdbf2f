package record

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeCapture is a CaptureSource fed by the test.
type fakeCapture struct {
	ch        chan []byte
	finalized bool
}

func newFakeCapture() *fakeCapture {
	return &fakeCapture{ch: make(chan []byte, 16)}
}

func (f *fakeCapture) Chunks() <-chan []byte { return f.ch }

func (f *fakeCapture) Finalize() error {
	f.finalized = true
	close(f.ch)
	return nil
}

// fakeUploader records submissions and returns a scripted result.
type fakeUploader struct {
	blob     []byte
	filename string
	err      error
}

func (f *fakeUploader) Submit(_ context.Context, blob []byte, filename string) (*Receipt, error) {
	f.blob = blob
	f.filename = filename
	if f.err != nil {
		return nil, f.err
	}
	return &Receipt{ID: "r1"}, nil
}

// waitSettled polls until the session leaves uploading.
func waitSettled(t *testing.T, s *Session) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Status() == StatusUploading {
		if time.Now().After(deadline) {
			t.Fatal("session stuck in uploading")
		}
		s.Poll()
		time.Sleep(time.Millisecond)
	}
}

func TestSession_StopBeforeStart(t *testing.T) {
	s := NewSession(&fakeUploader{})

	err := s.Stop()
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if s.Status() != StatusIdle {
		t.Errorf("status = %v, want idle", s.Status())
	}
}

func TestSession_StartWhileRecording(t *testing.T) {
	s := NewSession(&fakeUploader{})
	if err := s.Start(newFakeCapture()); err != nil {
		t.Fatal(err)
	}

	err := s.Start(newFakeCapture())
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if s.Status() != StatusRecording {
		t.Errorf("status = %v, want recording", s.Status())
	}
}

func TestSession_StartWithoutStream(t *testing.T) {
	s := NewSession(&fakeUploader{})

	err := s.Start(nil)
	if err == nil {
		t.Fatal("expected an error for a missing capture stream")
	}
	if errors.Is(err, ErrInvalidState) {
		t.Error("missing stream is not an invalid-state condition")
	}
	if s.Status() != StatusIdle {
		t.Errorf("status = %v, want idle", s.Status())
	}
	if s.LastError() == "" {
		t.Error("expected a recorded failure reason")
	}
}

func TestSession_FullCycleSuccess(t *testing.T) {
	up := &fakeUploader{}
	s := NewSession(up)
	cap := newFakeCapture()

	if err := s.Start(cap); err != nil {
		t.Fatal(err)
	}

	s.Append([]byte("aa"))
	s.Append(nil) // zero-length: ignored
	s.Append([]byte("bb"))
	s.Append([]byte("cc"))
	if s.ChunkCount() != 3 {
		t.Fatalf("chunk count = %d, want 3", s.ChunkCount())
	}

	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	waitSettled(t, s)

	if s.Status() != StatusIdle {
		t.Errorf("status = %v, want idle", s.Status())
	}
	if s.ChunkCount() != 0 {
		t.Errorf("retained %d chunks after success, want 0", s.ChunkCount())
	}
	if string(up.blob) != "aabbcc" {
		t.Errorf("uploaded blob = %q, want concatenated chunks", up.blob)
	}
	if up.filename == "" {
		t.Error("expected a generated filename")
	}
	for _, c := range up.filename {
		if c == '/' || c == ' ' || c == ':' {
			t.Errorf("filename %q is not filesystem-safe", up.filename)
		}
	}
}

func TestSession_ChunkDeliveredAfterStopStillIncluded(t *testing.T) {
	up := &fakeUploader{}
	s := NewSession(up)
	cap := newFakeCapture()

	if err := s.Start(cap); err != nil {
		t.Fatal(err)
	}
	s.Append([]byte("aa"))

	// A chunk sitting in the capture channel when Stop runs must be picked up
	// by the finalization drain.
	cap.ch <- []byte("zz")

	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	waitSettled(t, s)

	if string(up.blob) != "aazz" {
		t.Errorf("uploaded blob = %q, want %q", up.blob, "aazz")
	}
	if !cap.finalized {
		t.Error("capture was never finalized")
	}
}

func TestSession_FailedUpload(t *testing.T) {
	up := &fakeUploader{err: errors.New("relay unreachable")}
	s := NewSession(up)

	if err := s.Start(newFakeCapture()); err != nil {
		t.Fatal(err)
	}
	s.Append([]byte("aa"))
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	waitSettled(t, s)

	if s.Status() != StatusError {
		t.Errorf("status = %v, want error", s.Status())
	}
	if s.ChunkCount() != 0 {
		t.Errorf("retained %d chunks after failure, want 0", s.ChunkCount())
	}
	if s.LastError() == "" {
		t.Error("expected a non-empty failure reason")
	}
}

func TestSession_ErrorNotSticky(t *testing.T) {
	up := &fakeUploader{err: errors.New("boom")}
	s := NewSession(up)

	if err := s.Start(newFakeCapture()); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	waitSettled(t, s)
	if s.Status() != StatusError {
		t.Fatalf("status = %v, want error", s.Status())
	}

	// A fresh start from error returns to recording.
	if err := s.Start(newFakeCapture()); err != nil {
		t.Fatalf("start from error state: %v", err)
	}
	if s.Status() != StatusRecording {
		t.Errorf("status = %v, want recording", s.Status())
	}
}
