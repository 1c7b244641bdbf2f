package gesture

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// frameMessage is the wire format of one landmark delivery from the hand-pose
// sidecar: zero or one detected hand per processed video frame.
type frameMessage struct {
	Landmarks []Landmark `json:"landmarks"`
}

// Stream reads hand-landmark frames from the pose sidecar over a websocket
// and hands them to the frame loop through a small buffered channel. The
// reader never blocks the render loop: when the channel is full the oldest
// frame is dropped, since only the freshest hand pose matters.
type Stream struct {
	url    string
	frames chan []Landmark
}

// NewStream creates a landmark stream client for the given ws:// URL.
func NewStream(url string) *Stream {
	return &Stream{
		url:    url,
		frames: make(chan []Landmark, 4),
	}
}

// Frames returns the channel of landmark frames. An empty slice is a valid
// delivery meaning no hand was detected.
func (s *Stream) Frames() <-chan []Landmark {
	return s.frames
}

// Run connects and reads frames until ctx is canceled, reconnecting with a
// fixed backoff on any connection failure. A missing sidecar is an
// input-unavailable condition, not an error: the engine keeps rendering with
// frozen control parameters.
func (s *Stream) Run(ctx context.Context) error {
	const backoff = 2 * time.Second

	for {
		if err := s.readLoop(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Warn("landmark stream disconnected", "url", s.url, "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
	}
}

func (s *Stream) readLoop(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
		NetDialContext: (&net.Dialer{
			Timeout: 5 * time.Second,
		}).DialContext,
	}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	slog.Info("landmark stream connected", "url", s.url)

	// Close the socket when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return context.Canceled
			}
			return err
		}

		var msg frameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("malformed landmark frame", "error", err)
			continue
		}

		s.deliver(msg.Landmarks)
	}
}

// deliver pushes a frame, dropping the oldest pending one when full.
func (s *Stream) deliver(frame []Landmark) {
	for {
		select {
		case s.frames <- frame:
			return
		default:
			select {
			case <-s.frames:
			default:
			}
		}
	}
}
