package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"
)

// Default timeouts for the upload client.
const (
	defaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
)

// Receipt is the relay's acknowledgement of a stored clip.
type Receipt struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// relayResponse is the relay's response envelope.
type relayResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
	Receipt
}

// Client uploads finished clips to the remote relay. A transport failure and
// an application-level rejection are reported identically: as an error from
// Submit.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates an upload client for the relay endpoint.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url: url,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: defaultConnectTimeout,
				}).DialContext,
				MaxIdleConns:        10,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// Submit ships one clip blob under the given filename.
func (c *Client) Submit(ctx context.Context, blob []byte, filename string) (*Receipt, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("clip", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(blob); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading clip: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("relay rejected upload: status %d", resp.StatusCode)
	}

	var rr relayResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		return nil, fmt.Errorf("decoding relay response: %w", err)
	}
	if !rr.OK {
		reason := rr.Reason
		if reason == "" {
			reason = "unspecified"
		}
		return nil, fmt.Errorf("relay rejected upload: %s", reason)
	}

	return &rr.Receipt, nil
}
