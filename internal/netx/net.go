// Package netx moves file bytes to and from object storage through
// pre-signed URLs. Requests carry no application credentials.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned when the storage service answers with a non-2xx
// status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("storage responded %s", e.Status)
	}
	return fmt.Sprintf("storage responded %s; body: %s", e.Status, e.Body)
}

// Temporary reports whether the failure is on the storage side (5xx).
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

const maxErrorBody = 4 << 10

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(b)}
}

func ok(code int) bool {
	return code >= 200 && code < 300
}

// UploadToPresignedURL PUTs size bytes from body to url with the given
// Content-Type. A nil client means http.DefaultClient.
func UploadToPresignedURL(ctx context.Context, c *http.Client, url, contentType string, body io.Reader, size int64) error {
	if c == nil {
		c = http.DefaultClient
	}
	if size == 0 {
		// a zero ContentLength with a non-nil body would be sent chunked
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return statusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// DownloadFromPresignedURL streams the object at url into w and returns the
// number of bytes written.
func DownloadFromPresignedURL(ctx context.Context, c *http.Client, url string, w io.Writer) (int64, error) {
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return 0, statusError(resp)
	}

	return io.Copy(w, resp.Body)
}
