// Package netx holds small HTTP helpers shared by outbound clients.
package netx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBody caps how much of a response body is read.
const maxBody = 1 << 20

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s; body: %s", e.Status, e.Body)
}

// DoJSON sends req and decodes a 2xx JSON body into out; a nil out discards
// the body. Non-2xx responses return *StatusError with the body attached.
// Transport failures are returned unchanged.
func DoJSON(client *http.Client, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBody)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(body)
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: string(b)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
