// Package netx contains outbound HTTP helpers.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxPageSize bounds the body read by FetchPage.
const MaxPageSize = 10 * 1024 * 1024

var ErrTooLarge = errors.New("response body exceeds size limit")

// FetchPage GETs url and returns at most limit bytes of the body. A
// Content-Length or body above the limit is an error rather than a
// silently truncated page.
func FetchPage(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	if resp.ContentLength > limit {
		return nil, ErrTooLarge
	}

	// one extra byte distinguishes "exactly at the limit" from "over it"
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, ErrTooLarge
	}
	return body, nil
}
