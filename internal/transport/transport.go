// Package transport carries request bodies to the simulator and returns raw
// reply buffers. The contract is synchronous and at-most-one-in-flight: the
// session serializes calls, and an absent reply (timeout, dropped connection)
// comes back as an empty buffer with no error so the caller can treat it as a
// skipped frame.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Transport is the pluggable request/reply capability the exchange session
// depends on. Send returns the full reply buffer, or an empty buffer when no
// reply was obtained in time.
type Transport interface {
	Send(ctx context.Context, action string, body []byte) ([]byte, error)
}

// HTTPTransport speaks the simulator's SOAP-over-HTTP dialect: one POST per
// exchange with the soapaction header, keep-alive connections, and a request
// timeout on the order of the simulator's frame cadence.
type HTTPTransport struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPTransport creates a transport for the simulator at host:port.
// A non-positive timeout falls back to one second.
func NewHTTPTransport(host string, port int, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &HTTPTransport{
		url:     fmt.Sprintf("http://%s:%d", host, port),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Send posts one request body and reads the full response. Timeouts and
// connection failures are reported as an absent reply, not an error: the
// simulator dropping a frame is a normal transient and must not surface
// through the exchange path.
func (t *HTTPTransport) Send(ctx context.Context, action string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	// Header set per the simulator's fixed contract. Content-Length is the
	// UTF-8 byte length of the body; net/http derives it from the reader.
	req.Header.Set("soapaction", action)
	req.Header.Set("content-type", "text/xml;charset='UTF-8'")
	req.Header.Set("Connection", "Keep-Alive")

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	defer func() { _ = resp.Body.Close() }()

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil
	}
	return reply, nil
}

// URL returns the simulator endpoint.
func (t *HTTPTransport) URL() string {
	return t.url
}
