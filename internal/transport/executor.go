package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrTransport marks connection, timeout and protocol level failures.
// HTTP error statuses returned by the server are not transport failures.
var ErrTransport = errors.New("transport failure")

// ErrEncode means the payload could not be encoded as JSON; nothing was sent
var ErrEncode = errors.New("payload encoding failure")

// Request is one authenticated call to the Mpesa API
type Request struct {
	Method  string
	URL     string
	Payload interface{}
	Token   string
	Headers map[string]string
}

// Response carries the upstream status and decoded body verbatim
type Response struct {
	StatusCode int
	// Body is the decoded JSON document (numbers as json.Number), the raw
	// text for non-JSON bodies, or nil for an empty body.
	Body   interface{}
	Header http.Header
}

// Executor sends JSON requests with a bearer token attached
type Executor struct {
	httpClient HTTPClient
	logger     zerolog.Logger
}

func NewExecutor(httpClient HTTPClient, logger zerolog.Logger) *Executor {
	return &Executor{httpClient: httpClient, logger: logger}
}

// Execute performs the request. An unencodable payload wraps ErrEncode; any
// other returned error wraps ErrTransport.
func (e *Executor) Execute(ctx context.Context, r Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodPost
	}

	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+bareToken(r.Token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	e.logger.Debug().
		Str("method", method).
		Str("url", r.URL).
		Str("authorization_preview", "Bearer "+TokenPreview(r.Token)).
		Int("body_len", len(body)).
		Msg("Upstream request")

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Error().Err(err).Str("url", r.URL).Msg("Upstream request failed")
		return nil, fmt.Errorf("%w: failed to send request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		e.logger.Error().Err(err).Str("url", r.URL).Msg("Failed to read upstream response")
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	e.logger.Debug().
		Str("url", r.URL).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Upstream response")

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       decodeBody(raw),
		Header:     resp.Header,
	}, nil
}

func decodeBody(raw []byte) interface{} {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(raw)
	}
	return v
}

// bareToken strips a leading "Bearer " so callers may pass either form
func bareToken(token string) string {
	t := strings.TrimSpace(token)
	if len(t) >= 7 && strings.EqualFold(t[:7], "Bearer ") {
		t = strings.TrimSpace(t[7:])
	}
	return t
}

// TokenPreview shortens a token for logs
func TokenPreview(token string) string {
	t := bareToken(token)
	if len(t) > 12 {
		return t[:6] + "…" + t[len(t)-6:]
	}
	return t
}
