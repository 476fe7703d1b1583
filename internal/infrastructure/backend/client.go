// Package backend contains the HTTP clients for the marketplace API. All
// clients share one transport policy: the bearer token is resolved per call,
// bodies are JSON or multipart (multipart whenever files are attached),
// backend rejections are normalized through a message fallback chain, and
// transport-level failures collapse into a fixed "network error" result. A
// 401 on an authenticated call triggers at most one token refresh and retry,
// reported back to the session store through the SessionSignals observer.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
	"github.com/bazarly/vendor-portal/internal/metrics"
)

// NetworkErrorMessage is the fixed message carried by results whose request
// never completed (connection refused, DNS failure, closed pipe).
const NetworkErrorMessage = "network error"

const refreshPath = "/auth/refresh"

// Client is the shared HTTP layer under the auth, vendor, and product
// clients.
type Client struct {
	httpClient *http.Client
	baseURL    string
	signals    ports.SessionSignals
	logger     zerolog.Logger
}

// NewClient builds the shared client. A zero timeout leaves requests
// unbounded; duplicate-action gating is handled upstream by the in-flight
// flags.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// SetSignals wires the session observer after construction; the session
// service depends on the clients, so the observer cannot be a constructor
// argument.
func (c *Client) SetSignals(s ports.SessionSignals) {
	c.signals = s
}

// bodyFunc builds a request body. Multipart bodies must be rebuilt for the
// refresh retry because the boundary and the buffer are single-use.
type bodyFunc func() (contentType string, body io.Reader, err error)

type response struct {
	status int
	body   []byte
	err    error // transport-level failure; status and body are unset
}

func (r response) ok() bool {
	return r.err == nil && r.status >= 200 && r.status < 300
}

// do issues one request and reads the full body. endpoint is the logical
// name used for metrics.
func (c *Client) do(ctx context.Context, endpoint, method, path, token string, build bodyFunc) response {
	start := time.Now()
	resp := c.doOnce(ctx, method, path, token, build)
	metrics.BackendRequestDuration.WithLabelValues(endpoint, outcomeLabel(resp)).Observe(time.Since(start).Seconds())
	return resp
}

// doAuthed issues an authenticated request with the refresh-and-retry
// policy: on a 401 the client attempts one token refresh; success replays
// the request with the new token and notifies the session store, failure
// signals a forced logout and returns the original 401.
func (c *Client) doAuthed(ctx context.Context, endpoint, method, path string, auth ports.CallAuth, build bodyFunc) response {
	resp := c.do(ctx, endpoint, method, path, auth.Token, build)
	if resp.err != nil || resp.status != http.StatusUnauthorized || auth.SessionID == "" {
		return resp
	}

	newToken, user, ok := c.refresh(ctx, auth)
	if !ok {
		if c.signals != nil {
			c.signals.OnForceLogout(ctx, auth.SessionID)
		}
		return resp
	}
	if c.signals != nil {
		c.signals.OnTokenRefreshed(ctx, auth.SessionID, newToken, user)
	}
	return c.do(ctx, endpoint, method, path, newToken, build)
}

// refresh exchanges the expired token for a new one.
func (c *Client) refresh(ctx context.Context, auth ports.CallAuth) (string, *domain.User, bool) {
	resp := c.do(ctx, "auth_refresh", http.MethodPost, refreshPath, "", jsonBody(map[string]string{
		"accessToken": auth.Token,
	}))
	if !resp.ok() {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		c.logger.Info().Str("session_id", auth.SessionID).Msg("token refresh failed")
		return "", nil, false
	}

	var payload struct {
		AccessToken string       `json:"accessToken"`
		Token       string       `json:"token"`
		User        *domain.User `json:"user"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return "", nil, false
	}
	token := payload.AccessToken
	if token == "" {
		token = payload.Token
	}
	if token == "" {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return "", nil, false
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return token, payload.User, true
}

func (c *Client) doOnce(ctx context.Context, method, path, token string, build bodyFunc) response {
	var (
		contentType string
		body        io.Reader
	)
	if build != nil {
		var err error
		contentType, body, err = build()
		if err != nil {
			return response{err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend request failed")
		return response{err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return response{err: err}
	}
	return response{status: res.StatusCode, body: data}
}

// callResult normalizes a response into the uniform result shape.
func callResult(resp response) ports.CallResult {
	if resp.err != nil {
		return ports.CallResult{Success: false, Message: NetworkErrorMessage, NetworkError: true}
	}
	if !resp.ok() {
		return ports.CallResult{Success: false, Message: errorMessage(resp.status, resp.body), Status: resp.status}
	}
	return ports.CallResult{Success: true, Status: resp.status}
}

// errorMessage resolves a human-readable message from a non-2xx response:
// JSON "message", then JSON "error", then the raw body, then a templated
// fallback.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func outcomeLabel(resp response) string {
	switch {
	case resp.err != nil:
		return "network_error"
	case resp.status >= 500:
		return "5xx"
	case resp.status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

// sprintfPath fills a path template with escaped segments.
func sprintfPath(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(format, escaped...)
}

// jsonBody returns a bodyFunc serializing v as JSON.
func jsonBody(v any) bodyFunc {
	return func() (string, io.Reader, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", nil, err
		}
		return "application/json", bytes.NewReader(data), nil
	}
}

// multipartBody returns a bodyFunc building a multipart form with one JSON
// field plus file parts. Rebuilt on every call so retries get a fresh
// boundary and buffer.
func multipartBody(jsonField string, jsonValue any, files []ports.FileUpload) bodyFunc {
	return func() (string, io.Reader, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)

		if jsonField != "" {
			data, err := json.Marshal(jsonValue)
			if err != nil {
				return "", nil, err
			}
			field, err := w.CreateFormField(jsonField)
			if err != nil {
				return "", nil, err
			}
			if _, err := field.Write(data); err != nil {
				return "", nil, err
			}
		}

		for _, f := range files {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				fmt.Sprintf(`form-data; name=%q; filename=%q`, f.FieldName, f.FileName))
			if f.ContentType != "" {
				header.Set("Content-Type", f.ContentType)
			}
			part, err := w.CreatePart(header)
			if err != nil {
				return "", nil, err
			}
			if _, err := part.Write(f.Data); err != nil {
				return "", nil, err
			}
		}

		if err := w.Close(); err != nil {
			return "", nil, err
		}
		return w.FormDataContentType(), &buf, nil
	}
}
