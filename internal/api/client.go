// Package api is the one configured HTTP entry point to the backend. Every
// request carries the session's bearer token and a request ID; every 401
// tears the session down and redirects to login no matter which caller
// issued the request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"saas-admin-console/internal/config"
	"saas-admin-console/internal/logger"
	"saas-admin-console/internal/session"
	"saas-admin-console/internal/telemetry"
	"saas-admin-console/models"
)

const requestIDHeader = "X-Request-ID"

// Navigator is the injected routing capability; the client only ever
// navigates to the login view, on a 401.
type Navigator interface {
	Navigate(path string)
}

type Client struct {
	baseURL      string
	store        session.Store
	nav          Navigator
	httpClient   *http.Client
	uploadClient *http.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker
	metrics      *telemetry.Metrics
}

// NewClient builds the client from configuration. metrics may be nil.
func NewClient(cfg *config.Config, store session.Store, nav Navigator, metrics *telemetry.Metrics) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "AdminAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL:      cfg.APIBaseURL,
		store:        store,
		nav:          nav,
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout},
		uploadClient: &http.Client{Timeout: cfg.UploadTimeout},
		limiter:      rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		breaker:      breaker,
		metrics:      metrics,
	}
}

// do issues one request. The bearer token is re-read from the store every
// time so a Clear is never papered over by a cached token.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, upload bool) (*http.Response, error) {
	tracer := otel.Tracer("admin-api-client")
	ctx, span := tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))

	if err := c.limiter.Wait(ctx); err != nil {
		span.End()
		return nil, networkError(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		span.End()
		return nil, networkError(err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s, err := c.store.Load(); err == nil && s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	httpClient := c.httpClient
	if upload {
		httpClient = c.uploadClient
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return httpClient.Do(req)
	})
	if err != nil {
		// Transport failures and an open breaker both mean "no response".
		span.SetAttributes(attribute.Bool("http.transport_error", true))
		if c.metrics != nil {
			c.metrics.RecordRequest(method, path, "transport_error", time.Since(start).Seconds())
		}
		span.End()
		return nil, networkError(err)
	}

	resp := result.(*http.Response)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	// The span stays open until the caller closes the body, so decoding the
	// response is part of the traced duration.
	resp.Body = &tracedBody{ReadCloser: resp.Body, span: span}
	if c.metrics != nil {
		c.metrics.RecordRequest(method, path, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if err := c.store.Clear(); err != nil {
			logger.Error("Failed to clear session after 401", "error", err)
		}
		if c.metrics != nil {
			c.metrics.RecordSessionTeardown()
		}
		logger.Warn("Received 401, session cleared", "method", method, "path", path)
		c.nav.Navigate("/login")
		return nil, authError()
	}

	return resp, nil
}

// tracedBody holds the request span open until the body is closed. Close is
// idempotent; the span ends exactly once.
type tracedBody struct {
	io.ReadCloser
	span trace.Span
	once sync.Once
}

func (b *tracedBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(func() { b.span.End() })
	return err
}

// recordDecodeError marks the request span failed when the response body
// cannot be decoded; the HTTP layer alone looked fine at that point.
func recordDecodeError(resp *http.Response, err error) {
	if b, ok := resp.Body.(*tracedBody); ok {
		b.span.RecordError(err)
		b.span.SetStatus(codes.Error, "response decode failed")
	}
}

// decodeResponse shapes a response into out. A nil out drains and discards
// the body.
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorBody(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		err := fmt.Errorf("expected JSON response, got %q", ct)
		recordDecodeError(resp, err)
		return decodeError(err)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		recordDecodeError(resp, err)
		return decodeError(err)
	}
	return nil
}

// readErrorBody normalizes a non-2xx response. The backend sends JSON
// bodies with an "error" string field; anything else falls back to the
// status text.
func readErrorBody(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return httpError(resp.StatusCode, body.Error)
		}
		if body.Message != "" {
			return httpError(resp.StatusCode, body.Message)
		}
	}
	return httpError(resp.StatusCode, http.StatusText(resp.StatusCode))
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "", false)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return NewValidationError("encode request body: %v", err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", false)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) PatchJSON(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewValidationError("encode request body: %v", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	resp, err := c.do(ctx, http.MethodPatch, path, reader, contentType, false)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodDelete, path, nil, "", false)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// PostMultipart sends form fields plus file parts under the "pdf_files"
// part name, using the longer upload timeout. A server-side rejection of
// any file surfaces as the single normalized error for the whole request.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []models.ProjectFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return NewValidationError("encode form field %q: %v", key, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile("pdf_files", f.Name)
		if err != nil {
			return NewValidationError("encode file part %q: %v", f.Name, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return NewValidationError("read file %q: %v", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return NewValidationError("finalize multipart body: %v", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), true)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// GetBinary fetches a binary payload (exports) without JSON decoding.
// Returns the raw bytes and the response content type.
func (c *Client) GetBinary(ctx context.Context, path string) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "", false)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", readErrorBody(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", networkError(err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
