package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alfredoptarigan/career-copilot/internal/logging"
	"alfredoptarigan/career-copilot/internal/metrics"
)

// Endpoint is a fixed backend path.
type Endpoint string

const (
	EndpointLogin     Endpoint = "/login"
	EndpointInterview Endpoint = "/interview"
	EndpointResume    Endpoint = "/resume"
	EndpointVerify    Endpoint = "/verify"
)

const maxErrorBodySnippet = 512

// Dispatcher issues exactly one backend call per Send. It never retries.
type Dispatcher interface {
	Send(ctx context.Context, endpoint Endpoint, body any) (json.RawMessage, error)
}

type httpDispatcher struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	opaque     map[Endpoint]bool
}

type DispatcherOption func(*httpDispatcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) DispatcherOption {
	return func(d *httpDispatcher) {
		if client != nil {
			d.httpClient = client
		}
	}
}

// WithOpaqueEndpoints marks endpoints whose 2xx body carries no payload. Their
// body is returned raw and never normalized. The login endpoint is opaque by
// default.
func WithOpaqueEndpoints(endpoints ...Endpoint) DispatcherOption {
	return func(d *httpDispatcher) {
		for _, endpoint := range endpoints {
			d.opaque[endpoint] = true
		}
	}
}

func WithDispatcherLogger(logger zerolog.Logger) DispatcherOption {
	return func(d *httpDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher targets baseURL. A zero timeout leaves the transport's own
// limits in place.
func NewDispatcher(baseURL string, timeout time.Duration, opts ...DispatcherOption) Dispatcher {
	d := &httpDispatcher{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zerolog.Nop(),
		opaque:     map[Endpoint]bool{EndpointLogin: true},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send implements Dispatcher.
func (d *httpDispatcher) Send(ctx context.Context, endpoint Endpoint, body any) (json.RawMessage, error) {
	requestID := uuid.NewString()
	log := d.logger.With().Str("endpoint", string(endpoint)).Str("request_id", requestID).Logger()
	start := time.Now()
	defer logging.TraceDuration(log, "dispatcher.Send")()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s request body", endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+string(endpoint), bytes.NewReader(payload))
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log.Debug().Int("body_bytes", len(payload)).Msg("dispatching backend request")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.observe(log, endpoint, "request_error", start, err)
		return nil, &RequestError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		d.observe(log, endpoint, "request_error", start, err)
		return nil, &RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(respBody)
		if len(snippet) > maxErrorBodySnippet {
			snippet = snippet[:maxErrorBodySnippet]
		}
		reqErr := &RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       snippet,
			Err:        errors.Newf("unexpected status %d", resp.StatusCode),
		}
		d.observe(log, endpoint, "request_error", start, reqErr)
		return nil, reqErr
	}

	if d.opaque[endpoint] {
		d.observe(log, endpoint, "success", start, nil)
		return json.RawMessage(respBody), nil
	}

	normalized, err := Normalize(respBody)
	if err != nil {
		d.observe(log, endpoint, "malformed", start, err)
		return nil, err
	}

	d.observe(log, endpoint, "success", start, nil)
	return normalized, nil
}

func (d *httpDispatcher) observe(log zerolog.Logger, endpoint Endpoint, outcome string, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.ObserveBackendRequest(string(endpoint), outcome, elapsed)

	if err != nil {
		log.Warn().Err(err).Str("outcome", outcome).Dur("elapsed", elapsed).Msg("backend request failed")
		return
	}
	log.Info().Str("outcome", outcome).Dur("elapsed", elapsed).Msg("backend request completed")
}
