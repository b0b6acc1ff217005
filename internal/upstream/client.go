package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mercato/internal/platform/metrics"
	dErrors "mercato/pkg/domain-errors"
)

// Doer is the minimal interface needed from an HTTP client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the marketplace backend. One instance is shared by every
// resource store so the base URL and timeout policy exist in exactly one
// place.
type Client struct {
	baseURL string
	http    Doer
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures the Client.
type Option func(*Client)

// WithDoer injects a custom HTTP client, typically for tests.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracer injects a pre-configured tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

const defaultTimeout = 10 * time.Second

// errNoResponse marks transport failures where no HTTP response arrived at
// all. The candidate fallback chain treats these like a 404 and moves on;
// an answered request with an error status is authoritative.
var errNoResponse = errors.New("no response from upstream")

// New creates a backend client. The default timeout applies uniformly to
// every call; the old dashboard only set one on some paths.
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		timeout: defaultTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("mercato/upstream")
	}
	return c
}

// FetchCollection retrieves and normalizes the full collection for a resource.
// On a malformed envelope the record list is empty, never nil, and the error
// carries CodeMalformedResponse.
func (c *Client) FetchCollection(ctx context.Context, res Resource) ([]json.RawMessage, error) {
	return c.FetchCollectionPath(ctx, res.Name, res.CollectionPath, res.Plural)
}

// FetchCollectionPath is the path-level variant for endpoints that do not
// follow the collection/item convention, such as a buyer's orders.
func (c *Client) FetchCollectionPath(ctx context.Context, label, path, plural string) ([]json.RawMessage, error) {
	body, err := c.do(ctx, label, http.MethodGet, path, "", nil)
	if err != nil {
		return []json.RawMessage{}, err
	}
	records, err := DecodeCollection(body, plural)
	if err != nil {
		c.logger.WarnContext(ctx, "malformed upstream envelope",
			"resource", label,
			"path", path,
			"error", err,
		)
	}
	return records, err
}

// FetchItem retrieves one record by id.
func (c *Client) FetchItem(ctx context.Context, res Resource, id string) (json.RawMessage, error) {
	body, err := c.do(ctx, res.Name, http.MethodGet, res.itemPath(id), "", nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Create submits a new record as a multipart form.
func (c *Client) Create(ctx context.Context, res Resource, form *Form) error {
	return c.sendForm(ctx, res.Name, http.MethodPost, res.ItemPath, form)
}

// Update patches an existing record as a multipart form. File parts absent
// from the form leave the stored files untouched.
func (c *Client) Update(ctx context.Context, res Resource, id string, form *Form) error {
	return c.sendForm(ctx, res.Name, http.MethodPatch, res.itemPath(id), form)
}

// Delete removes a record. Irreversible; handlers gate this behind an
// explicit confirmation flag.
func (c *Client) Delete(ctx context.Context, res Resource, id string) error {
	_, err := c.do(ctx, res.Name, http.MethodDelete, res.itemPath(id), "", nil)
	return err
}

// PatchJSON patches a record with a plain JSON body, used for single scalar
// field toggles like highlight and status.
func (c *Client) PatchJSON(ctx context.Context, res Resource, id string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal patch payload")
	}
	_, err = c.do(ctx, res.Name, http.MethodPatch, res.itemPath(id), "application/json", bytes.NewReader(body))
	return err
}

// Ping reports whether the backend is reachable at all. Any HTTP response,
// including an error status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "upstream unreachable")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) sendForm(ctx context.Context, label, method, path string, form *Form) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode multipart form")
	}
	_, err = c.do(ctx, label, method, path, contentType, body)
	return err
}

// do issues one request under the uniform timeout, records metrics and a
// span, and classifies failures into the domain error taxonomy.
func (c *Client) do(ctx context.Context, label, method, path, contentType string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "upstream "+method+" "+path,
		trace.WithAttributes(
			attribute.String("upstream.resource", label),
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		))

	start := time.Now()
	respBody, err := c.execute(ctx, method, path, contentType, body)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	c.metrics.ObserveUpstream(label, outcomeOf(err), elapsed)
	return respBody, err
}

func (c *Client) execute(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build upstream request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded:
			return nil, dErrors.Wrap(err, dErrors.CodeUpstreamTimeout, "upstream request timed out")
		case errors.Is(err, context.Canceled):
			// Caller went away; don't misreport this as an upstream outage.
			return nil, err
		default:
			return nil, dErrors.Wrap(fmt.Errorf("%w: %w", errNoResponse, err), dErrors.CodeUpstreamUnavailable, "upstream request failed")
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstreamUnavailable, "read upstream response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeErrorBody(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// decodeErrorBody maps non-2xx responses onto the domain taxonomy. The
// backend answers errors as {message}, {error}, or {errors:[{field,message}]}
// depending on the endpoint; field errors are relayed verbatim.
func decodeErrorBody(status int, body []byte) error {
	if status == http.StatusNotFound {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}

	var envelope struct {
		Message  string               `json:"message"`
		ErrorMsg string               `json:"error"`
		Errors   []dErrors.FieldError `json:"errors"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		msg := envelope.Message
		if msg == "" {
			msg = envelope.ErrorMsg
		}
		if len(envelope.Errors) > 0 {
			if msg == "" {
				msg = "upstream rejected the request"
			}
			return dErrors.NewFields(dErrors.CodeUpstreamRejected, msg, envelope.Errors)
		}
		if msg != "" {
			if status >= 500 {
				return dErrors.New(dErrors.CodeUpstreamUnavailable, msg)
			}
			return dErrors.New(dErrors.CodeUpstreamRejected, msg)
		}
	}

	if status >= 500 {
		return dErrors.New(dErrors.CodeUpstreamUnavailable, fmt.Sprintf("upstream returned %d", status))
	}
	return dErrors.New(dErrors.CodeUpstreamRejected, fmt.Sprintf("upstream returned %d", status))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return "not_found"
	case dErrors.HasCode(err, dErrors.CodeUpstreamRejected):
		return "rejected"
	case dErrors.HasCode(err, dErrors.CodeUpstreamTimeout):
		return "timeout"
	case dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
