package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	dErrors "mercato/pkg/domain-errors"
)

// Candidate is one method/path pair in an ordered fallback chain.
type Candidate struct {
	Method string
	Path   string
}

// TryCandidates probes candidates in order with the same JSON payload,
// stopping at the first non-404 outcome. A 404 or an unreachable host means
// "this variant doesn't exist here, try the next one"; any other response,
// success or failure, is authoritative and ends the probe.
//
// This exists because the backend exposes the order-type toggle under
// several method/URL variants and none is documented as canonical. Which
// one is authoritative is not knowable from this side, so the chain is
// preserved rather than guessing a single endpoint.
func (c *Client) TryCandidates(ctx context.Context, label string, candidates []Candidate, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal candidate payload")
	}

	var lastErr error
	for _, cand := range candidates {
		_, err := c.do(ctx, label, cand.Method, cand.Path, "application/json", bytes.NewReader(body))
		switch {
		case err == nil:
			c.countFallback("hit")
			return nil
		case dErrors.HasCode(err, dErrors.CodeNotFound),
			errors.Is(err, errNoResponse):
			c.countFallback("miss")
			lastErr = err
			continue
		default:
			c.countFallback("failed")
			return err
		}
	}

	if lastErr == nil {
		lastErr = dErrors.New(dErrors.CodeNotFound, "no candidate endpoint accepted the request")
	}
	return lastErr
}

func (c *Client) countFallback(outcome string) {
	if c.metrics != nil {
		c.metrics.FallbackAttempts.WithLabelValues(outcome).Inc()
	}
}

// OrderTypeCandidates returns the known variants of the order-type toggle
// endpoint, tried in the order the original dashboard probed them.
func OrderTypeCandidates() []Candidate {
	return []Candidate{
		{Method: http.MethodPatch, Path: "/ordersOrderType"},
		{Method: http.MethodPatch, Path: "/ordersOrderType/"},
		{Method: http.MethodPost, Path: "/ordersOrderType"},
		{Method: http.MethodPost, Path: "/ordersOrderType/"},
		{Method: http.MethodPut, Path: "/ordersOrderType"},
		{Method: http.MethodPut, Path: "/ordersOrderType/"},
	}
}
