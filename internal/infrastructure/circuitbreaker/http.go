package circuitbreaker

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/observability/telemetry"
)

var errServerStatus = errors.New("server error status")

// Doer is the subset of *http.Client used by the outbound adapters.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient wraps an HTTP client with circuit breaker protection. Transport
// errors and 5xx responses count as failures; the 5xx response itself is
// still returned to the caller.
type HTTPClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewHTTPClient creates a new HTTP client with circuit breaker
func NewHTTPClient(client *http.Client, breaker *gobreaker.CircuitBreaker, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &HTTPClient{
		client:  client,
		breaker: breaker,
		log:     log,
	}
}

// Name returns the breaker name, which is also the API name used in metrics.
func (c *HTTPClient) Name() string {
	return c.breaker.Name()
}

// Do executes an HTTP request with circuit breaker protection
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, fmt.Errorf("%w: %d", errServerStatus, resp.StatusCode)
		}

		return resp, nil
	})

	switch {
	case err == nil:
		telemetry.UpstreamRequestsTotal.WithLabelValues(c.Name(), "ok").Inc()
		return result.(*http.Response), nil
	case errors.Is(err, errServerStatus):
		telemetry.UpstreamRequestsTotal.WithLabelValues(c.Name(), "server_error").Inc()
		return result.(*http.Response), nil
	case IsRejected(err):
		telemetry.UpstreamRequestsTotal.WithLabelValues(c.Name(), "rejected").Inc()
		c.log.Warn("Circuit breaker open, request blocked",
			zap.String("host", req.URL.Host),
			zap.String("breaker", c.Name()),
		)
		return nil, err
	default:
		telemetry.UpstreamRequestsTotal.WithLabelValues(c.Name(), "transport_error").Inc()
		return nil, err
	}
}
