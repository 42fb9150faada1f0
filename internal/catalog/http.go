package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-product-search/config"
	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/internal/logger"
	"github.com/gcbaptista/go-product-search/internal/metrics"
	"github.com/gcbaptista/go-product-search/model"
)

const (
	productsPath = "/products"
	// maxCatalogBytes bounds the response body read from the storefront.
	maxCatalogBytes = 64 << 20
)

// ErrCircuitOpen is returned while the breaker rejects calls to the storefront.
var ErrCircuitOpen = gobreaker.ErrOpenState

// statusError is a non-2xx response from the storefront.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.code, e.body)
}

// HTTPSource fetches the catalog from the storefront API.
type HTTPSource struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]model.Product]
	logger  *zap.Logger
}

// NewHTTPSource creates a source for GET {cfg.URL}/products. Consecutive
// failures (transport errors and 5xx responses) trip the breaker after
// cfg.BreakerMaxFailures; it stays open for cfg.BreakerOpenTimeout.
func NewHTTPSource(cfg config.CatalogConfig, log *zap.Logger) *HTTPSource {
	log = logger.OrNop(log)
	name := "catalog"

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// 4xx is the caller's problem, not an outage.
			var se *statusError
			if errors.As(err, &se) {
				return se.code < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPSource{
		url:     strings.TrimRight(cfg.URL, "/") + productsPath,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]model.Product](settings),
		logger:  log,
	}
}

// State reports the breaker state.
func (s *HTTPSource) State() gobreaker.State {
	return s.breaker.State()
}

// Products fetches and decodes the storefront catalog through the breaker.
func (s *HTTPSource) Products(ctx context.Context) ([]model.Product, error) {
	products, err := s.breaker.Execute(func() ([]model.Product, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		metrics.CatalogFetchesTotal.WithLabelValues("http", "error").Inc()
		s.logger.Warn("catalog fetch failed", zap.String("url", s.url), zap.Error(err))
		return nil, apperrors.NewCatalogUnavailableError(s.url, err)
	}
	metrics.CatalogFetchesTotal.WithLabelValues("http", "ok").Inc()
	return products, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}
	return decodeJSON(body)
}

// stateToFloat maps gobreaker states to prometheus gauge values.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
