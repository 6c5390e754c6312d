package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/juancollazo-ch/order-confirmation-service/internal/errors"
	"github.com/juancollazo-ch/order-confirmation-service/internal/metrics"
	"github.com/juancollazo-ch/order-confirmation-service/internal/models"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	confirmPath     = "/orders/confirm-quantity"
	secretHeader    = "X-Secret-Key"
	maxErrorBodyLen = 64 << 10
)

// Options tunes the client; zero values fall back to the defaults below.
type Options struct {
	Timeout            time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

// ConfirmClient calls the remote order-confirmation endpoint.
type ConfirmClient struct {
	http   *http.Client
	base   string
	secret string
	cb     *gobreaker.CircuitBreaker
}

func NewConfirmClient(base, secret string, opts Options) (*ConfirmClient, error) {
	if base == "" {
		return nil, errors.New("API_URL is required")
	}
	if secret == "" {
		return nil, errors.New("API_KEY is required")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.BreakerMaxFailures == 0 {
		opts.BreakerMaxFailures = 5
	}
	if opts.BreakerOpenTimeout <= 0 {
		opts.BreakerOpenTimeout = 30 * time.Second
	}

	maxFailures := opts.BreakerMaxFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "confirm-api",
		MaxRequests: 1,
		Timeout:     opts.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			zap.L().Warn("Circuit breaker state changed",
				zap.String("component", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	metrics.CircuitBreakerState.WithLabelValues("confirm-api").Set(0)

	return &ConfirmClient{
		// same bound as the flow timer
		http:   &http.Client{Timeout: opts.Timeout},
		base:   base,
		secret: secret,
		cb:     cb,
	}, nil
}

// Confirm posts the parameters to /orders/confirm-quantity.
//
// A 2xx answer is returned as-is, whatever its success flag. Non-2xx answers
// come back as *errors.AppError carrying the server "message", if any.
// Cancellation of ctx is returned wrapping context.Canceled.
func (c *ConfirmClient) Confirm(ctx context.Context, params models.RequestParams) (*models.ConfirmResponse, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("error marshaling params: %w", err)
	}

	start := time.Now()
	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.post(ctx, body)
	})
	metrics.RequestDuration.WithLabelValues(resultLabel(err)).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.ErrServiceUnavailable("circuit breaker open", err)
		}
		return nil, err
	}

	return out.(*models.ConfirmResponse), nil
}

// State reports the circuit breaker state, mostly for health output.
func (c *ConfirmClient) State() gobreaker.State {
	return c.cb.State()
}

func (c *ConfirmClient) post(ctx context.Context, body []byte) (*models.ConfirmResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+confirmPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, c.secret)
	for _, cookie := range CookiesFromContext(ctx) {
		req.AddCookie(cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("confirm request cancelled: %w", err)
		}
		return nil, apperrors.ErrServiceUnavailable("", fmt.Errorf("request error: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody models.ErrorBody
		// an unreadable error body just means no server message
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodyLen)).Decode(&errBody)
		return nil, apperrors.ErrExternalAPI(resp.StatusCode, errBody.Message,
			fmt.Errorf("confirm api error: status %d", resp.StatusCode))
	}

	var out models.ConfirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.ErrExternalAPI(resp.StatusCode, "",
			fmt.Errorf("invalid JSON from confirm api: %w", err))
	}

	return &out, nil
}

// countsAsSuccess keeps caller-side outcomes (4xx, cancellation) from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	code := apperrors.ExternalStatusCode(err)
	return code >= 400 && code < 500
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected_by_breaker"
	default:
		return "error"
	}
}

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
