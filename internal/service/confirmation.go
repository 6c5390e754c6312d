package service

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	apperrors "github.com/juancollazo-ch/order-confirmation-service/internal/errors"
	"github.com/juancollazo-ch/order-confirmation-service/internal/logging"
	"github.com/juancollazo-ch/order-confirmation-service/internal/metrics"
	"github.com/juancollazo-ch/order-confirmation-service/internal/models"
	"github.com/juancollazo-ch/order-confirmation-service/internal/validator"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultTimeout bounds the wait for the confirmation API.
const DefaultTimeout = 15 * time.Second

// Confirmer sends one confirmation request.
type Confirmer interface {
	Confirm(ctx context.Context, params models.RequestParams) (*models.ConfirmResponse, error)
}

// Navigator performs programmatic navigation after a confirmed order.
type Navigator interface {
	Navigate(path string)
}

// Location provides the current page URL query.
type Location interface {
	Query() url.Values
}

// URLLocation is a Location backed by a parsed URL.
type URLLocation struct {
	URL *url.URL
}

func (l URLLocation) Query() url.Values {
	if l.URL == nil {
		return url.Values{}
	}
	return l.URL.Query()
}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

// Orchestrator creates confirmation flows sharing one client and clock.
type Orchestrator struct {
	client    Confirmer
	validator *validator.RequestValidator
	clock     clockwork.Clock
	timeout   time.Duration
	homePath  string
}

type Option func(*Orchestrator)

func WithClock(clock clockwork.Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithHomePath(path string) Option {
	return func(o *Orchestrator) {
		if path != "" {
			o.homePath = path
		}
	}
}

func NewOrchestrator(client Confirmer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:    client,
		validator: validator.NewRequestValidator(),
		clock:     clockwork.NewRealClock(),
		timeout:   DefaultTimeout,
		homePath:  "/",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewFlow derives the request parameters from loc once; they do not change
// for the lifetime of the flow. A nil nav disables navigation.
func (o *Orchestrator) NewFlow(loc Location, nav Navigator) *Flow {
	if nav == nil {
		nav = noopNavigator{}
	}
	return &Flow{
		o:      o,
		params: models.ParamsFromQuery(loc.Query()),
		nav:    nav,
		done:   make(chan struct{}),
		state:  models.InitialState(),
	}
}

// Flow is one page load: a single request raced against a timer.
// Its terminal state is assigned exactly once; later results are dropped.
type Flow struct {
	o      *Orchestrator
	params models.RequestParams
	nav    Navigator

	once     sync.Once
	done     chan struct{}
	inflight sync.WaitGroup

	mu    sync.Mutex
	state models.FlowState
}

func (f *Flow) Params() models.RequestParams {
	return f.params
}

func (f *Flow) State() models.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Done is closed when the flow reaches a terminal state.
func (f *Flow) Done() <-chan struct{} {
	return f.done
}

// Run executes the flow on its first call and blocks until it is terminal.
// Further calls never issue another request; they return the same state.
func (f *Flow) Run(ctx context.Context) models.FlowState {
	f.once.Do(func() { f.run(ctx) })
	<-f.done
	return f.State()
}

// Wait blocks until the request goroutine has returned, including a request
// that lost the race against the timer.
func (f *Flow) Wait() {
	f.inflight.Wait()
}

func (f *Flow) run(ctx context.Context) {
	ctx = logging.WithOrderID(ctx, f.params.OrderID)
	logger := logging.FromContext(ctx).With(
		zap.String("item_id", f.params.ItemID),
		zap.String("action", f.params.Action),
	)

	if err := f.o.validator.ValidateRequest(f.params); err != nil {
		logger.Warn("Invalid confirmation request",
			zap.Error(err),
			zap.Int("status_code", apperrors.GetStatusCode(err)),
		)
		f.settle(models.StatusError, models.MessageInvalidRequest, false, "invalid")
		return
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := f.o.clock.NewTimer(f.o.timeout)
	finished := make(chan struct{})

	logger.Info("Sending confirmation request", zap.Duration("timeout", f.o.timeout))

	f.inflight.Add(1)
	go func() {
		defer f.inflight.Done()
		defer close(finished)

		resp, err := f.o.client.Confirm(reqCtx, f.params)
		f.resolve(resp, err, logger)
	}()

	select {
	case <-finished:
		timer.Stop()
	case <-timer.Chan():
		cancel()
		if f.settle(models.StatusError, models.MessageTimeout, true, "timeout") {
			logger.Warn("Confirmation request timed out", zap.Duration("timeout", f.o.timeout))
		}
	}
}

func (f *Flow) resolve(resp *models.ConfirmResponse, err error, logger *zap.Logger) {
	switch {
	case err == nil && resp != nil && resp.Success:
		if f.settle(models.StatusSuccess, resp.Message, false, "success") {
			logger.Info("Order confirmed", zap.String("server_message", resp.Message))
			f.nav.Navigate(f.o.homePath)
			return
		}

	case err == nil && resp != nil:
		msg := resp.Message
		if msg == "" {
			msg = models.MessageRejectedDefault
		}
		if f.settle(models.StatusRejected, msg, false, "rejected") {
			logger.Info("Order rejected", zap.String("reason", msg))
			return
		}

	case errors.Is(err, context.Canceled):
		if f.settle(models.StatusError, models.MessageTimeout, false, "cancelled") {
			logger.Warn("Confirmation request cancelled", zap.Error(err))
			return
		}

	default:
		msg, ok := apperrors.ServerMessage(err)
		if !ok {
			msg = models.MessageGenericFailure
		}
		if f.settle(models.StatusError, msg, false, "failed") {
			logger.Error("Confirmation request failed",
				zap.Error(err),
				zap.Int("status_code", apperrors.GetStatusCode(err)),
				zap.Int("external_status_code", apperrors.ExternalStatusCode(err)),
				zap.Bool("retryable", apperrors.IsRetryable(err)),
			)
			return
		}
	}

	logger.Debug("Late confirmation result ignored", zap.Error(err))
}

// settle stores the terminal state if none is stored yet.
func (f *Flow) settle(status models.Status, message string, fallback bool, outcome string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Status.IsTerminal() {
		return false
	}

	f.state = models.FlowState{Status: status, Message: message, Fallback: fallback}
	metrics.FlowsTotal.WithLabelValues(outcome).Inc()
	close(f.done)
	return true
}
