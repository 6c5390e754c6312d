package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/juancollazo-ch/order-confirmation-service/internal/api"
	"github.com/juancollazo-ch/order-confirmation-service/internal/logging"
	"github.com/juancollazo-ch/order-confirmation-service/internal/presenter"
	"github.com/juancollazo-ch/order-confirmation-service/internal/service"
	"go.uber.org/zap"
)

type ConfirmHandler struct {
	orchestrator  *service.Orchestrator
	renderer      *presenter.Renderer
	homePath      string
	redirectDelay time.Duration
}

func NewConfirmHandler(o *service.Orchestrator, r *presenter.Renderer, homePath string, redirectDelay time.Duration) *ConfirmHandler {
	if homePath == "" {
		homePath = "/"
	}
	return &ConfirmHandler{
		orchestrator:  o,
		renderer:      r,
		homePath:      homePath,
		redirectDelay: redirectDelay,
	}
}

// redirectNavigator remembers the navigation target so the page can be
// answered with a Refresh header once the flow is done.
type redirectNavigator struct {
	mu     sync.Mutex
	target string
}

func (n *redirectNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = path
}

func (n *redirectNavigator) Target() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target, n.target != ""
}

// Confirm runs one confirmation flow for the page URL and renders the result.
func (h *ConfirmHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	// HEAD would still send the confirmation POST
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// browser cookies travel upstream with the confirmation call
	ctx := api.WithCookies(r.Context(), r.Cookies())

	nav := &redirectNavigator{}
	flow := h.orchestrator.NewFlow(service.URLLocation{URL: r.URL}, nav)
	state := flow.Run(ctx)

	view := presenter.Present(state, presenter.Links{
		RetryURL: r.URL.RequestURI(),
		HomeURL:  h.homePath,
	})

	logger := logging.FromContext(ctx)
	logger.Info("Confirmation flow finished",
		zap.String("order_id", flow.Params().OrderID),
		zap.String("status", state.Status.String()),
		zap.Bool("fallback", state.Fallback),
	)

	w.Header().Set("Cache-Control", "no-store")
	if target, ok := nav.Target(); ok {
		w.Header().Set("Refresh", fmt.Sprintf("%d; url=%s", int(h.redirectDelay.Seconds()), target))
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		if err := h.renderer.RenderJSON(w, view); err != nil {
			logger.Error("Error writing JSON view", zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, view); err != nil {
		logger.Error("Error rendering view", zap.Error(err))
	}
}

// Home serves the landing page at the home route.
func (h *ConfirmHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != h.homePath {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderHome(w); err != nil {
		logging.FromContext(r.Context()).Error("Error rendering home", zap.Error(err))
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
