package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/juancollazo-ch/order-confirmation-service/internal/logging"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedBreaker gobreaker.State

func (b fixedBreaker) State() gobreaker.State { return gobreaker.State(b) }

func TestTraceIDFromHeader(t *testing.T) {
	assert.Equal(t, "105445aa7843bc8bf206b12000100000", traceIDFromHeader("105445aa7843bc8bf206b12000100000/1;o=1"))
	assert.Equal(t, "abc", traceIDFromHeader("abc"))
	assert.Equal(t, "", traceIDFromHeader(""))
}

func TestWithLogging_PropagatesTraceID(t *testing.T) {
	var seen string
	h := withLogging(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.TraceID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/confirm", nil)
	req.Header.Set("X-Cloud-Trace-Context", "trace-123/456;o=1")
	w := httptest.NewRecorder()
	h(w, req)

	assert.Equal(t, "trace-123", seen)
	assert.Equal(t, "trace-123", w.Header().Get("X-Trace-Id"))
}

func TestWithLogging_GeneratesTraceID(t *testing.T) {
	var seen string
	h := withLogging(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.TraceID(r.Context())
	})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/confirm", nil))

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	healthHandler(fixedBreaker(gobreaker.StateOpen))(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, serviceName, resp.Service)
	assert.Equal(t, "open", resp.Breaker)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger("loud")
	assert.Error(t, err)
}
