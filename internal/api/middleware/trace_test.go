package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/usertask-api/internal/api/shared"
	"github.com/phrazzld/usertask-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var traceID string
	h := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/usertasks", nil))

	assert.Len(t, traceID, 32)
	logger.AssertLogContains(t, buf, `"trace_id":"`+traceID+`"`)
	logger.AssertLogContains(t, buf, "inside handler")
}

func TestTraceMiddlewareReusesRequestID(t *testing.T) {
	var traceID string
	h := chimw.RequestID(TraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-7", traceID)
}
