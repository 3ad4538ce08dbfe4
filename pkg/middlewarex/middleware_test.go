package middlewarex

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"offer_sniper/pkg/contextx"
)

func TestTraceIDGeneratesAndEchoesHeader(t *testing.T) {
	rq := require.New(t)

	var seen contextx.TraceID
	handler := TraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID, err := contextx.TraceIDFromContext(r.Context())
		rq.NoError(err)
		seen = traceID
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	rq.NotEmpty(seen.String())
	rq.Equal(seen.String(), rec.Header().Get(headerNameTraceID))
}

func TestLoggerEnrichesContext(t *testing.T) {
	rq := require.New(t)

	called := false
	handler := TraceID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		rq.NotNil(logger(r.Context()))
	})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/bot", nil))

	rq.True(called)
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	rq := require.New(t)

	handler := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	rq.NotPanics(func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	rq.Equal(http.StatusInternalServerError, rec.Code)
}
