package appsearch

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

func TestObserver_Metrics(t *testing.T) {
	reg := newRegistry()
	srv := newHandlerServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/engines/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"name":"books"}`))
	})

	c, err := New("k", "api_key", WithBaseURL(srv), WithPrometheus(reg))
	require.NoError(t, err)

	_, err = c.GetEngine(t.Context(), "books")
	require.NoError(t, err)
	_, err = c.GetEngine(t.Context(), "missing")
	require.Error(t, err)

	m := c.obs.metrics
	assert.InDelta(t, 1, testutil.ToFloat64(m.operations.WithLabelValues("engines.get", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.operations.WithLabelValues("engines.get", "error")), 0)

	n, err := testutil.GatherAndCount(reg,
		"appsearch_client_http_requests_total",
		"appsearch_client_operation_duration_seconds",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, n) // two status codes + one histogram series
}

func TestObserver_IndexDocumentCountsOnce(t *testing.T) {
	reg := newRegistry()
	srv := newHandlerServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","errors":[]}]`))
	})
	c, err := New("k", "api_key", WithBaseURL(srv), WithPrometheus(reg))
	require.NoError(t, err)

	_, err = c.IndexDocument(t.Context(), testEngine, Document{"id": "1"})
	require.NoError(t, err)

	m := c.obs.metrics
	assert.InDelta(t, 1, testutil.ToFloat64(m.operations.WithLabelValues("document.index", "ok")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.operations.WithLabelValues("documents.index", "ok")), 0)
}

func TestObserver_SharedRegistry(t *testing.T) {
	reg := newRegistry()
	_, err := New("k", "api_key", WithPrometheus(reg))
	require.NoError(t, err)
	_, err = New("k", "api_key", WithPrometheus(reg))
	assert.NoError(t, err)
}

func TestObserver_Logging(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	c, _ := newStub(t, http.StatusOK, `[]`)
	obs, err := newObserver(zap.New(core), nil, nil)
	require.NoError(t, err)
	c.obs = obs

	_, err = c.ListEngines(t.Context())
	require.NoError(t, err)
	_, err = c.IndexDocuments(t.Context(), testEngine, []Document{{}})
	require.Error(t, err)

	completed := logs.FilterMessage("operation completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, "engines.list", completed[0].ContextMap()["op"])

	failed := logs.FilterMessage("operation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "documents.index", failed[0].ContextMap()["op"])

	// The transport logs through the op-scoped logger carried in the context.
	requests := logs.FilterMessage("http request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, "engines.list", requests[0].ContextMap()["op"])
}

func TestObserver_Tracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	srv := newHandlerServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, err := New("k", "api_key", WithBaseURL(srv), WithTracerProvider(tp))
	require.NoError(t, err)

	_, err = c.Search(t.Context(), testEngine, "x", nil)
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "appsearch.search", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestObserver_NilIsSafe(t *testing.T) {
	var o *observer
	ctx, done := o.start(t.Context(), "noop")
	assert.NotNil(t, ctx)
	done(nil)
}
