package appsearch

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testEngine = "some-engine-name"

// stubCall is one request seen by a stub server.
type stubCall struct {
	method string
	path   string
	query  map[string][]string
	auth   string
	body   string
}

// stubServer answers every request with a fixed status and body and records
// what it received.
type stubServer struct {
	mu    sync.Mutex
	calls []stubCall
}

func newStub(t *testing.T, status int, body string) (*Client, *stubServer) {
	t.Helper()
	stub := &stubServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		stub.mu.Lock()
		stub.calls = append(stub.calls, stubCall{
			method: r.Method,
			path:   r.URL.EscapedPath(),
			query:  r.URL.Query(),
			auth:   r.Header.Get("Authorization"),
			body:   string(b),
		})
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := New("account_host_key", "api_key", WithBaseURL(srv.URL+"/api/v1"))
	require.NoError(t, err)
	return c, stub
}

func (s *stubServer) Calls() []stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubCall(nil), s.calls...)
}
