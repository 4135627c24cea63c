// Package apitest runs an in-memory App Search API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RecordedRequest is one request seen by the Server.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Body          []byte
}

// Server is an httptest server speaking the App Search engine, document and
// search endpoints under /api/v1. Engines and documents live in memory.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	engines     map[string]map[string]map[string]any
	indexErrors map[string][]string
	requests    []RecordedRequest
}

// NewServer starts a Server that accepts apiKey as Bearer token.
// Callers must Close it.
func NewServer(apiKey string) *Server {
	s := &Server{
		engines:     make(map[string]map[string]map[string]any),
		indexErrors: make(map[string][]string),
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.record)
	r.Use(bearerAuth(apiKey))
	r.Route("/api/v1/engines", func(r chi.Router) {
		r.Get("/", s.listEngines)
		r.Post("/", s.createEngine)
		r.Route("/{engine}", func(r chi.Router) {
			r.Get("/", s.getEngine)
			r.Delete("/", s.destroyEngine)
			r.Post("/documents", s.indexDocuments)
			r.Get("/documents", s.getDocuments)
			r.Delete("/documents", s.destroyDocuments)
			r.Get("/search", s.search)
		})
	})

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL returns the API root to pass to appsearch.WithBaseURL.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v1"
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// SetIndexErrors makes indexing the document with the given id report errs
// instead of storing it.
func (s *Server) SetIndexErrors(id string, errs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexErrors[id] = errs
}

// AddEngine creates an engine directly, bypassing the API.
func (s *Server) AddEngine(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.engines[name]; !ok {
		s.engines[name] = make(map[string]map[string]any)
	}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.EscapedPath(),
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) listEngines(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)

	out := make([]map[string]any, len(names))
	for i, name := range names {
		out[i] = engineJSON(name)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createEngine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeErrors(w, http.StatusBadRequest, "Name is required.")
		return
	}

	s.mu.Lock()
	_, exists := s.engines[req.Name]
	if !exists {
		s.engines[req.Name] = make(map[string]map[string]any)
	}
	s.mu.Unlock()

	if exists {
		writeErrors(w, http.StatusBadRequest, "Name is already taken.")
		return
	}
	writeJSON(w, http.StatusOK, engineJSON(req.Name))
}

func (s *Server) getEngine(w http.ResponseWriter, r *http.Request) {
	name := engineParam(r)
	if _, ok := s.lookup(name); !ok {
		writeErrors(w, http.StatusNotFound, "Could not find engine.")
		return
	}
	writeJSON(w, http.StatusOK, engineJSON(name))
}

func (s *Server) destroyEngine(w http.ResponseWriter, r *http.Request) {
	name := engineParam(r)

	s.mu.Lock()
	_, ok := s.engines[name]
	delete(s.engines, name)
	s.mu.Unlock()

	if !ok {
		writeErrors(w, http.StatusNotFound, "Could not find engine.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) indexDocuments(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.lookup(engineParam(r))
	if !ok {
		writeErrors(w, http.StatusNotFound, "Could not find engine.")
		return
	}

	var batch []map[string]any
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]map[string]any, len(batch))
	for i, doc := range batch {
		id := documentID(doc["id"])
		errs := []string{}
		switch {
		case id == "":
			errs = append(errs, "Missing required key 'id'")
		case len(s.indexErrors[id]) > 0:
			errs = append(errs, s.indexErrors[id]...)
		default:
			stored := make(map[string]any, len(doc))
			for k, v := range doc {
				stored[k] = v
			}
			stored["id"] = id
			docs[id] = stored
		}
		results[i] = map[string]any{"id": id, "errors": errs}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) getDocuments(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.lookup(engineParam(r))
	if !ok {
		writeErrors(w, http.StatusNotFound, "Could not find engine.")
		return
	}

	ids := r.URL.Query()["ids"]

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, len(ids))
	for i, id := range ids {
		out[i] = docs[id] // nil for unknown ids
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) destroyDocuments(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.lookup(engineParam(r))
	if !ok {
		writeErrors(w, http.StatusNotFound, "Could not find engine.")
		return
	}

	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, len(ids))
	for i, id := range ids {
		_, found := docs[id]
		delete(docs, id)
		out[i] = map[string]any{"id": id, "result": found}
	}
	writeJSON(w, http.StatusOK, out)
}

// search matches documents whose string fields contain q, case-insensitively.
// An empty q matches everything.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.lookup(engineParam(r))
	if !ok {
		writeErrors(w, http.StatusNotFound, "Could not find engine.")
		return
	}
	q := strings.ToLower(r.URL.Query().Get("q"))

	s.mu.Lock()
	ids := make([]string, 0, len(docs))
	for id, doc := range docs {
		if matches(doc, q) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	results := make([]map[string]any, len(ids))
	for i, id := range ids {
		results[i] = docs[id]
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"meta": map[string]any{
			"query": r.URL.Query().Get("q"),
			"page":  map[string]any{"total_results": len(results)},
		},
		"results": results,
	})
}

func (s *Server) lookup(engine string) (map[string]map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.engines[engine]
	return docs, ok
}

func matches(doc map[string]any, q string) bool {
	if q == "" {
		return true
	}
	for _, v := range doc {
		if str, ok := v.(string); ok && strings.Contains(strings.ToLower(str), q) {
			return true
		}
	}
	return false
}

func documentID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func engineJSON(name string) map[string]any {
	return map[string]any{"name": name, "type": "default", "language": nil}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrors(w http.ResponseWriter, status int, messages ...string) {
	writeJSON(w, status, map[string][]string{"errors": messages})
}

// engineParam returns the decoded engine name. chi matches on the escaped
// path, so names like "a/b" arrive as "a%2Fb".
func engineParam(r *http.Request) string {
	raw := chi.URLParam(r, "engine")
	name, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return name
}
