package appsearch

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/swiftype/app-search-go/internal/transport/rest"
)

// ListEngines returns every engine visible to the API key.
func (c *Client) ListEngines(ctx context.Context) (_ []Engine, err error) {
	ctx, done := c.obs.start(ctx, "engines.list")
	defer func() { done(err) }()

	var engines []Engine
	if err = c.rest.Do(ctx, rest.Request{Method: http.MethodGet, Path: "engines"}, &engines); err != nil {
		return nil, fmt.Errorf("list engines: %w", err)
	}
	return engines, nil
}

// GetEngine returns one engine. A missing engine yields an error matching
// ErrNotFound.
func (c *Client) GetEngine(ctx context.Context, name string) (_ Engine, err error) {
	ctx, done := c.obs.start(ctx, "engines.get", attribute.String("engine", name))
	defer func() { done(err) }()

	var engine Engine
	if err = c.rest.Do(ctx, rest.Request{Method: http.MethodGet, Path: enginePath(name)}, &engine); err != nil {
		return nil, fmt.Errorf("get engine: %w", err)
	}
	return engine, nil
}

// CreateEngine creates an engine and returns it.
func (c *Client) CreateEngine(ctx context.Context, name string) (_ Engine, err error) {
	ctx, done := c.obs.start(ctx, "engines.create", attribute.String("engine", name))
	defer func() { done(err) }()

	req := rest.Request{
		Method: http.MethodPost,
		Path:   "engines",
		Body:   map[string]string{"name": name},
	}
	var engine Engine
	if err = c.rest.Do(ctx, req, &engine); err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return engine, nil
}

// DestroyEngine deletes an engine and returns the server's deletion result,
// e.g. {"deleted": true}.
func (c *Client) DestroyEngine(ctx context.Context, name string) (_ map[string]any, err error) {
	ctx, done := c.obs.start(ctx, "engines.destroy", attribute.String("engine", name))
	defer func() { done(err) }()

	var res map[string]any
	if err = c.rest.Do(ctx, rest.Request{Method: http.MethodDelete, Path: enginePath(name)}, &res); err != nil {
		return nil, fmt.Errorf("destroy engine: %w", err)
	}
	return res, nil
}
