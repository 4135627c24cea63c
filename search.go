package appsearch

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/swiftype/app-search-go/internal/transport/rest"
)

// Search runs a query against an engine. Options are merged into the
// request as query parameters next to q; the query argument wins over an
// option named "q". The decoded response is returned unmodified.
func (c *Client) Search(
	ctx context.Context, engine, query string, options SearchOptions,
) (_ map[string]any, err error) {
	ctx, done := c.obs.start(ctx, "search", attribute.String("engine", engine))
	defer func() { done(err) }()

	params := make(map[string]any, len(options)+1)
	for k, v := range options {
		params[k] = v
	}
	params["q"] = query

	req := rest.Request{
		Method: http.MethodGet,
		Path:   enginePath(engine, "search"),
		Query:  params,
	}
	var res map[string]any
	if err = c.rest.Do(ctx, req, &res); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return res, nil
}
