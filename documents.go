package appsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/swiftype/app-search-go/internal/transport/rest"
)

// IndexDocument indexes a single document. Unlike IndexDocuments, a
// server-reported error for the document is returned as an
// *InvalidDocumentError carrying the first error message.
//
// The first element of the bulk response is taken to be the result for doc.
func (c *Client) IndexDocument(ctx context.Context, engine string, doc Document) (_ DocumentResult, err error) {
	ctx, done := c.obs.start(ctx, "document.index", attribute.String("engine", engine))
	defer func() { done(err) }()

	results, err := c.indexDocuments(ctx, engine, []Document{doc})
	if err != nil {
		return DocumentResult{}, err
	}
	if len(results) == 0 {
		return DocumentResult{}, errors.New("index document: empty response")
	}

	res := results[0]
	if len(res.Errors) > 0 {
		return res, &InvalidDocumentError{Message: res.Errors[0], Document: doc}
	}
	return res, nil
}

// IndexDocuments validates every document, then indexes them in one request.
//
// If any document lacks a required field, an *InvalidDocumentError for the
// first such document is returned and nothing is sent. Per-document errors
// reported by the server are not errors: they are returned in the results
// for the caller to inspect.
func (c *Client) IndexDocuments(ctx context.Context, engine string, docs []Document) (_ []DocumentResult, err error) {
	ctx, done := c.obs.start(ctx, "documents.index",
		attribute.String("engine", engine),
		attribute.Int("documents", len(docs)),
	)
	defer func() { done(err) }()

	return c.indexDocuments(ctx, engine, docs)
}

// indexDocuments is the shared body of IndexDocument and IndexDocuments;
// each caller records its own operation.
func (c *Client) indexDocuments(ctx context.Context, engine string, docs []Document) ([]DocumentResult, error) {
	if err := validateDocuments(docs); err != nil {
		return nil, err
	}

	req := rest.Request{
		Method: http.MethodPost,
		Path:   enginePath(engine, "documents"),
		Body:   docs,
	}
	var results []DocumentResult
	if err := c.rest.Do(ctx, req, &results); err != nil {
		return nil, fmt.Errorf("index documents: %w", err)
	}
	return results, nil
}

// GetDocuments fetches documents by id. Unknown ids come back as nil
// entries, in request order.
func (c *Client) GetDocuments(ctx context.Context, engine string, ids []string) (_ []Document, err error) {
	ctx, done := c.obs.start(ctx, "documents.get",
		attribute.String("engine", engine),
		attribute.Int("documents", len(ids)),
	)
	defer func() { done(err) }()

	req := rest.Request{
		Method: http.MethodGet,
		Path:   enginePath(engine, "documents"),
		Query:  map[string]any{"ids": ids},
	}
	var docs []Document
	if err = c.rest.Do(ctx, req, &docs); err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}
	return docs, nil
}

// DestroyDocuments deletes documents by id and returns one result per id.
func (c *Client) DestroyDocuments(ctx context.Context, engine string, ids []string) (_ []DestroyResult, err error) {
	ctx, done := c.obs.start(ctx, "documents.destroy",
		attribute.String("engine", engine),
		attribute.Int("documents", len(ids)),
	)
	defer func() { done(err) }()

	req := rest.Request{
		Method: http.MethodDelete,
		Path:   enginePath(engine, "documents"),
		Body:   ids,
	}
	var results []DestroyResult
	if err = c.rest.Do(ctx, req, &results); err != nil {
		return nil, fmt.Errorf("destroy documents: %w", err)
	}
	return results, nil
}
