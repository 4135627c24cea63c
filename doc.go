// Package appsearch provides a Go client for the hosted App Search service.
//
// A Client is created from an account host key and an API key; it manages
// engines (search indexes), indexes, fetches and deletes documents, and runs
// search queries. Every operation is a single synchronous HTTP round trip.
//
//	client, _ := appsearch.New("host-2376rb", "api-key")
//	_, _ = client.CreateEngine(ctx, "books")
//	results, err := client.IndexDocuments(ctx, "books", []appsearch.Document{
//	    {"id": "1", "title": "Dune"},
//	})
//	res, _ := client.Search(ctx, "books", "dune", appsearch.SearchOptions{
//	    "page": map[string]any{"size": 10},
//	})
//
// Documents without a non-empty "id" are rejected locally with an
// *InvalidDocumentError before any request is sent. Bulk index results are
// returned as-is, per-document errors included; IndexDocument turns a
// per-document error into an *InvalidDocumentError.
package appsearch
