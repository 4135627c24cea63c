package appsearch

// Document is one indexable record. It must carry a non-empty "id" field
// before it can be indexed.
type Document map[string]any

// Engine is an engine object as returned by the API.
type Engine map[string]any

// SearchOptions are passed through to the search endpoint as query
// parameters. Nested values are sent as bracketed keys (page[size]=10,
// sort[0][title]=asc).
type SearchOptions map[string]any

// DocumentResult is the per-document outcome of a bulk index call. ID holds
// whatever JSON value the server echoed back (normally a string); fields
// other than id and errors are not kept.
type DocumentResult struct {
	ID     any      `json:"id"`
	Errors []string `json:"errors"`
}

// DestroyResult is the per-document outcome of a bulk destroy call.
type DestroyResult struct {
	ID     any    `json:"id"`
	Result bool   `json:"result"`
}
