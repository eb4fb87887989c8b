// Package retrieval turns a text query into ranked catalog context. The
// retriever embeds the query, searches the current index snapshot, and
// applies a minimum-similarity floor so unrelated queries come back empty
// instead of dragging in weak matches.
package retrieval
