// Package index provides the external search-index client the delegated
// execution strategy defers to.
//
// The Client contract takes a raw search term and a configure callback; the
// callback receives the underlying Engine handle, scopes its searchable
// attributes, performs the search and returns a Cursor. RedisClient is the
// concrete implementation over RediSearch (FT.SEARCH).
//
// Cursor refinements (SortBy, Filter, Take, Offset) return new cursors
// rather than mutating, so callers replaying recorded operations must
// reassign the cursor after each call.
package index
