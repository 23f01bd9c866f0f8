// Package query composes and executes single-table SELECT statements for the
// pattern-match search strategy.
//
// The Builder is scoped to one record type's table and one execution. It
// supports an OR'd predicate group for search terms, AND'd refinement
// filters, ordering, grouping, limit and offset, plus named-operation
// forwarding via Apply for calls recorded before the backend was known.
//
// Dialect is the injectable backend policy: placeholder style and the LIKE
// backslash escape sequence both differ between PostgreSQL and SQLite. The
// dialect is resolved from the connection's driver identity, so the same
// builder code renders backend-native SQL for either driver.
package query
