// Package aspect implements configurable search aspects: one per record
// type, each turning a free-text term into a backend search and normalizing
// the results.
//
// # Overview
//
// An Aspect owns a record type, an ordered list of searchable attributes, an
// optional result limit and a queue of deferred backend refinements. The
// execution strategy is fixed at construction: record types declaring the
// external-index capability delegate to an index client, everything else is
// searched with an OR'd pattern-matching SQL query.
//
// # Usage Example
//
//	a, err := aspect.New(Book{}, aspect.Backends{DB: db}, "title", "author")
//	if err != nil {
//		return err
//	}
//	a.AddExactSearchableAttribute("isbn").
//		SetLimit(50).
//		Refine("OrderBy", "title", "ASC")
//
//	rows, err := a.GetResults(ctx, "dune herbert")
//
// Deferred refinements queued with Refine replay in insertion order against
// the live query builder (in place) or the index result cursor
// (reassigning), right after the search predicates are built.
//
// # Related Packages
//
//   - pkg/query: the SQL builder and LIKE escaping used by the pattern strategy
//   - pkg/index: the external index client used by the delegated strategy
//   - pkg/registry: fans one term out across many registered aspects
package aspect
