package aspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/quillsearch/quill/pkg/index"
	"github.com/quillsearch/quill/pkg/query"
	"github.com/quillsearch/quill/pkg/record"
)

// strategy is the polymorphic execution contract the aspect dispatches to.
// The variant is chosen once at construction from the record type's
// capabilities.
type strategy interface {
	name() string
	execute(ctx context.Context, term string, attrs []Attribute, calls []DeferredCall, limit int) ([]record.Row, error)
}

// patternStrategy builds one OR'd predicate query against the record
// type's table and executes it in a single round trip.
type patternStrategy struct {
	db    *sql.DB
	table string
}

func (s *patternStrategy) name() string { return "pattern" }

func (s *patternStrategy) execute(ctx context.Context, term string, attrs []Attribute, calls []DeferredCall, limit int) ([]record.Row, error) {
	builder := query.NewBuilder(s.db, s.table)
	escaper := query.NewEscaper(builder.Dialect())

	// Empty sub-terms from repeated whitespace contribute no predicates.
	subTerms := strings.Fields(term)

	for _, attr := range attrs {
		for _, sub := range subTerms {
			if attr.Partial {
				pattern := escaper.Contains(strings.ToLower(sub))
				builder.WhereAnyOf(query.LikeFold(attr.Name, pattern))
				continue
			}
			// Exact attributes compare the raw sub-term, case-sensitive.
			builder.WhereAnyOf(query.Equals(attr.Name, sub))
		}
	}

	for _, call := range calls {
		if err := builder.Apply(call.Method, call.Args...); err != nil {
			return nil, &UnsupportedOperationError{Method: call.Method, Target: "query builder", cause: err}
		}
	}

	if limit > 0 {
		builder.SetLimit(limit)
	}

	return builder.Execute(ctx)
}

// delegatedStrategy hands the raw term to the external index, scoped to the
// aspect's attribute names, and refines the returned cursor.
type delegatedStrategy struct {
	client index.Client
}

func (s *delegatedStrategy) name() string { return "delegated" }

func (s *delegatedStrategy) execute(ctx context.Context, term string, attrs []Attribute, calls []DeferredCall, limit int) ([]record.Row, error) {
	// The index manages its own matching semantics; the partial/exact
	// distinction does not carry over.
	names := make([]string, len(attrs))
	for i, attr := range attrs {
		names[i] = attr.Name
	}

	cursor, err := s.client.Search(ctx, term, func(ctx context.Context, engine index.Engine, term string, opts index.Options) (*index.Cursor, error) {
		engine.ResetSearchableAttributes()
		engine.SetSearchableAttributes(names)
		return engine.PerformSearch(ctx, term, opts)
	})
	if err != nil {
		return nil, err
	}

	// Cursor refinements return new cursors; replay reassigns.
	for _, call := range calls {
		next, err := cursor.Apply(call.Method, call.Args...)
		if err != nil {
			return nil, &UnsupportedOperationError{Method: call.Method, Target: "index cursor", cause: err}
		}
		cursor = next
	}

	if limit > 0 {
		cursor = cursor.Take(limit)
	}

	return cursor.Records(), nil
}
