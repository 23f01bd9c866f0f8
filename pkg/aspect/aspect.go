package aspect

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quillsearch/quill/pkg/index"
	"github.com/quillsearch/quill/pkg/record"
)

var aspectTracer = otel.Tracer("quill/aspect")

// Backends holds the collaborators an aspect may execute against. Which one
// is required depends on the record type's capabilities: a database handle
// for pattern-match types, an index client for externally indexed types.
type Backends struct {
	DB     *sql.DB
	Index  index.Client
	Logger logrus.FieldLogger
}

// Aspect is one configured search target: a record type plus its searchable
// attributes, an optional result limit and a queue of deferred backend
// refinements. It is built once at wiring time and reused across sequential
// searches; concurrent configuration is not supported.
type Aspect struct {
	recordType record.Type
	label      string
	attributes []Attribute
	limit      int
	deferred   []DeferredCall
	strategy   strategy
	logger     logrus.FieldLogger
}

// New builds an aspect for recordType with partial-match attributes for the
// given names. The execution strategy is fixed here from the record type's
// capabilities and never changes afterwards.
func New(recordType any, backends Backends, names ...string) (*Aspect, error) {
	a, err := newAspect(recordType, backends)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		a.AddSearchableAttribute(name)
	}
	return a, nil
}

// NewConfigured builds an aspect and hands it to configure once before first
// use, for callers that need exact attributes or a limit up front.
func NewConfigured(recordType any, backends Backends, configure func(*Aspect)) (*Aspect, error) {
	a, err := newAspect(recordType, backends)
	if err != nil {
		return nil, err
	}
	if configure != nil {
		configure(a)
	}
	return a, nil
}

func newAspect(recordType any, backends Backends) (*Aspect, error) {
	rt, ok := recordType.(record.Type)
	if !ok || rt == nil {
		return nil, fmt.Errorf("%w: %T does not identify a record table", ErrInvalidRecordType, recordType)
	}
	if rt.TableName() == "" {
		return nil, fmt.Errorf("%w: %T has no table name", ErrInvalidRecordType, recordType)
	}

	logger := backends.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	a := &Aspect{
		recordType: rt,
		label:      record.Label(rt),
		logger:     logger,
	}

	if record.UsesExternalIndex(rt) {
		if backends.Index == nil {
			return nil, fmt.Errorf("%w: %T delegates to an external index but no index client is configured", ErrMissingBackend, recordType)
		}
		a.strategy = &delegatedStrategy{client: backends.Index}
		return a, nil
	}

	if backends.DB == nil {
		return nil, fmt.Errorf("%w: %T needs a database handle for pattern matching", ErrMissingBackend, recordType)
	}
	a.strategy = &patternStrategy{db: backends.DB, table: rt.TableName()}
	return a, nil
}

// RecordType returns the record type this aspect searches.
func (a *Aspect) RecordType() record.Type { return a.recordType }

// CategoryLabel returns the aspect's resolved category label.
func (a *Aspect) CategoryLabel() string { return a.label }

// Attributes returns the configured attributes in order.
func (a *Aspect) Attributes() []Attribute {
	out := make([]Attribute, len(a.attributes))
	copy(out, a.attributes)
	return out
}

// AddSearchableAttribute appends a partial-match attribute.
func (a *Aspect) AddSearchableAttribute(name string) *Aspect {
	a.attributes = append(a.attributes, NewAttribute(name))
	return a
}

// AddExactSearchableAttribute appends an exact-match attribute.
func (a *Aspect) AddExactSearchableAttribute(name string) *Aspect {
	a.attributes = append(a.attributes, NewExactAttribute(name))
	return a
}

// SetLimit caps the result count. Non-positive values leave the aspect
// unbounded.
func (a *Aspect) SetLimit(n int) *Aspect {
	if n > 0 {
		a.limit = n
	}
	return a
}

// Limit returns the configured result cap, zero when unbounded.
func (a *Aspect) Limit() int { return a.limit }

// Refine queues a named backend refinement (an ordering, an extra filter)
// to replay against the live query or result cursor at execution time. The
// aspect does not validate the operation here; an operation the active
// backend does not support surfaces as an UnsupportedOperationError from
// GetResults.
func (a *Aspect) Refine(method string, args ...any) *Aspect {
	a.deferred = append(a.deferred, DeferredCall{Method: method, Args: args})
	return a
}

// DeferredCalls returns the queued refinements in insertion order.
func (a *Aspect) DeferredCalls() []DeferredCall {
	out := make([]DeferredCall, len(a.deferred))
	copy(out, a.deferred)
	return out
}

// GetResults runs one search for term and returns the matched records,
// capped at the configured limit, with all queued refinements applied. It
// keeps no state between calls and may be called repeatedly with different
// terms.
func (a *Aspect) GetResults(ctx context.Context, term string) ([]record.Row, error) {
	ctx, span := aspectTracer.Start(ctx, "GetResults",
		trace.WithAttributes(
			attribute.String("search.term", term),
			attribute.String("search.category", a.label),
			attribute.String("search.strategy", a.strategy.name()),
		),
	)
	defer span.End()

	if len(a.attributes) == 0 {
		span.SetStatus(codes.Error, "no searchable attributes")
		return nil, fmt.Errorf("%w: aspect for %q", ErrNoSearchableAttributes, a.label)
	}

	results, err := a.strategy.execute(ctx, term, a.attributes, a.deferred, a.limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		a.logger.WithFields(logrus.Fields{
			"category": a.label,
			"strategy": a.strategy.name(),
		}).WithError(err).Error("search failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.result_count", len(results)))
	span.SetStatus(codes.Ok, "search completed")
	a.logger.WithFields(logrus.Fields{
		"category": a.label,
		"strategy": a.strategy.name(),
		"results":  len(results),
	}).Debug("search completed")

	return results, nil
}
