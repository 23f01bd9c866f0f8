package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quillsearch/quill/pkg/record"
)

// ErrUnknownOperation is returned by Apply for operations the builder does
// not support.
var ErrUnknownOperation = errors.New("unknown builder operation")

type predicateOp int

const (
	opEquals predicateOp = iota
	opLike
	opLikeFold
)

// Predicate is one comparison against a column. Predicates are rendered at
// execution time so placeholder numbering stays consistent.
type Predicate struct {
	column string
	op     predicateOp
	value  any
}

// Equals matches column = value, case-sensitive.
func Equals(column string, value any) Predicate {
	return Predicate{column: column, op: opEquals, value: value}
}

// Like matches column LIKE pattern with EscapeChar as the escape character.
func Like(column, pattern string) Predicate {
	return Predicate{column: column, op: opLike, value: pattern}
}

// LikeFold matches LOWER(column) LIKE pattern, for case-insensitive
// substring searches. The caller lowercases the pattern.
func LikeFold(column, pattern string) Predicate {
	return Predicate{column: column, op: opLikeFold, value: pattern}
}

// Builder composes and executes one SELECT against a record type's table.
// It is scoped to a single execution; a fresh builder is opened per search.
type Builder struct {
	db      *sql.DB
	dialect Dialect
	table   string

	orGroup []Predicate
	filters []Predicate
	groupBy []string
	orderBy []string
	limit   int
	offset  int
}

// NewBuilder opens a builder for table, resolving the dialect from the
// connection's driver.
func NewBuilder(db *sql.DB, table string) *Builder {
	return NewBuilderWithDialect(db, table, DetectDialect(db))
}

// NewBuilderWithDialect opens a builder with an explicit dialect, for
// callers (and tests) that already know the backend.
func NewBuilderWithDialect(db *sql.DB, table string, d Dialect) *Builder {
	return &Builder{db: db, dialect: d, table: table}
}

// Dialect returns the dialect the builder renders for.
func (b *Builder) Dialect() Dialect { return b.dialect }

// WhereAnyOf adds predicates to the builder's single OR group. A row
// matches the group when any predicate in it matches.
func (b *Builder) WhereAnyOf(preds ...Predicate) *Builder {
	b.orGroup = append(b.orGroup, preds...)
	return b
}

// Where adds an AND'd equality filter outside the OR group.
func (b *Builder) Where(column string, value any) *Builder {
	b.filters = append(b.filters, Equals(column, value))
	return b
}

// OrderBy appends an ordering clause. Direction is "ASC" or "DESC";
// anything else defaults to ASC.
func (b *Builder) OrderBy(column, direction string) *Builder {
	dir := strings.ToUpper(direction)
	if dir != "ASC" && dir != "DESC" {
		dir = "ASC"
	}
	b.orderBy = append(b.orderBy, column+" "+dir)
	return b
}

// GroupBy appends a grouping column.
func (b *Builder) GroupBy(column string) *Builder {
	b.groupBy = append(b.groupBy, column)
	return b
}

// SetLimit caps the result count. Zero means unbounded.
func (b *Builder) SetLimit(n int) *Builder {
	b.limit = n
	return b
}

// SetOffset skips the first n rows.
func (b *Builder) SetOffset(n int) *Builder {
	b.offset = n
	return b
}

// Apply forwards a named operation with loosely typed arguments onto the
// builder, for replaying calls recorded before the backend was known.
// Unsupported operations or malformed arguments return ErrUnknownOperation
// wrapped with detail.
func (b *Builder) Apply(method string, args ...any) error {
	switch strings.ToLower(method) {
	case "orderby", "setorderings":
		column, ok := stringArg(args, 0)
		if !ok {
			return fmt.Errorf("%w: %s needs a column name", ErrUnknownOperation, method)
		}
		direction, _ := stringArg(args, 1)
		b.OrderBy(column, direction)
	case "groupby":
		column, ok := stringArg(args, 0)
		if !ok {
			return fmt.Errorf("%w: %s needs a column name", ErrUnknownOperation, method)
		}
		b.GroupBy(column)
	case "where", "equals":
		column, ok := stringArg(args, 0)
		if !ok || len(args) < 2 {
			return fmt.Errorf("%w: %s needs a column and a value", ErrUnknownOperation, method)
		}
		b.Where(column, args[1])
	case "setlimit", "limit":
		n, ok := intArg(args, 0)
		if !ok {
			return fmt.Errorf("%w: %s needs an integer", ErrUnknownOperation, method)
		}
		b.SetLimit(n)
	case "setoffset", "offset":
		n, ok := intArg(args, 0)
		if !ok {
			return fmt.Errorf("%w: %s needs an integer", ErrUnknownOperation, method)
		}
		b.SetOffset(n)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, method)
	}
	return nil
}

// SQL renders the statement and its ordered arguments.
func (b *Builder) SQL() (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(b.orGroup)+len(b.filters)+2)
	next := func(v any) string {
		args = append(args, v)
		return b.dialect.Placeholder(len(args))
	}

	fmt.Fprintf(&sb, "SELECT * FROM %s WHERE 1=1", b.table)

	if len(b.orGroup) > 0 {
		parts := make([]string, len(b.orGroup))
		for i, p := range b.orGroup {
			parts[i] = b.renderPredicate(p, next)
		}
		sb.WriteString(" AND (" + strings.Join(parts, " OR ") + ")")
	}

	for _, p := range b.filters {
		sb.WriteString(" AND " + b.renderPredicate(p, next))
	}

	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT " + next(b.limit))
	}
	if b.offset > 0 {
		sb.WriteString(" OFFSET " + next(b.offset))
	}

	return sb.String(), args
}

func (b *Builder) renderPredicate(p Predicate, next func(any) string) string {
	switch p.op {
	case opLike:
		return fmt.Sprintf("%s LIKE %s ESCAPE '%s'", p.column, next(p.value), EscapeChar)
	case opLikeFold:
		return fmt.Sprintf("LOWER(%s) LIKE %s ESCAPE '%s'", p.column, next(p.value), EscapeChar)
	default:
		return fmt.Sprintf("%s = %s", p.column, next(p.value))
	}
}

// Execute runs the statement once and scans every row generically into a
// record.Row keyed by column name.
func (b *Builder) Execute(ctx context.Context) ([]record.Row, error) {
	stmt, args := b.SQL()

	rows, err := b.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var results []record.Row
	for rows.Next() {
		values := make([]any, len(columns))
		dests := make([]any, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		row := make(record.Row, len(columns))
		for i, col := range columns {
			if raw, ok := values[i].([]byte); ok {
				row[col] = string(raw)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}

func stringArg(args []any, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

func intArg(args []any, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	switch n := args[i].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
