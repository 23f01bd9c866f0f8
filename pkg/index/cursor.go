package index

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/quillsearch/quill/pkg/record"
)

// ErrUnknownOperation is returned by Cursor.Apply for operations the cursor
// does not support.
var ErrUnknownOperation = errors.New("unknown cursor operation")

// Cursor holds a materialized index result set. Refinements return a new
// cursor rather than mutating in place, so replayed calls must reassign.
type Cursor struct {
	rows []record.Row
}

// NewCursor wraps a result set in a cursor.
func NewCursor(rows []record.Row) *Cursor {
	return &Cursor{rows: rows}
}

// Len reports how many records the cursor holds.
func (c *Cursor) Len() int { return len(c.rows) }

// Records materializes the cursor into its ordered records.
func (c *Cursor) Records() []record.Row {
	out := make([]record.Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Take returns a cursor truncated to the first n records. Non-positive n
// returns the cursor unchanged.
func (c *Cursor) Take(n int) *Cursor {
	if n <= 0 || n >= len(c.rows) {
		return c
	}
	return &Cursor{rows: c.rows[:n]}
}

// Offset returns a cursor with the first n records dropped.
func (c *Cursor) Offset(n int) *Cursor {
	if n <= 0 {
		return c
	}
	if n >= len(c.rows) {
		return &Cursor{}
	}
	return &Cursor{rows: c.rows[n:]}
}

// SortBy returns a cursor ordered by the given field. Direction is "ASC" or
// "DESC"; anything else sorts ascending. Numeric field values compare
// numerically, everything else lexically. The sort is stable.
func (c *Cursor) SortBy(field, direction string) *Cursor {
	rows := make([]record.Row, len(c.rows))
	copy(rows, c.rows)

	desc := strings.EqualFold(direction, "DESC")
	sort.SliceStable(rows, func(i, j int) bool {
		less := compareValues(rows[i][field], rows[j][field]) < 0
		if desc {
			return !less && compareValues(rows[i][field], rows[j][field]) != 0
		}
		return less
	})
	return &Cursor{rows: rows}
}

// Filter returns a cursor keeping only records whose field equals value,
// compared as strings.
func (c *Cursor) Filter(field string, value any) *Cursor {
	want := fmt.Sprint(value)
	var rows []record.Row
	for _, row := range c.rows {
		if got, ok := row[field]; ok && fmt.Sprint(got) == want {
			rows = append(rows, row)
		}
	}
	return &Cursor{rows: rows}
}

// Apply forwards a named operation with loosely typed arguments onto the
// cursor and returns the refined cursor. Unsupported operations or malformed
// arguments return ErrUnknownOperation wrapped with detail.
func (c *Cursor) Apply(method string, args ...any) (*Cursor, error) {
	switch strings.ToLower(method) {
	case "sortby", "orderby", "setorderings":
		field, ok := stringArg(args, 0)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a field name", ErrUnknownOperation, method)
		}
		direction, _ := stringArg(args, 1)
		return c.SortBy(field, direction), nil
	case "filter", "where", "equals":
		field, ok := stringArg(args, 0)
		if !ok || len(args) < 2 {
			return nil, fmt.Errorf("%w: %s needs a field and a value", ErrUnknownOperation, method)
		}
		return c.Filter(field, args[1]), nil
	case "take", "setlimit", "limit":
		n, ok := intArg(args, 0)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs an integer", ErrUnknownOperation, method)
		}
		return c.Take(n), nil
	case "setoffset", "offset":
		n, ok := intArg(args, 0)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs an integer", ErrUnknownOperation, method)
		}
		return c.Offset(n), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, method)
	}
}

func compareValues(a, b any) int {
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(as, bs)
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
