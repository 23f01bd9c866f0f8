package query

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// Dialect captures the backend-specific quirks the builder and escaper need:
// placeholder style and the sequence that produces one literal backslash
// inside a LIKE pattern.
type Dialect interface {
	// Name identifies the dialect ("postgres", "sqlite").
	Name() string
	// Placeholder renders the n-th (1-based) bind placeholder.
	Placeholder(n int) string
	// BackslashEscapeSequence is the replacement for a single literal
	// backslash in a LIKE pattern. SQLite gets away with two backslashes;
	// the other backends need three.
	BackslashEscapeSequence() string
}

type postgresDialect struct{}

func (postgresDialect) Name() string                    { return "postgres" }
func (postgresDialect) Placeholder(n int) string        { return fmt.Sprintf("$%d", n) }
func (postgresDialect) BackslashEscapeSequence() string { return `\\\` }

type sqliteDialect struct{}

func (sqliteDialect) Name() string                    { return "sqlite" }
func (sqliteDialect) Placeholder(n int) string        { return "?" }
func (sqliteDialect) BackslashEscapeSequence() string { return `\\` }

// Postgres returns the PostgreSQL dialect.
func Postgres() Dialect { return postgresDialect{} }

// SQLite returns the SQLite dialect.
func SQLite() Dialect { return sqliteDialect{} }

// DetectDialect resolves the dialect by inspecting the connection's driver
// identity. Unknown drivers fall back to the PostgreSQL conventions.
func DetectDialect(db *sql.DB) Dialect {
	switch db.Driver().(type) {
	case *sqlite3.SQLiteDriver:
		return sqliteDialect{}
	case *pq.Driver:
		return postgresDialect{}
	default:
		return postgresDialect{}
	}
}
