package query

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDialect(t *testing.T) {
	pg, err := sql.Open("postgres", "postgres://localhost/ignored")
	require.NoError(t, err)
	defer pg.Close()
	assert.Equal(t, "postgres", DetectDialect(pg).Name())

	lite, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer lite.Close()
	assert.Equal(t, "sqlite", DetectDialect(lite).Name())

	// Unknown drivers fall back to the postgres conventions.
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	assert.Equal(t, "postgres", DetectDialect(mockDB).Name())
}

func TestDialectBackslashEscapeSequence(t *testing.T) {
	assert.Equal(t, `\\`, SQLite().BackslashEscapeSequence())
	assert.Equal(t, `\\\`, Postgres().BackslashEscapeSequence())
}

func TestBuilderSQLPostgres(t *testing.T) {
	b := NewBuilderWithDialect(nil, "books", Postgres())
	b.WhereAnyOf(
		LikeFold("title", "%foo%"),
		Equals("isbn", "ABC"),
	)
	b.SetLimit(10)

	stmt, args := b.SQL()
	assert.Equal(t,
		`SELECT * FROM books WHERE 1=1 AND (LOWER(title) LIKE $1 ESCAPE '\' OR isbn = $2) LIMIT $3`,
		stmt)
	assert.Equal(t, []any{"%foo%", "ABC", 10}, args)
}

func TestBuilderSQLSQLitePlaceholders(t *testing.T) {
	b := NewBuilderWithDialect(nil, "books", SQLite())
	b.WhereAnyOf(Like("title", "%foo%"))
	b.SetLimit(5)
	b.SetOffset(20)

	stmt, args := b.SQL()
	assert.Equal(t,
		`SELECT * FROM books WHERE 1=1 AND (title LIKE ? ESCAPE '\') LIMIT ? OFFSET ?`,
		stmt)
	assert.Equal(t, []any{"%foo%", 5, 20}, args)
}

func TestBuilderSQLNoPredicates(t *testing.T) {
	b := NewBuilderWithDialect(nil, "books", Postgres())
	stmt, args := b.SQL()
	assert.Equal(t, "SELECT * FROM books WHERE 1=1", stmt)
	assert.Empty(t, args)
}

func TestBuilderApplyOrderPreserved(t *testing.T) {
	b := NewBuilderWithDialect(nil, "books", Postgres())
	require.NoError(t, b.Apply("OrderBy", "title", "ASC"))
	require.NoError(t, b.Apply("OrderBy", "year", "DESC"))
	require.NoError(t, b.Apply("Where", "published", true))

	stmt, args := b.SQL()
	assert.Equal(t,
		`SELECT * FROM books WHERE 1=1 AND published = $1 ORDER BY title ASC, year DESC`,
		stmt)
	assert.Equal(t, []any{true}, args)
}

func TestBuilderApplyUnknownOperation(t *testing.T) {
	b := NewBuilderWithDialect(nil, "books", Postgres())

	err := b.Apply("Frobnicate", 1)
	assert.ErrorIs(t, err, ErrUnknownOperation)

	// Malformed arguments are rejected the same way.
	err = b.Apply("OrderBy")
	assert.ErrorIs(t, err, ErrUnknownOperation)
	err = b.Apply("SetLimit", "not-a-number")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestBuilderExecute(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title"}).
		AddRow(int64(1), "Great Foobaz").
		AddRow(int64(2), "Foo at the Bar")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM books WHERE 1=1 AND (LOWER(title) LIKE $1 ESCAPE '\') LIMIT $2`)).
		WithArgs("%foo%", 2).
		WillReturnRows(rows)

	b := NewBuilder(db, "books")
	b.WhereAnyOf(LikeFold("title", "%foo%")).SetLimit(2)

	results, err := b.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(1), results[0]["id"])
	assert.Equal(t, "Great Foobaz", results[0]["title"])
	assert.Equal(t, "Foo at the Bar", results[1]["title"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuilderExecuteByteColumnsBecomeStrings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"title"}).AddRow([]byte("raw bytes"))
	mock.ExpectQuery("SELECT (.+) FROM books").WillReturnRows(rows)

	b := NewBuilder(db, "books")
	results, err := b.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "raw bytes", results[0]["title"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuilderExecuteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	backendErr := errors.New("connection refused")
	mock.ExpectQuery("SELECT (.+) FROM books").WillReturnError(backendErr)

	b := NewBuilder(db, "books")
	results, err := b.Execute(context.Background())
	assert.Nil(t, results)
	assert.ErrorIs(t, err, backendErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
