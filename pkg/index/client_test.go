package index

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchReply(t *testing.T) {
	reply := []interface{}{
		int64(2),
		"book:1", []interface{}{"title", "Great Foobaz", "year", "1999"},
		"book:2", []interface{}{"title", "Another"},
	}

	rows, err := parseSearchReply(reply)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "book:1", rows[0]["_key"])
	assert.Equal(t, "Great Foobaz", rows[0]["title"])
	assert.Equal(t, "1999", rows[0]["year"])
	assert.Equal(t, "Another", rows[1]["title"])
}

func TestParseSearchReplyNoContent(t *testing.T) {
	// NOCONTENT-style reply: keys only, no field arrays.
	reply := []interface{}{int64(2), "book:1", "book:2"}

	rows, err := parseSearchReply(reply)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "book:1", rows[0]["_key"])
	assert.Equal(t, "book:2", rows[1]["_key"])
}

func TestParseSearchReplyEmptyResult(t *testing.T) {
	rows, err := parseSearchReply([]interface{}{int64(0)})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseSearchReplyMalformed(t *testing.T) {
	_, err := parseSearchReply("nope")
	assert.Error(t, err)

	_, err = parseSearchReply([]interface{}{})
	assert.Error(t, err)

	_, err = parseSearchReply([]interface{}{int64(1), int64(42)})
	assert.Error(t, err)
}

func TestNewRedisClientConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(RedisConfig{
		URL:       "redis://" + mr.Addr(),
		IndexName: "books-idx",
	})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, defaultPageSize, client.pageSize)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(RedisConfig{URL: "://not-a-url"})
	assert.Error(t, err)
}

func TestRedisClientSearchInvokesConfigure(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(RedisConfig{
		URL:       "redis://" + mr.Addr(),
		IndexName: "books-idx",
		PageSize:  25,
	})
	require.NoError(t, err)
	defer client.Close()

	var gotTerm string
	var gotLimit int
	_, err = client.Search(context.Background(), "foo bar", func(ctx context.Context, engine Engine, term string, opts Options) (*Cursor, error) {
		gotTerm = term
		gotLimit = opts.Limit
		engine.ResetSearchableAttributes()
		engine.SetSearchableAttributes([]string{"title"})
		return NewCursor(nil), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "foo bar", gotTerm)
	assert.Equal(t, 25, gotLimit)
	assert.Equal(t, []string{"title"}, client.searchable)
}

func TestRedisClientPerformSearchBackendError(t *testing.T) {
	// miniredis does not implement FT.SEARCH; the backend error must
	// propagate unchanged through the client.
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(RedisConfig{
		URL:       "redis://" + mr.Addr(),
		IndexName: "books-idx",
	})
	require.NoError(t, err)
	defer client.Close()

	client.SetSearchableAttributes([]string{"title"})
	_, err = client.PerformSearch(context.Background(), "foo", Options{})
	assert.Error(t, err)
}
