package index

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/quillsearch/quill/pkg/record"
)

// Options is the option bag handed to the configure callback.
type Options struct {
	// Limit caps how many documents one search pulls from the index.
	// Zero falls back to the client's page size.
	Limit int
}

// Engine is the underlying index handle a configure callback drives. The
// callback is expected to reset any previously scoped attribute set, scope
// the engine to its own attributes, then perform the search.
type Engine interface {
	ResetSearchableAttributes()
	SetSearchableAttributes(names []string)
	PerformSearch(ctx context.Context, term string, opts Options) (*Cursor, error)
}

// ConfigureFunc receives the engine handle, the raw term and the option bag,
// and returns the result cursor of the search it performed.
type ConfigureFunc func(ctx context.Context, engine Engine, term string, opts Options) (*Cursor, error)

// Client is the external search-index contract the delegated execution
// strategy consumes.
type Client interface {
	Search(ctx context.Context, term string, configure ConfigureFunc) (*Cursor, error)
}

const defaultPageSize = 1000

// RedisConfig holds connection settings for a RediSearch-backed client.
type RedisConfig struct {
	URL       string
	Password  string
	DB        int
	IndexName string
	// PageSize bounds one FT.SEARCH round trip. Defaults to 1000.
	PageSize int
}

// RedisClient implements Client against a RediSearch index via FT.SEARCH.
type RedisClient struct {
	client     *redis.Client
	indexName  string
	pageSize   int
	searchable []string
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(config RedisConfig) (*RedisClient, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if config.Password != "" {
		opts.Password = config.Password
	}
	if config.DB >= 0 {
		opts.DB = config.DB
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &RedisClient{
		client:    client,
		indexName: config.IndexName,
		pageSize:  pageSize,
	}, nil
}

// Search hands the engine to the configure callback and returns whatever
// cursor the callback's search produced.
func (c *RedisClient) Search(ctx context.Context, term string, configure ConfigureFunc) (*Cursor, error) {
	return configure(ctx, c, term, Options{Limit: c.pageSize})
}

// ResetSearchableAttributes clears the attribute scope left over from a
// previous search.
func (c *RedisClient) ResetSearchableAttributes() {
	c.searchable = nil
}

// SetSearchableAttributes scopes the next search to the given field names.
func (c *RedisClient) SetSearchableAttributes(names []string) {
	c.searchable = names
}

// PerformSearch runs one FT.SEARCH round trip and materializes the reply.
func (c *RedisClient) PerformSearch(ctx context.Context, term string, opts Options) (*Cursor, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = c.pageSize
	}

	args := []interface{}{"FT.SEARCH", c.indexName, term}
	if len(c.searchable) > 0 {
		args = append(args, "INFIELDS", len(c.searchable))
		for _, name := range c.searchable {
			args = append(args, name)
		}
	}
	args = append(args, "LIMIT", 0, limit)

	reply, err := c.client.Do(ctx, args...).Result()
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	rows, err := parseSearchReply(reply)
	if err != nil {
		return nil, fmt.Errorf("bad index reply: %w", err)
	}
	return NewCursor(rows), nil
}

// Close releases the Redis connection.
func (c *RedisClient) Close() error {
	return c.client.Close()
}

// parseSearchReply decodes an FT.SEARCH array reply: a total count followed
// by alternating document keys and field/value arrays.
func parseSearchReply(reply interface{}) ([]record.Row, error) {
	elements, ok := reply.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected array reply, got %T", reply)
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("empty reply")
	}

	var rows []record.Row
	for i := 1; i < len(elements); i++ {
		key, ok := asString(elements[i])
		if !ok {
			return nil, fmt.Errorf("expected document key at position %d, got %T", i, elements[i])
		}

		row := record.Row{"_key": key}
		if i+1 < len(elements) {
			if fields, ok := elements[i+1].([]interface{}); ok {
				for j := 0; j+1 < len(fields); j += 2 {
					name, ok := asString(fields[j])
					if !ok {
						continue
					}
					value, _ := asString(fields[j+1])
					row[name] = value
				}
				i++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func asString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}
