package graph

import (
	"context"
	"strings"

	"github.com/plantops/plantquery/internal/logging"
)

// CachedClient wraps a Client with query caching for read operations
type CachedClient struct {
	underlying Client
	cache      *QueryCache
	logger     *logging.Logger
}

// NewCachedClient creates a new cached client wrapper
func NewCachedClient(client Client, config QueryCacheConfig, logger *logging.Logger) (*CachedClient, error) {
	cache, err := NewQueryCache(config, logger)
	if err != nil {
		return nil, err
	}

	return &CachedClient{
		underlying: client,
		cache:      cache,
		logger:     logger,
	}, nil
}

// Connect establishes connection to FalkorDB (delegates to underlying client)
func (c *CachedClient) Connect(ctx context.Context) error {
	return c.underlying.Connect(ctx)
}

// Close closes the connection (delegates to underlying client)
func (c *CachedClient) Close() error {
	return c.underlying.Close()
}

// Ping checks if the connection is alive (delegates to underlying client)
func (c *CachedClient) Ping(ctx context.Context) error {
	return c.underlying.Ping(ctx)
}

// IsConnected reports whether the underlying client is connected
func (c *CachedClient) IsConnected() bool {
	return c.underlying.IsConnected()
}

// ExecuteQuery executes a Cypher query, serving cached results for reads
func (c *CachedClient) ExecuteQuery(ctx context.Context, query GraphQuery) (*QueryResult, error) {
	if isWriteQuery(query.Query) {
		return c.underlying.ExecuteQuery(ctx, query)
	}

	key := MakeQueryKey(query)
	if result, ok := c.cache.Get(key); ok {
		return result, nil
	}

	result, err := c.underlying.ExecuteQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	c.cache.Put(key, result)
	return result, nil
}

// InitializeSchema creates indexes (delegates to underlying client)
func (c *CachedClient) InitializeSchema(ctx context.Context) error {
	return c.underlying.InitializeSchema(ctx)
}

// CacheStats returns cache statistics
func (c *CachedClient) CacheStats() QueryCacheStats {
	return c.cache.Stats()
}

// ClearCache clears the query cache
func (c *CachedClient) ClearCache() {
	c.cache.Clear()
}

// isWriteQuery checks if a query mutates the graph and must bypass the cache
func isWriteQuery(query string) bool {
	upper := strings.ToUpper(strings.TrimSpace(query))

	writeKeywords := []string{"CREATE", "MERGE", "DELETE", "DETACH", "SET ", "REMOVE", "DROP"}
	for _, kw := range writeKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
