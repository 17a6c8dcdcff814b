package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/FalkorDB/falkordb-go/v2"
	"github.com/plantops/plantquery/internal/logging"
)

// Client provides an interface for interacting with the plant graph
type Client interface {
	// Connect establishes connection to FalkorDB
	Connect(ctx context.Context) error

	// Close closes the connection
	Close() error

	// Ping checks if the connection is alive
	Ping(ctx context.Context) error

	// IsConnected reports whether Connect has succeeded
	IsConnected() bool

	// ExecuteQuery executes a Cypher query and returns results
	ExecuteQuery(ctx context.Context, query GraphQuery) (*QueryResult, error)

	// InitializeSchema creates indexes for the plant topology
	InitializeSchema(ctx context.Context) error
}

// ClientConfig holds configuration for the FalkorDB client
type ClientConfig struct {
	Host         string
	Port         int
	Password     string
	GraphName    string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	// Query cache settings
	QueryCacheEnabled  bool
	QueryCacheMemoryMB int64
	QueryCacheTTL      time.Duration
}

// DefaultClientConfig returns default configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Host:         "localhost",
		Port:         6379,
		Password:     "",
		GraphName:    "plant",
		MaxRetries:   3,
		DialTimeout:  30 * time.Second,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		PoolSize:     10,

		QueryCacheEnabled:  false,
		QueryCacheMemoryMB: 64,
		QueryCacheTTL:      2 * time.Minute,
	}
}

// falkorClient implements the Client interface using the FalkorDB Go client
type falkorClient struct {
	config ClientConfig
	logger *logging.Logger
	db     *falkordb.FalkorDB
	graph  *falkordb.Graph
}

// NewClient creates a new FalkorDB client, optionally wrapped with query caching
func NewClient(config ClientConfig) Client {
	client := &falkorClient{
		config: config,
		logger: logging.GetLogger("graph.client"),
	}

	if config.QueryCacheEnabled {
		cacheConfig := QueryCacheConfig{
			MaxMemoryMB: config.QueryCacheMemoryMB,
			TTL:         config.QueryCacheTTL,
			Enabled:     true,
		}

		cachedClient, err := NewCachedClient(client, cacheConfig, logging.GetLogger("graph.cache"))
		if err != nil {
			client.logger.Warn("Failed to create query cache, continuing without caching: %v", err)
			return client
		}
		return cachedClient
	}

	return client
}

// Connect establishes connection to FalkorDB
func (c *falkorClient) Connect(ctx context.Context) error {
	c.logger.Info("Connecting to FalkorDB at %s:%d (graph: %s)", c.config.Host, c.config.Port, c.config.GraphName)

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	// falkordb.ConnectionOption is an alias for redis.Options
	connOpts := &falkordb.ConnectionOption{
		Addr:         addr,
		Password:     c.config.Password,
		DialTimeout:  c.config.DialTimeout,
		ReadTimeout:  c.config.ReadTimeout,
		WriteTimeout: c.config.WriteTimeout,
		PoolSize:     c.config.PoolSize,
		MaxRetries:   c.config.MaxRetries,
	}

	db, err := falkordb.FalkorDBNew(connOpts)
	if err != nil {
		return fmt.Errorf("failed to create FalkorDB client: %w", err)
	}
	c.db = db
	c.graph = db.SelectGraph(c.config.GraphName)

	c.logger.Info("Successfully connected to FalkorDB")
	return nil
}

// Close closes the connection
func (c *falkorClient) Close() error {
	c.logger.Info("Closing FalkorDB connection")
	if c.db != nil && c.db.Conn != nil {
		return c.db.Conn.Close()
	}
	return nil
}

// Ping checks if the connection is alive
func (c *falkorClient) Ping(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("client not connected")
	}
	// No direct Ping on the FalkorDB client; a trivial query serves
	_, err := c.graph.Query("RETURN 1", nil, nil)
	return err
}

// IsConnected reports whether Connect has succeeded
func (c *falkorClient) IsConnected() bool {
	return c.graph != nil
}

// ExecuteQuery executes a Cypher query and returns results
func (c *falkorClient) ExecuteQuery(ctx context.Context, query GraphQuery) (*QueryResult, error) {
	if c.graph == nil {
		return nil, fmt.Errorf("client not connected")
	}

	var options *falkordb.QueryOptions
	if query.Timeout > 0 {
		options = falkordb.NewQueryOptions().SetTimeout(query.Timeout)
	}

	startTime := time.Now()
	result, err := c.graph.Query(query.Query, query.Parameters, options)
	executionTime := time.Since(startTime)

	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	queryResult := convertFalkorDBResult(result)
	queryResult.Stats.ExecutionTime = executionTime

	c.logger.Debug("Executed query in %v: %d rows", executionTime, len(queryResult.Rows))
	return queryResult, nil
}

// convertFalkorDBResult converts a FalkorDB QueryResult to our QueryResult format
func convertFalkorDBResult(result *falkordb.QueryResult) *QueryResult {
	qr := &QueryResult{
		Columns: []string{},
		Rows:    [][]interface{}{},
		Stats:   QueryStats{},
	}

	firstRow := true
	for result.Next() {
		record := result.Record()

		// Column names come from the first record
		if firstRow {
			qr.Columns = record.Keys()
			firstRow = false
		}

		qr.Rows = append(qr.Rows, record.Values())
	}

	qr.Stats.NodesCreated = result.NodesCreated()
	qr.Stats.NodesDeleted = result.NodesDeleted()
	qr.Stats.RelationshipsCreated = result.RelationshipsCreated()
	qr.Stats.RelationshipsDeleted = result.RelationshipsDeleted()
	qr.Stats.PropertiesSet = result.PropertiesSet()
	qr.Stats.LabelsAdded = result.LabelsAdded()

	return qr
}
