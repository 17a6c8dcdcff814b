// Package client wraps the MCP protocol client used to reach the
// maintenance and sensor-data services.
//
// The wrapper presents the three operations the agents need: a liveness
// probe that never returns an error, an individually timeout-bounded tool
// call, and an idempotent Close. The underlying session is established
// lazily on first use.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/plantops/plantquery/internal/logging"
)

const clientName = "plantquery"

// Client is an MCP client bound to one service endpoint.
type Client struct {
	serviceName string
	baseURL     string
	callTimeout time.Duration
	logger      *logging.Logger

	mu      sync.Mutex
	session *mcpclient.Client
}

// Config holds settings for one MCP service connection.
type Config struct {
	// ServiceName identifies the service in logs and error messages
	ServiceName string

	// BaseURL is the service base URL; the /mcp endpoint is appended
	BaseURL string

	// CallTimeout bounds each individual call (default 30s)
	CallTimeout time.Duration
}

// New creates an MCP client for one service. No connection is made until
// the first call.
func New(cfg Config) *Client {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	return &Client{
		serviceName: cfg.ServiceName,
		baseURL:     cfg.BaseURL,
		callTimeout: cfg.CallTimeout,
		logger:      logging.GetLogger("mcp." + cfg.ServiceName),
	}
}

// ensureSession establishes and initializes the MCP session if needed.
func (c *Client) ensureSession(ctx context.Context) (*mcpclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}

	session, err := mcpclient.NewStreamableHttpClient(c.baseURL + "/mcp")
	if err != nil {
		return nil, fmt.Errorf("failed to create %s MCP client: %w", c.serviceName, err)
	}

	if err := session.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start %s MCP session: %w", c.serviceName, err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: "1.0",
	}
	if _, err := session.Initialize(ctx, initReq); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to initialize %s MCP session: %w", c.serviceName, err)
	}

	c.logger.Debug("MCP session established with %s", c.baseURL)
	c.session = session
	return session, nil
}

// resetSession discards a session that failed at the transport level so
// the next call re-establishes it. When the service restarts, the old
// session id is gone and every call on the cached session would fail
// forever otherwise. A newer session installed concurrently is left
// untouched.
func (c *Client) resetSession(session *mcpclient.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != session {
		return
	}
	_ = c.session.Close()
	c.session = nil
	c.logger.Debug("MCP session to %s reset after transport failure", c.baseURL)
}

// HealthCheck reports whether the service is reachable. It never returns
// an error; any connectivity problem yields false.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	session, err := c.ensureSession(ctx)
	if err != nil {
		c.logger.Debug("Health check failed: %v", err)
		return false
	}

	if err := session.Ping(ctx); err != nil {
		c.logger.Debug("Health check ping failed: %v", err)
		c.resetSession(session)
		return false
	}
	return true
}

// CallTool invokes one tool on the service and decodes its text content as
// JSON. Each call is independently bounded by the configured timeout.
func (c *Client) CallTool(ctx context.Context, toolName string, arguments map[string]interface{}) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = arguments

	result, err := session.CallTool(ctx, req)
	if err != nil {
		c.resetSession(session)
		return nil, fmt.Errorf("failed to call %s on %s MCP: %w", toolName, c.serviceName, err)
	}
	if result.IsError {
		return nil, fmt.Errorf("tool %s on %s MCP returned an error: %s", toolName, c.serviceName, firstText(result.Content))
	}

	return decodeContent(result.Content), nil
}

// decodeContent converts tool result content into a map. A single text
// block is parsed as JSON when possible; anything else is wrapped under a
// generic key.
func decodeContent(content []mcp.Content) map[string]interface{} {
	if len(content) == 0 {
		return map[string]interface{}{"success": true}
	}

	if len(content) == 1 {
		if tc, ok := mcp.AsTextContent(content[0]); ok {
			var decoded map[string]interface{}
			if err := json.Unmarshal([]byte(tc.Text), &decoded); err == nil {
				return decoded
			}
			return map[string]interface{}{"result": tc.Text}
		}
		return map[string]interface{}{"result": fmt.Sprintf("%v", content[0])}
	}

	parts := make([]string, 0, len(content))
	for _, item := range content {
		if tc, ok := mcp.AsTextContent(item); ok {
			parts = append(parts, tc.Text)
		}
	}
	return map[string]interface{}{"content": parts}
}

func firstText(content []mcp.Content) string {
	for _, item := range content {
		if tc, ok := mcp.AsTextContent(item); ok {
			return tc.Text
		}
	}
	return "unknown error"
}

// Close releases the session. Safe to call multiple times and safe to
// call when the session was never established.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}

	err := c.session.Close()
	c.session = nil
	if err != nil {
		return fmt.Errorf("failed to close %s MCP session: %w", c.serviceName, err)
	}
	return nil
}
