// Package mcp connects MCP (Model Context Protocol) servers to the tool
// registry: tools discovered on a remote server become registry capabilities
// whose execution is proxied over the MCP connection.
//
//	remote, err := mcp.Connect(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	registry := tool.NewRegistry()
//	if err := remote.RegisterAll(registry); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	ai "github.com/xpand-io/bedrockai"
	"github.com/xpand-io/bedrockai/tool"
)

// Remote is a connection to an MCP server with a locally cached tool list.
// It is safe for concurrent use; refresh the cache with [Remote.Refresh].
type Remote struct {
	client *client.Client
	mu     sync.RWMutex
	tools  []ai.Tool
}

// Connect starts an MCP server as a subprocess and connects over stdio.
func Connect(ctx context.Context, command string, env []string, args ...string) (*Remote, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: create client: %w", err)
	}
	return fromClient(ctx, c)
}

// ConnectSSE connects to an MCP server over SSE.
func ConnectSSE(ctx context.Context, baseURL string) (*Remote, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("mcp: create SSE client: %w", err)
	}
	return fromClient(ctx, c)
}

// FromClient wraps an existing MCP client, initializing the session and
// fetching the tool list.
func FromClient(ctx context.Context, c *client.Client) (*Remote, error) {
	return fromClient(ctx, c)
}

func fromClient(ctx context.Context, c *client.Client) (*Remote, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp: start client: %w", err)
	}

	_, err := c.Initialize(ctx, mcpgo.InitializeRequest{
		Params: mcpgo.InitializeParams{
			ProtocolVersion: mcpgo.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcpgo.ClientCapabilities{},
			ClientInfo: mcpgo.Implementation{
				Name:    "bedrockai-mcp-client",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize session: %w", err)
	}

	r := &Remote{client: c}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: list tools: %w", err)
	}
	return r, nil
}

// Close closes the connection to the MCP server.
func (r *Remote) Close() error {
	return r.client.Close()
}

// Refresh re-fetches the tool list from the server.
func (r *Remote) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return err
	}

	tools := make([]ai.Tool, 0, len(result.Tools))
	for _, t := range result.Tools {
		tools = append(tools, convertTool(t))
	}

	r.mu.Lock()
	r.tools = tools
	r.mu.Unlock()
	return nil
}

// Tools returns the cached tool definitions.
func (r *Remote) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ai.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// RegisterAll registers every cached remote tool on the given registry,
// each with a handler proxying execution to the MCP server.
func (r *Remote) RegisterAll(registry *tool.Registry) error {
	for _, t := range r.Tools() {
		if err := registry.Register(t, r.Handler(t.Name)); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns a registry handler that executes the named tool remotely.
func (r *Remote) Handler(name string) tool.Handler {
	return func(ctx context.Context, call ai.ToolUse) (any, error) {
		var args any
		if len(call.Input) > 0 {
			if err := json.Unmarshal(call.Input, &args); err != nil {
				return nil, fmt.Errorf("mcp: invalid arguments for %s: %w", name, err)
			}
		}

		result, err := r.client.CallTool(ctx, mcpgo.CallToolRequest{
			Params: mcpgo.CallToolParams{Name: name, Arguments: args},
		})
		if err != nil {
			return nil, err
		}
		return convertResult(result)
	}
}

func convertTool(t mcpgo.Tool) ai.Tool {
	var schema json.RawMessage
	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		schema = data
	}
	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: schema,
	}
}

// convertResult maps an MCP call result to a handler return value:
// structured content passes through as-is, text content is joined, and an
// error-flagged result becomes a handler error.
func convertResult(result *mcpgo.CallToolResult) (any, error) {
	if result == nil {
		return nil, errors.New("mcp: empty result")
	}

	var textParts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcpgo.TextContent:
			textParts = append(textParts, content.Text)
		case *mcpgo.TextContent:
			textParts = append(textParts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				textParts = append(textParts, string(data))
			}
		}
	}
	text := strings.Join(textParts, "\n")

	if result.IsError {
		if text == "" {
			text = "tool execution failed"
		}
		return nil, errors.New(text)
	}
	if result.StructuredContent != nil {
		return result.StructuredContent, nil
	}
	return text, nil
}
