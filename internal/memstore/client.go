// Package memstore persists free-form project status notes (entities and
// relations) to the knowledge-store MCP server. It is an out-of-band
// collaborator: the validation harness never depends on it.
package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"flowcheck/pkg/logging"
)

const (
	toolCreateEntities  = "memory_create_entities"
	toolCreateRelations = "memory_create_relations"
)

// Entity is one named knowledge-store record with free-form observations.
type Entity struct {
	Name         string
	EntityType   string
	Observations []string
}

// Relation links two entities with a typed edge.
type Relation struct {
	From         string
	To           string
	RelationType string
}

// Client talks to the knowledge store over the MCP streamable HTTP
// transport, the same way the workflows' own tooling does.
type Client struct {
	client   client.MCPClient
	endpoint string
}

// NewClient returns an unconnected client.
func NewClient() *Client {
	return &Client{}
}

// Connect establishes and initializes the MCP session.
func (c *Client) Connect(ctx context.Context, endpoint string) error {
	c.endpoint = endpoint

	httpClient, err := client.NewStreamableHttpClient(endpoint)
	if err != nil {
		return fmt.Errorf("failed to create streamable HTTP client: %w", err)
	}
	if err := httpClient.Start(ctx); err != nil {
		return fmt.Errorf("failed to start streamable HTTP client: %w", err)
	}
	c.client = httpClient

	initRequest := mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: "2024-11-05",
			ClientInfo: mcp.Implementation{
				Name:    "flowcheck-memory-client",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := c.client.Initialize(initCtx, initRequest); err != nil {
		c.client.Close()
		c.client = nil
		return fmt.Errorf("failed to initialize MCP protocol: %w", err)
	}

	logging.Debug("Memstore", "Connected to knowledge store at %s", endpoint)
	return nil
}

// CreateEntities stores the given entities via the memory_create_entities
// tool.
func (c *Client) CreateEntities(ctx context.Context, entities []Entity) error {
	return c.callTool(ctx, toolCreateEntities, entitiesArgument(entities))
}

// CreateRelations stores the given relations via the
// memory_create_relations tool.
func (c *Client) CreateRelations(ctx context.Context, relations []Relation) error {
	return c.callTool(ctx, toolCreateRelations, relationsArgument(relations))
}

func (c *Client) callTool(ctx context.Context, toolName string, args map[string]any) error {
	if c.client == nil {
		return fmt.Errorf("memstore client not connected")
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	request := mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Name:      toolName,
			Arguments: args,
		},
	}

	result, err := c.client.CallTool(callCtx, request)
	if err != nil {
		return fmt.Errorf("tool call %s failed: %w", toolName, err)
	}
	if result.IsError {
		return fmt.Errorf("tool call %s returned an error result", toolName)
	}

	logging.Debug("Memstore", "Tool %s succeeded", toolName)
	return nil
}

// Close closes the MCP connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// entitiesArgument builds the wire shape expected by
// memory_create_entities.
func entitiesArgument(entities []Entity) map[string]any {
	items := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		items = append(items, map[string]any{
			"name":         e.Name,
			"entityType":   e.EntityType,
			"observations": e.Observations,
		})
	}
	return map[string]any{"entities": items}
}

// relationsArgument builds the wire shape expected by
// memory_create_relations.
func relationsArgument(relations []Relation) map[string]any {
	items := make([]map[string]any, 0, len(relations))
	for _, r := range relations {
		items = append(items, map[string]any{
			"from":         r.From,
			"to":           r.To,
			"relationType": r.RelationType,
		})
	}
	return map[string]any{"relations": items}
}
