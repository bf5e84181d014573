// Package registry collects the MCP tools exposed by the snippets server.
package registry

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Azure/msgraph-snippets/internal/snippets"
	"github.com/Azure/msgraph-snippets/internal/tools"
)

// ToolCategory defines a category for tools.
type ToolCategory string

const (
	// CategoryUsers holds the user snippets.
	CategoryUsers ToolCategory = ToolCategory(snippets.CategoryUsers)
	// CategoryContacts holds the contact snippets.
	CategoryContacts ToolCategory = ToolCategory(snippets.CategoryContacts)
	// CategoryGeneral holds tools that do not call Graph.
	CategoryGeneral ToolCategory = "general"
)

// ToolDefinition defines a tool and its handler.
type ToolDefinition struct {
	Tool     mcp.Tool
	Handler  server.ToolHandlerFunc
	Category ToolCategory
}

// ToolRegistry is a registry of tools for the snippets MCP server.
type ToolRegistry struct {
	tools map[string]ToolDefinition
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]ToolDefinition),
	}
}

// RegisterTool registers a tool with the registry.
func (r *ToolRegistry) RegisterTool(name string, tool mcp.Tool, handler server.ToolHandlerFunc, category ToolCategory) {
	r.tools[name] = ToolDefinition{
		Tool:     tool,
		Handler:  handler,
		Category: category,
	}
}

// RegisterSnippetTools registers one tool per runnable operation plus
// list_snippets.
func (r *ToolRegistry) RegisterSnippetTools(runner tools.SnippetRunner) {
	for _, op := range snippets.Executable() {
		tool := mcp.NewTool(op.Name,
			mcp.WithDescription(describe(op)),
			mcp.WithReadOnlyHintAnnotation(op.Method == "GET"),
		)
		r.RegisterTool(op.Name, tool, tools.CreateSnippetHandler(runner, op), ToolCategory(op.Category))
	}

	listTool := mcp.NewTool("list_snippets",
		mcp.WithDescription("List the Microsoft Graph snippets this server can run"),
		mcp.WithString("category",
			mcp.Description("Optional: only list snippets of this category (users or contacts)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	r.RegisterTool("list_snippets", listTool, tools.CreateListHandler(), CategoryGeneral)
}

func describe(op snippets.Operation) string {
	desc := op.Title
	if op.Description != "" {
		desc += ". " + op.Description
	}
	return desc + " (" + op.Method + " " + op.Path + ")"
}

// GetAllTools returns all registered tools.
func (r *ToolRegistry) GetAllTools() map[string]ToolDefinition {
	return r.tools
}

// ToolNames returns the registered tool names in sorted order.
func (r *ToolRegistry) ToolNames() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigureMCPServer registers all tools with the MCP server.
func (r *ToolRegistry) ConfigureMCPServer(mcpServer *server.MCPServer) {
	for _, def := range r.tools {
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}
