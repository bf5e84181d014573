// Package tools adapts snippet operations to MCP tool handlers.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Azure/msgraph-snippets/internal/logger"
	"github.com/Azure/msgraph-snippets/internal/snippets"
)

// logToolCall logs the start of a tool call
func logToolCall(toolName string, arguments interface{}) {
	if jsonBytes, err := json.Marshal(arguments); err == nil {
		logger.Debugf("\n>>> [%s] %s", toolName, string(jsonBytes))
	} else {
		logger.Debugf("\n>>> [%s] %v", toolName, arguments)
	}
}

// logToolResult logs the result or error of a tool call
func logToolResult(toolName string, result string, err error) {
	if err != nil {
		logger.Debugf("\n<<< [%s] ERROR: %v", toolName, err)
	} else if len(result) > 500 {
		logger.Debugf("\n<<< [%s] Result: %d bytes (truncated): %.500s...", toolName, len(result), result)
	} else {
		logger.Debugf("\n<<< [%s] Result: %s", toolName, result)
	}
}

// CreateSnippetHandler returns a tool handler that runs op and answers with
// the raw response body, or with a tool error carrying the failure.
func CreateSnippetHandler(runner SnippetRunner, op snippets.Operation) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logToolCall(req.Params.Name, req.GetArguments())

		r := runner.RunAndWait(ctx, op)
		logToolResult(req.Params.Name, string(r.Payload), r.Err)

		if r.Err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op.Name, r.Err)), nil
		}
		return mcp.NewToolResultText(string(r.Payload)), nil
	}
}

// snippetInfo is the listing form of an operation.
type snippetInfo struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	DocURL      string `json:"doc_url,omitempty"`
}

// ListSnippets renders the runnable operations as JSON, limited to category
// when it is not empty.
func ListSnippets(category string) (string, error) {
	ops := snippets.Executable()
	if category != "" {
		c, err := snippets.ParseCategory(category)
		if err != nil {
			return "", err
		}
		ops = ops[:0:0]
		for _, op := range snippets.ListOperations(c) {
			if op.Executable() {
				ops = append(ops, op)
			}
		}
	}

	infos := make([]snippetInfo, 0, len(ops))
	for _, op := range ops {
		infos = append(infos, snippetInfo{
			Name:        op.Name,
			Category:    string(op.Category),
			Title:       op.Title,
			Description: op.Description,
			Method:      op.Method,
			Path:        op.Path,
			DocURL:      op.DocURL,
		})
	}
	out, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snippet list: %w", err)
	}
	return string(out), nil
}

// CreateListHandler returns the handler of the list_snippets tool.
func CreateListHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logToolCall(req.Params.Name, req.GetArguments())

		result, err := ListSnippets(req.GetString("category", ""))
		logToolResult(req.Params.Name, result, err)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}
