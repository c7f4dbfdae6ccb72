package mcp

import "github.com/mark3labs/mcp-go/mcp"

// ToolDefinition describes an MCP tool exposed by the server.
type ToolDefinition struct {
	Name        string
	Description string
}

// RegisteredTools returns the MCP tool definitions.
func RegisteredTools() []ToolDefinition {
	var defs []ToolDefinition
	for _, tool := range []mcp.Tool{transformImportsTool(), listCaseStylesTool()} {
		defs = append(defs, ToolDefinition{Name: tool.Name, Description: tool.Description})
	}
	return defs
}

func transformImportsTool() mcp.Tool {
	return mcp.NewTool("transform_imports",
		mcp.WithDescription("Rewrite named imports of configured packages into per-member imports "+
			"(e.g. import {Button} from \"antd\" -> import Button from \"antd/es/button\"). "+
			"Returns the rewritten source and a summary."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("JavaScript or TypeScript module source"),
		),
		mcp.WithString("filename",
			mcp.Description("File name used to pick the grammar from its extension (default input.tsx)"),
		),
		mcp.WithString("config",
			mcp.Description("JSON object mapping package name to {transform, style, skipDefaultConversion, "+
				"preventFullImport, memberTransformers}. Defaults to the server's configured table."),
		),
	)
}

func listCaseStylesTool() mcp.Tool {
	return mcp.NewTool("list_case_styles",
		mcp.WithDescription("List the memberTransformers case tags with an example of each"),
	)
}
