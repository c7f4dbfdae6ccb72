package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/transform-imports/pkg/casing"
	"github.com/gnana997/transform-imports/pkg/config"
	"github.com/gnana997/transform-imports/pkg/rewrite"
	"github.com/gnana997/transform-imports/pkg/transform"
)

const (
	defaultFilename = "input.tsx"
	caseExample     = "DatePicker"
)

type transformResponse struct {
	Code              string `json:"code"`
	Changed           bool   `json:"changed"`
	ImportsRewritten  int    `json:"imports_rewritten"`
	StatementsEmitted int    `json:"statements_emitted"`
}

type caseStyle struct {
	Tag     casing.Case `json:"tag"`
	Example string      `json:"example"`
}

func (s *Server) handleTransformImports(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filename := req.GetString("filename", defaultFilename)

	table := s.defaults
	if raw := req.GetString("config", ""); raw != "" {
		table, err = config.ParseString(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	t := transform.NewTransformer(s.parser, rewrite.NewEngine(table, s.logger), s.logger)
	result, err := t.TransformFile(filename, []byte(code))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(transformResponse{
		Code:              string(result.Code),
		Changed:           result.Changed,
		ImportsRewritten:  result.ImportsRewritten,
		StatementsEmitted: result.StatementsEmitted,
	})
}

func (s *Server) handleListCaseStyles(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	styles := make([]caseStyle, 0, len(casing.All()))
	for _, c := range casing.All() {
		styles = append(styles, caseStyle{
			Tag:     c,
			Example: casing.Apply(caseExample, []casing.Case{c}),
		})
	}
	return jsonResult(map[string]any{
		"input":  caseExample,
		"styles": styles,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
