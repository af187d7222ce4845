package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/formpilot-mcp/pkg/qtype"
)

// ClassifyInput is the input for form_classify.
type ClassifyInput struct {
	Codes []int `json:"codes,omitempty" jsonschema:"Type codes to classify (default: every known code)"`
}

// ClassifyOutput is the output for form_classify.
type ClassifyOutput struct {
	Types []TypeInfo `json:"types,omitempty"`
}

// TypeInfo describes one type code.
type TypeInfo struct {
	Code     int            `json:"code"`
	Category qtype.Category `json:"category"`
	Fillable bool           `json:"fillable"`
}

// ToolClassify exposes the type table.
func ToolClassify(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ClassifyInput) (*sdkmcp.CallToolResult, ClassifyOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ClassifyInput) (*sdkmcp.CallToolResult, ClassifyOutput, error) {
		codes := input.Codes
		if len(codes) == 0 {
			codes = qtype.Codes()
		}

		output := ClassifyOutput{Types: make([]TypeInfo, len(codes))}
		for i, code := range codes {
			cat := qtype.Classify(code)
			output.Types[i] = TypeInfo{Code: code, Category: cat, Fillable: cat.Fillable()}
		}
		return nil, output, nil
	}
}
