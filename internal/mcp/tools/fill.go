package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/formpilot-mcp/pkg/page"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// FillInput is the input for form_fill.
type FillInput struct {
	URL         string              `json:"url,omitempty" jsonschema:"Form page URL to fetch"`
	HTML        string              `json:"html,omitempty" jsonschema:"Form page markup, used instead of url"`
	PageURL     string              `json:"page_url,omitempty" jsonschema:"URL reported for inline html (default: url)"`
	Answers     []any               `json:"answers" jsonschema:"Answers in question order; each a string or an array of strings"`
	Expected    *types.FormDocument `json:"expected,omitempty" jsonschema:"Form returned by form_extract; enables entry id cross-checks"`
	Verify      *bool               `json:"verify,omitempty" jsonschema:"Read back control state after filling (default: VERIFY_FILL)"`
	IncludeHTML bool                `json:"include_html,omitempty" jsonschema:"Return the filled markup"`
	Fresh       bool                `json:"fresh,omitempty" jsonschema:"Fetch url again even if a recent copy is cached"`
}

// FillOutput is the output for form_fill.
type FillOutput struct {
	Report *types.FillReport `json:"report"`
	Events []page.Event      `json:"events,omitempty"`
	HTML   string            `json:"html,omitempty"`
}

// ToolFill applies answers to a page.
func ToolFill(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input FillInput) (*sdkmcp.CallToolResult, FillOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FillInput) (*sdkmcp.CallToolResult, FillOutput, error) {
		set, err := parseAnswers(input.Answers)
		if err != nil {
			return nil, FillOutput{}, err
		}

		tree, err := d.LoadPage(ctx, PageSource{URL: input.URL, HTML: input.HTML, PageURL: input.PageURL, Fresh: input.Fresh})
		if err != nil {
			return nil, FillOutput{}, err
		}

		report := d.Filler(input.Expected, input.Verify).Fill(ctx, tree, set)

		output := FillOutput{Report: report, Events: tree.Events()}
		if input.IncludeHTML {
			if output.HTML, err = tree.Render(); err != nil {
				return nil, FillOutput{}, WrapError(err)
			}
		}
		return nil, output, nil
	}
}
