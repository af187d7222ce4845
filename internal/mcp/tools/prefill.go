package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/formpilot-mcp/pkg/decode"
	"github.com/usestring/formpilot-mcp/pkg/prefill"
)

// PrefillInput is the input for form_prefill_url.
type PrefillInput struct {
	URL     string `json:"url,omitempty" jsonschema:"Form page URL to fetch"`
	HTML    string `json:"html,omitempty" jsonschema:"Form page markup, used instead of url"`
	PageURL string `json:"page_url,omitempty" jsonschema:"URL reported for inline html (default: url)"`
	Answers []any  `json:"answers" jsonschema:"Answers in question order; each a string or an array of strings"`
}

// PrefillOutput is the output for form_prefill_url.
type PrefillOutput struct {
	PrefillURL string              `json:"prefill_url"`
	SubmitURL  string              `json:"submit_url,omitempty"`
	Fields     map[string][]string `json:"fields,omitempty"`
}

// ToolPrefill builds a prefilled link from answers without touching the page.
func ToolPrefill(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input PrefillInput) (*sdkmcp.CallToolResult, PrefillOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input PrefillInput) (*sdkmcp.CallToolResult, PrefillOutput, error) {
		set, err := parseAnswers(input.Answers)
		if err != nil {
			return nil, PrefillOutput{}, err
		}

		tree, err := d.LoadPage(ctx, PageSource{URL: input.URL, HTML: input.HTML, PageURL: input.PageURL})
		if err != nil {
			return nil, PrefillOutput{}, err
		}

		doc, err := decode.Extract(tree)
		if err != nil {
			return nil, PrefillOutput{}, WrapError(err)
		}

		values := prefill.Values(doc, set)
		link, err := prefill.URL(doc.Metadata.URL, values)
		if err != nil {
			return nil, PrefillOutput{}, ErrInvalidInput(err.Error())
		}

		output := PrefillOutput{PrefillURL: link, Fields: values}
		if submit, err := prefill.SubmitURL(doc.Metadata.URL); err == nil {
			output.SubmitURL = submit
		}
		return nil, output, nil
	}
}
