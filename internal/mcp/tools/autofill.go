package tools

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/formpilot-mcp/pkg/prefill"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// AutofillInput is the input for form_autofill.
type AutofillInput struct {
	URL         string `json:"url,omitempty" jsonschema:"Form page URL to fetch"`
	HTML        string `json:"html,omitempty" jsonschema:"Form page markup, used instead of url"`
	PageURL     string `json:"page_url,omitempty" jsonschema:"URL reported for inline html (default: url)"`
	Verify      *bool  `json:"verify,omitempty" jsonschema:"Read back control state after filling (default: VERIFY_FILL)"`
	IncludeHTML bool   `json:"include_html,omitempty" jsonschema:"Return the filled markup"`
	Fresh       bool   `json:"fresh,omitempty" jsonschema:"Fetch url again even if a recent copy is cached"`
}

// AutofillOutput is the output for form_autofill.
type AutofillOutput struct {
	Form       *types.FormDocument `json:"form"`
	Answers    []any               `json:"answers,omitempty"`
	Report     *types.FillReport   `json:"report"`
	PrefillURL string              `json:"prefill_url,omitempty"`
	HTML       string              `json:"html,omitempty"`
}

// ToolAutofill extracts a form, asks the answer service and fills the page.
func ToolAutofill(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input AutofillInput) (*sdkmcp.CallToolResult, AutofillOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input AutofillInput) (*sdkmcp.CallToolResult, AutofillOutput, error) {
		tree, err := d.LoadPage(ctx, PageSource{URL: input.URL, HTML: input.HTML, PageURL: input.PageURL, Fresh: input.Fresh})
		if err != nil {
			return nil, AutofillOutput{}, err
		}

		res, err := d.Pipeline(input.Verify).Run(ctx, tree)
		if err != nil {
			return nil, AutofillOutput{}, WrapError(err)
		}

		output := AutofillOutput{
			Form:    res.Document,
			Answers: answersToAny(res.Answers),
			Report:  res.Report,
		}

		if values := prefill.Values(res.Document, res.Answers); len(values) > 0 {
			link, err := prefill.URL(res.Document.Metadata.URL, values)
			if err != nil {
				slog.Debug("no prefill link", slog.String("error", err.Error()))
			}
			output.PrefillURL = link
		}

		if input.IncludeHTML {
			if output.HTML, err = tree.Render(); err != nil {
				return nil, AutofillOutput{}, WrapError(err)
			}
		}
		return nil, output, nil
	}
}
