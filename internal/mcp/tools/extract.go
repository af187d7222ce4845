package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/formpilot-mcp/pkg/decode"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// ExtractInput is the input for form_extract.
type ExtractInput struct {
	URL     string   `json:"url,omitempty" jsonschema:"Form page URL to fetch"`
	HTML    string   `json:"html,omitempty" jsonschema:"Form page markup, used instead of url"`
	PageURL string   `json:"page_url,omitempty" jsonschema:"URL reported for inline html (default: url)"`
	URLs    []string `json:"urls,omitempty" jsonschema:"Several form page URLs, fetched concurrently"`
	Fresh   bool     `json:"fresh,omitempty" jsonschema:"Fetch url again even if a recent copy is cached"`
}

// ExtractOutput is the output for form_extract.
type ExtractOutput struct {
	Form    *types.FormDocument `json:"form,omitempty"`
	Summary string              `json:"summary,omitempty"`
	Forms   []ExtractedForm     `json:"forms,omitempty"`
}

// ExtractedForm is one result of a multi-URL extraction.
type ExtractedForm struct {
	URL   string              `json:"url"`
	Form  *types.FormDocument `json:"form,omitempty"`
	Code  string              `json:"code,omitempty"`
	Error string              `json:"error,omitempty"`
}

// ToolExtract decodes the questions of one or more form pages.
func ToolExtract(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExtractInput) (*sdkmcp.CallToolResult, ExtractOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExtractInput) (*sdkmcp.CallToolResult, ExtractOutput, error) {
		if len(input.URLs) > 0 {
			if input.URL != "" || input.HTML != "" {
				return nil, ExtractOutput{}, ErrInvalidInput("urls cannot be combined with url or html")
			}
			forms, err := extractMany(ctx, d, input.URLs)
			if err != nil {
				return nil, ExtractOutput{}, WrapError(err)
			}
			return nil, ExtractOutput{Forms: forms}, nil
		}

		tree, err := d.LoadPage(ctx, PageSource{URL: input.URL, HTML: input.HTML, PageURL: input.PageURL, Fresh: input.Fresh})
		if err != nil {
			return nil, ExtractOutput{}, err
		}

		doc, err := decode.Extract(tree)
		if err != nil {
			return nil, ExtractOutput{}, WrapError(err)
		}

		return nil, ExtractOutput{Form: doc, Summary: decode.Describe(doc)}, nil
	}
}

func extractMany(ctx context.Context, d *Deps, urls []string) ([]ExtractedForm, error) {
	results, err := d.Loader.LoadAll(ctx, urls)
	if err != nil {
		return nil, err
	}

	forms := make([]ExtractedForm, len(results))
	for i, res := range results {
		forms[i].URL = res.URL
		if res.Err != nil {
			setFormError(&forms[i], WrapError(res.Err))
			continue
		}
		doc, err := decode.Extract(res.Doc)
		if err != nil {
			setFormError(&forms[i], WrapError(err))
			continue
		}
		forms[i].Form = doc
	}
	return forms, nil
}

func setFormError(f *ExtractedForm, err error) {
	f.Error = err.Error()
	if coded, ok := err.(*CodedError); ok {
		f.Code = coded.Code
		f.Error = coded.Message
	}
}
