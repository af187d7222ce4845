package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: form_extract
	AddTool(srv, &sdkmcp.Tool{
		Name:        "form_extract",
		Description: "Extract the questions of a form page. Pass url to fetch the page, html for markup in hand, or urls to extract several forms concurrently. Returns {form: {metadata, items: [{id, title, type, typeName, index, isRequired, choices, entryId, scaleMin, scaleMax}], count}, summary}. Items are in page order; answer i of form_fill and form_prefill_url binds to items[i].",
	}, ToolExtract(d))

	// Tool 2: form_fill
	AddTool(srv, &sdkmcp.Tool{
		Name:        "form_fill",
		Description: "Fill a form page with answers in question order. Each answer is a string, or an array of strings for checkboxes. Choices match case-insensitively by containment; scale answers use the first number found. Returns a report with per-question status (filled, no_match, skipped, unsupported, failed), verification mismatches and warnings, plus the event log. Pass expected (the form from form_extract) to be warned when questions moved since extraction.",
	}, ToolFill(d))

	// Tool 3: form_autofill
	AddTool(srv, &sdkmcp.Tool{
		Name:        "form_autofill",
		Description: "Extract a form, send it to the configured answer service, and fill the page with the returned answers. Returns the form, the answers, the fill report and a prefilled link when the form carries entry ids. Fails with NO_QUESTIONS when the page has no questions and ANSWER_SERVICE_ERROR when the service fails.",
	}, ToolAutofill(d))

	// Tool 4: form_classify
	AddTool(srv, &sdkmcp.Tool{
		Name:        "form_classify",
		Description: "Map question type codes to categories. Without codes, returns the whole table. Unmapped codes classify as unknown.",
	}, ToolClassify(d))

	// Tool 5: form_prefill_url
	AddTool(srv, &sdkmcp.Tool{
		Name:        "form_prefill_url",
		Description: "Build a prefilled form link (usp=pp_url) from answers in question order, without filling the page. Questions without an entry id are skipped; array answers repeat the field.",
	}, ToolPrefill(d))
}
