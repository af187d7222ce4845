package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleFillForm implements the guided fill workflow.
func HandleFillForm(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		url := ""
		persona := ""
		if args != nil {
			if v, ok := args["url"]; ok {
				url = v
			}
			if v, ok := args["persona"]; ok {
				persona = v
			}
		}

		var sb strings.Builder

		sb.WriteString("# Fill a Form\n\n")
		sb.WriteString("You are filling out a web form. Answers bind to questions by position only, so keep them in the exact order of the extracted items.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Extract** - `form_extract(url)` returns `form.items` in page order\n")
		sb.WriteString("   - `typeName` tells you the answer shape; `choices` lists the options\n")
		sb.WriteString("   - `isRequired` marks questions that must not be left empty\n\n")
		sb.WriteString("2. **Answer** - build one answer per item, same order\n")
		sb.WriteString("   - `shortAnswer`, `paragraph`: any string\n")
		sb.WriteString("   - `multipleChoice`, `dropdown`: one string that contains (or is contained in) a choice label\n")
		sb.WriteString("   - `checkboxes`: an array of strings, one per choice to tick\n")
		sb.WriteString("   - `linearScale`, `rating`: a string holding the number, e.g. `\"4\"`\n")
		sb.WriteString("   - `grid`, `date`, `time`: not fillable; pass `\"\"` to keep positions aligned\n\n")
		sb.WriteString("3. **Fill** - `form_fill(url, answers, expected: form)`\n")
		sb.WriteString("   - Passing `expected` warns you if questions moved since extraction\n\n")
		sb.WriteString("4. **Check the report**\n")
		sb.WriteString("   - `no_match` means no choice matched; rephrase using the exact choice label and fill again\n")
		sb.WriteString("   - `mismatches` list questions whose controls did not end up in the intended state\n\n")

		sb.WriteString("## Alternatives\n\n")
		fmt.Fprintf(&sb, "- `form_autofill(url)` asks the configured answer service (%s) and fills in one step\n", cfg.AnswerEndpoint)
		sb.WriteString("- `form_prefill_url(url, answers)` returns a prefilled link for a person to review and submit\n")

		if url != "" || persona != "" {
			sb.WriteString("\n## Your Task\n\n")
			if url != "" {
				fmt.Fprintf(&sb, "- Form: %s\n", url)
			}
			if persona != "" {
				fmt.Fprintf(&sb, "- Answer as: %s\n", persona)
			}
		}

		return &sdkmcp.GetPromptResult{
			Description: "Guided form filling workflow",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
