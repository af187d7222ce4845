package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleToolGuide serves the tool reference.
func HandleToolGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# Form Tool Guide\n\n")

		sb.WriteString("## Matching Rules\n\n")
		sb.WriteString("- Choice answers match a label when either contains the other, ignoring case\n")
		sb.WriteString("- The first matching control wins; short answers like `\"a\"` can match the wrong choice\n")
		sb.WriteString("- Checkboxes are only ever ticked, never cleared\n")
		if cfg.ScaleFallback > 0 {
			fmt.Fprintf(&sb, "- Scale answers without a number select %d and add a warning\n", cfg.ScaleFallback)
		} else {
			sb.WriteString("- Scale answers without a number are reported as `no_match`\n")
		}

		sb.WriteString("\n## Report Statuses\n\n")
		sb.WriteString("| Status | Meaning |\n")
		sb.WriteString("|--------|---------|\n")
		sb.WriteString("| `filled` | A control was set |\n")
		sb.WriteString("| `no_match` | No control matched the answer |\n")
		sb.WriteString("| `skipped` | No question at that position, or the fill was cancelled |\n")
		sb.WriteString("| `unsupported` | Grid, date, time or unknown question type |\n")
		sb.WriteString("| `failed` | The answer had the wrong shape or the page misbehaved |\n")
		if cfg.VerifyFill {
			sb.WriteString("\nVerification is on: `mismatches` compares intended and observed control state.\n")
		}

		sb.WriteString("\n## Error Codes\n\n")
		sb.WriteString("- `INVALID_INPUT` - missing url/html or malformed answers\n")
		sb.WriteString("- `NOT_FOUND` - the form page returned 404\n")
		sb.WriteString("- `FETCH_ERROR` - the form page could not be loaded\n")
		sb.WriteString("- `NO_QUESTIONS` - the page has no recognizable questions\n")
		sb.WriteString("- `ANSWER_SERVICE_ERROR` - the answer service failed or returned a bad body\n")
		sb.WriteString("- `TIMEOUT` - a request timed out\n")

		return &sdkmcp.GetPromptResult{
			Description: "Reference for the form tools",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
