package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Fill a form
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "fill_form",
		Description: "RECOMMENDED: Fill a form page step by step. Start here - explains extraction, answer shapes, and how to read the fill report.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "url",
				Description: "Form page URL",
				Required:    false,
			},
			{
				Name:        "persona",
				Description: "Who is answering, used to choose answers (e.g., 'a student who owns two cats')",
				Required:    false,
			},
		},
	}, HandleFillForm(cfg))

	// Prompt 2: Tool guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "form_tool_guide",
		Description: "Reference for the form tools: answer matching rules, report statuses, and error codes.",
	}, HandleToolGuide(cfg))
}
