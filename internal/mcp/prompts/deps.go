// Package prompts contains MCP prompt implementations for formpilot.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	AnswerEndpoint string
	VerifyFill     bool
	ScaleFallback  int
}
