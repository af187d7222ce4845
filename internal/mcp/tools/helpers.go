// Package tools contains MCP tool implementations for formpilot.
package tools

import (
	"fmt"

	"github.com/usestring/formpilot-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// parseAnswers converts the untyped answers of a tool input.
func parseAnswers(raw []any) (types.AnswerSet, error) {
	set, err := types.AnswersFromAny(raw)
	if err != nil {
		return nil, ErrInvalidInput(fmt.Sprintf("answers: %v", err))
	}
	return set, nil
}

// answersToAny renders answers for tool output. The SDK infers an object
// schema for types.Answer, so outputs carry the wire form instead.
func answersToAny(set types.AnswerSet) []any {
	out := make([]any, len(set))
	for i, a := range set {
		if a.IsList() {
			vals := a.Values()
			items := make([]any, len(vals))
			for j, v := range vals {
				items[j] = v
			}
			out[i] = items
			continue
		}
		out[i] = a.String()
	}
	return out
}
