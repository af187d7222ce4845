package mcpsrv

import (
	"github.com/usestring/formpilot-mcp/internal/config"
	"github.com/usestring/formpilot-mcp/pkg/answers"
	"github.com/usestring/formpilot-mcp/pkg/loader"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config  *config.Config
	Loader  *loader.Loader
	Answers *answers.Client
}
