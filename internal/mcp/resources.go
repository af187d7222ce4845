package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/formpilot-mcp/internal/mcp/tools"
	"github.com/usestring/formpilot-mcp/pkg/decode"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// Resource URI scheme: formpilot://
// Supported URIs:
//   formpilot://schema/form-document
//   formpilot://schema/answer-set
//   formpilot://form/{url}   (url is path-escaped)

const uriScheme = "formpilot://"

// registerResources registers resources and their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         uriScheme + "schema/form-document",
		Name:        "FormDocument Schema",
		Description: "JSON Schema of the form document returned by form_extract and posted to the answer service.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceSchema)

	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         uriScheme + "schema/answer-set",
		Name:        "AnswerSet Schema",
		Description: "JSON Schema of the answers accepted by form_fill and returned by the answer service.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceSchema)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: uriScheme + "form/{url}",
		Name:        "Extracted Form",
		Description: "Questions of the form page at url (path-escaped). Same content as form_extract.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceForm)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	switch params["name"] {
	case "form-document":
		return toResourceResult(req.Params.URI, types.FormDocumentSchema())
	case "answer-set":
		return toResourceResult(req.Params.URI, types.AnswerSetSchema())
	}
	return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
}

func (s *Server) handleResourceForm(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	tree, err := s.deps.LoadPage(ctx, tools.PageSource{URL: params["url"]})
	if err != nil {
		return nil, err
	}
	doc, err := decode.Extract(tree)
	if err != nil {
		return nil, tools.WrapError(err)
	}
	return toResourceResult(req.Params.URI, doc)
}

func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected " + uriScheme)
	}

	path := strings.TrimPrefix(uri, uriScheme)
	kind, rest, _ := strings.Cut(path, "/")
	if kind == "" {
		return nil, tools.ErrInvalidInput("empty resource path")
	}

	params := make(map[string]string)
	switch kind {
	case "schema":
		if rest == "" {
			return nil, tools.ErrInvalidInput("schema URI requires a name")
		}
		params["name"] = rest

	case "form":
		if rest == "" {
			return nil, tools.ErrInvalidInput("form URI requires a page url")
		}
		pageURL, err := url.PathUnescape(rest)
		if err != nil {
			return nil, tools.ErrInvalidInput(fmt.Sprintf("invalid form url: %v", err))
		}
		params["url"] = pageURL

	default:
		return nil, tools.ErrInvalidInput("unknown resource type: " + kind)
	}

	return params, nil
}

func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
