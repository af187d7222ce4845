// Package mcpsrv provides an extensible MCP server for filling web forms.
//
// This package exposes a high-level API for creating and running an MCP server
// with all builtin form tools, prompts, and resources. Users can extend the
// server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server with configuration from the environment:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools that reuse the page loader or answer client:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type CountInput struct {
//	    URL string `json:"url"`
//	}
//
//	type CountOutput struct {
//	    Questions int `json:"questions"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(
//	        &mcp.Tool{Name: "count_questions", Description: "Count questions on a form"},
//	        func(d *mcpsrv.Deps) func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            return func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	                tree, err := d.Loader.Load(ctx, in.URL)
//	                if err != nil {
//	                    return nil, CountOutput{}, err
//	                }
//	                doc, err := decode.Extract(tree)
//	                if err != nil {
//	                    return nil, CountOutput{}, err
//	                }
//	                return nil, CountOutput{Questions: len(doc.Items)}, nil
//	            }
//	        },
//	    ),
//	)
//
// # Configuration
//
// Configure logging and other options:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithAnswerEndpoint("https://answers.example.com/generate"),
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/formpilot-mcp.log"),
//	)
package mcpsrv
