// Package types provides the shared data model for formpilot-mcp.
// These types cross the boundary to the answer service and MCP clients, so
// their JSON names follow the answer-service wire contract.
package types
