// Package jobserver exposes the ingestion and matching engine as MCP tools.
package jobserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all engine tools on the given MCP server:
// job_search, match_score, application_track, application_list,
// application_update.
func RegisterTools(server *mcp.Server) {
	registerJobSearch(server)
	registerMatchScore(server)
	registerApplicationTools(server)
}
