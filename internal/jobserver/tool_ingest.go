package jobserver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
	"github.com/anatolykoptev/go_jobmatch/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobmatch/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerJobSearch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_search",
		Description: "Search job boards for postings matching a role, ingest them as structured records, and score each against the stored resume. Returns jobs_found vs jobs_upserted (a gap means some records failed to persist) and per-job match scores with a four-part breakdown.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.JobSearchInput) (*mcp.CallToolResult, engine.IngestOutput, error) {
		ing := jobs.GetIngestor()
		if ing == nil {
			return nil, engine.IngestOutput{}, fmt.Errorf("ingestor not initialized: %w", engine.ErrConfiguration)
		}

		owner := toolutil.NormOwner(input.Owner)

		cacheKey := engine.CacheKey("job_search", owner, input.Role,
			input.Location, input.WorkType, strconv.Itoa(input.Days))
		if out, ok := toolutil.CacheLoadJSON[engine.IngestOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		out, err := ing.Run(ctx, owner, input)
		if err != nil {
			// InvalidInput and Configuration are terminal for this request;
			// Upstream is retryable by the caller. All three surface as-is.
			return nil, engine.IngestOutput{}, err
		}

		// Cache only fully successful batches, so a retry after partial
		// failure reaches the store again.
		if out.JobsUpserted == out.JobsFound {
			toolutil.CacheStoreJSON(ctx, cacheKey, *out)
		}
		return nil, *out, nil
	})
}
