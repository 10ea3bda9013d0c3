package jobserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
	"github.com/anatolykoptev/go_jobmatch/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobmatch/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerMatchScore(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "match_score",
		Description: "Score a job against a resume on a 0-100 scale with a four-part breakdown (skill overlap, semantic similarity, project relevance, risk penalty). Pass the URL of an already ingested job to rescore it, or job_text to score a pasted posting without persisting it. An explicit resume overrides the stored primary resume.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.MatchScoreInput) (*mcp.CallToolResult, *engine.MatchScoreOutput, error) {
		out, err := matchScore(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	})
}

func matchScore(ctx context.Context, input engine.MatchScoreInput) (*engine.MatchScoreOutput, error) {
	if input.URL == "" && input.JobText == "" {
		return nil, fmt.Errorf("either url or job_text is required: %w", engine.ErrInvalidInput)
	}

	owner := toolutil.NormOwner(input.Owner)
	vocab := jobs.DefaultVocabulary()

	job, persisted, err := resolveJob(ctx, owner, input, vocab)
	if err != nil {
		return nil, err
	}

	resume, err := resolveResume(ctx, owner, input.Resume, vocab)
	if err != nil {
		return nil, err
	}

	// Unlike ingestion, a one-off score does not degrade on a similarity
	// failure; the caller asked for this exact score and gets the error.
	m, err := jobs.Score(ctx, resume, job, jobs.GetSimilarity())
	if err != nil {
		return nil, err
	}

	// Rescoring an ingested job replaces its stored match; a pasted
	// posting is scored in-flight and never persisted.
	if persisted {
		engine.IncrRescoreRequests()
		if store := jobs.GetStore(); store != nil {
			if err := store.UpsertMatch(ctx, &m); err != nil {
				return nil, err
			}
		}
	}

	return &engine.MatchScoreOutput{
		Owner:               owner,
		URL:                 job.URL,
		Total:               m.Total,
		Category:            jobs.Categorize(m.Total),
		Breakdown:           m.Breakdown,
		MatchingSkills:      m.MatchingSkills,
		MissingSkills:       m.MissingSkills,
		MatchingBullets:     m.MatchingBullets,
		RecommendedProjects: m.RecommendedProjects,
		WhyMatch:            m.WhyMatch,
		RiskFlags:           m.RiskFlags,
	}, nil
}

// resolveJob returns the job to score and whether it lives in the store.
func resolveJob(ctx context.Context, owner string, input engine.MatchScoreInput, vocab jobs.Vocabulary) (*jobs.Job, bool, error) {
	if input.URL != "" {
		store := jobs.GetStore()
		if store == nil {
			return nil, false, fmt.Errorf("job store not initialized: %w", engine.ErrConfiguration)
		}
		job, err := store.GetJobByURL(ctx, owner, input.URL)
		if err != nil {
			return nil, false, err
		}
		if job == nil {
			return nil, false, fmt.Errorf("no ingested job for %s, run job_search first or pass job_text: %w",
				input.URL, engine.ErrInvalidInput)
		}
		return job, true, nil
	}

	parsed := jobs.ParseResult(engine.SearchResult{Content: input.JobText}, jobs.ParseContext{Vocab: vocab})
	return parsed.ToJob(owner), false, nil
}

// resolveResume prefers the explicit override text; otherwise it loads the
// stored primary resume. A missing resume is not an error, the score just
// degrades to zero.
func resolveResume(ctx context.Context, owner, override string, vocab jobs.Vocabulary) (*jobs.Resume, error) {
	if override != "" {
		return resumeFromText(override, vocab), nil
	}
	src := jobs.GetResumeSource()
	if src == nil {
		return nil, nil
	}
	resume, err := src.GetPrimaryResume(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load resume for %s: %w", owner, err)
	}
	return resume, nil
}

// resumeFromText builds a scoreable resume out of pasted free text: skills
// from the vocabulary, bullets from the non-empty lines.
func resumeFromText(text string, vocab jobs.Vocabulary) *jobs.Resume {
	r := &jobs.Resume{RawText: text, Skills: vocab.Match(text)}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			r.Bullets = append(r.Bullets, line)
		}
	}
	return r
}
