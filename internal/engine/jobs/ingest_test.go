package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
	"github.com/stretchr/testify/require"
)

// fakeResumeSource serves a fixed resume for every owner.
type fakeResumeSource struct {
	resume *Resume
	err    error
}

func (f *fakeResumeSource) GetPrimaryResume(context.Context, string) (*Resume, error) {
	return f.resume, f.err
}

func fakeSearch(results []engine.SearchResult, err error) SearchFunc {
	return func(context.Context, string, int, string) ([]engine.SearchResult, error) {
		return results, err
	}
}

func ingestResults() []engine.SearchResult {
	return []engine.SearchResult{
		{
			Title:   "Backend Engineer",
			URL:     "https://boards.greenhouse.io/acme/jobs/111",
			Content: "Acme is hiring. Remote. Golang, PostgreSQL, Kafka. Visa sponsorship available.",
		},
		{
			Title:   "Platform Engineer",
			URL:     "https://jobs.lever.co/globex/abc-def",
			Content: "Globex is hiring. Hybrid in Austin, TX. Kubernetes and Terraform.",
		},
	}
}

func newTestIngestor(t *testing.T, search SearchFunc, resumes ResumeSource) *Ingestor {
	t.Helper()
	store := testStore(t)
	ing := NewIngestor(store, resumes, stubSimilarity{value: 0.8}, search)
	ing.workers = 2
	return ing
}

func TestIngestorRun_EndToEnd(t *testing.T) {
	ctx := context.Background()
	resumes := &fakeResumeSource{resume: testResume()}
	ing := newTestIngestor(t, fakeSearch(ingestResults(), nil), resumes)

	out, err := ing.Run(ctx, "local", engine.JobSearchInput{Role: "backend engineer"})
	require.NoError(t, err)
	require.Equal(t, 2, out.JobsFound)
	require.Equal(t, 2, out.JobsUpserted)
	require.Len(t, out.Jobs, 2)
	require.Contains(t, out.Query, `"backend engineer"`)

	// Sorted by match score, best first.
	require.GreaterOrEqual(t, out.Jobs[0].MatchScore, out.Jobs[1].MatchScore)
	for _, j := range out.Jobs {
		require.NotEmpty(t, j.Category, "scored jobs must be categorized")
		require.NotEmpty(t, j.Company)
	}

	// Rows are actually persisted with their matches.
	job, err := ing.store.GetJobByURL(ctx, "local", "https://boards.greenhouse.io/acme/jobs/111")
	require.NoError(t, err)
	require.NotNil(t, job)
	m, err := ing.store.GetMatch(ctx, "local", job.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestIngestorRun_Validation(t *testing.T) {
	ing := newTestIngestor(t, fakeSearch(nil, nil), nil)

	_, err := ing.Run(context.Background(), "local", engine.JobSearchInput{Role: "  "})
	require.ErrorIs(t, err, engine.ErrInvalidInput)

	_, err = ing.Run(context.Background(), "", engine.JobSearchInput{Role: "sre"})
	require.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestIngestorRun_ZeroResults(t *testing.T) {
	ing := newTestIngestor(t, fakeSearch(nil, nil), nil)

	out, err := ing.Run(context.Background(), "local", engine.JobSearchInput{Role: "sre"})
	require.NoError(t, err, "zero results is a valid outcome, not an error")
	require.Equal(t, 0, out.JobsFound)
	require.Equal(t, 0, out.JobsUpserted)
	require.NotNil(t, out.Jobs)
	require.Equal(t, "No jobs found.", out.Summary)
}

func TestIngestorRun_SearchFailureSurfaces(t *testing.T) {
	ing := newTestIngestor(t, fakeSearch(nil, fmt.Errorf("provider: %w", engine.ErrUpstream)), nil)

	_, err := ing.Run(context.Background(), "local", engine.JobSearchInput{Role: "sre"})
	require.ErrorIs(t, err, engine.ErrUpstream)
}

func TestIngestorRun_DuplicateURLsCollapse(t *testing.T) {
	dup := ingestResults()[0]
	results := []engine.SearchResult{dup, dup, dup}
	ing := newTestIngestor(t, fakeSearch(results, nil), nil)

	out, err := ing.Run(context.Background(), "local", engine.JobSearchInput{Role: "backend engineer"})
	require.NoError(t, err)
	require.Equal(t, 1, out.JobsFound, "same url must be ingested once")
	require.Equal(t, 1, out.JobsUpserted)
}

func TestIngestorRun_SameURLLastObservationWins(t *testing.T) {
	ctx := context.Background()
	url := "https://boards.greenhouse.io/acme/jobs/111"
	results := []engine.SearchResult{
		{Title: "Backend Engineer", URL: url, Content: "Acme is hiring. Golang."},
		{Title: "Senior Backend Engineer", URL: url, Content: "Acme is hiring. Golang and Kafka."},
	}
	ing := newTestIngestor(t, fakeSearch(results, nil), nil)

	out, err := ing.Run(ctx, "local", engine.JobSearchInput{Role: "backend engineer"})
	require.NoError(t, err)
	require.Equal(t, 1, out.JobsFound)
	require.Equal(t, 1, out.JobsUpserted)

	// One row persists and the second observation supplies its content.
	job, err := ing.store.GetJobByURL(ctx, "local", url)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, "Senior Backend Engineer", job.Title)
	require.Contains(t, job.Description, "Kafka")
}

func TestIngestorRun_URLLessResultsDropped(t *testing.T) {
	results := append(ingestResults(),
		engine.SearchResult{Title: "Ghost", Content: "posting with no url"})
	ing := newTestIngestor(t, fakeSearch(results, nil), nil)

	out, err := ing.Run(context.Background(), "local", engine.JobSearchInput{Role: "backend engineer"})
	require.NoError(t, err)
	require.Equal(t, 2, out.JobsFound, "a result without a url has no identity and is dropped")
	require.Equal(t, 2, out.JobsUpserted)
}

func TestIngestorRun_ResumeFailureDegrades(t *testing.T) {
	resumes := &fakeResumeSource{err: errors.New("pg down")}
	ing := newTestIngestor(t, fakeSearch(ingestResults(), nil), resumes)

	out, err := ing.Run(context.Background(), "local", engine.JobSearchInput{Role: "backend engineer"})
	require.NoError(t, err, "a broken resume store degrades to unscored, not failure")
	require.Equal(t, 2, out.JobsUpserted)
	for _, j := range out.Jobs {
		require.Zero(t, j.MatchScore)
		require.Empty(t, j.Category, "unscored jobs carry no category")
	}
}

func TestIngestorRun_UnknownSkillsStillIngest(t *testing.T) {
	results := []engine.SearchResult{{
		Title:   "Barista",
		URL:     "https://example.com/jobs/barista",
		Content: "pull espresso shots",
	}}
	ing := newTestIngestor(t, fakeSearch(results, nil), &fakeResumeSource{resume: testResume()})

	out, err := ing.Run(context.Background(), "local", engine.JobSearchInput{Role: "barista"})
	require.NoError(t, err)
	require.Equal(t, 1, out.JobsUpserted)
	require.Zero(t, out.Jobs[0].PreliminaryScore, "no extractable skills means preliminary 0")
}
