package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
)

// Extraction/fan-out limits.
const (
	maxResumeQuerySkills = 5  // skills pulled from the resume for the query
	maxResultsPerDomain  = 10 // raw results kept per job-board domain
	defaultUpsertWorkers = 8  // bounded fan-out; respects SQLite's writer
)

// SearchFunc is the search-provider boundary, satisfied by engine.Search.
type SearchFunc func(ctx context.Context, query string, maxResults int, depth string) ([]engine.SearchResult, error)

// Ingestor runs one bounded unit of ingestion work: a single provider
// call fanned out into independent per-record upserts and scores.
type Ingestor struct {
	store   *Store
	resumes ResumeSource // nil = no resume store, scoring skipped
	sim     engine.SimilarityScorer
	search  SearchFunc
	vocab   Vocabulary
	workers int
}

// NewIngestor wires an Ingestor. resumes and sim may be nil.
func NewIngestor(store *Store, resumes ResumeSource, sim engine.SimilarityScorer, search SearchFunc) *Ingestor {
	return &Ingestor{
		store:   store,
		resumes: resumes,
		sim:     sim,
		search:  search,
		vocab:   DefaultVocabulary(),
		workers: defaultUpsertWorkers,
	}
}

// Run executes one search-and-ingest cycle for the owner. Per-record
// upsert failures are counted, not fatal: JobsFound vs JobsUpserted makes
// partial failure visible without aborting the batch. Already-applied
// upserts stay committed if ctx is cancelled mid-batch (at-least-once).
func (ing *Ingestor) Run(ctx context.Context, owner string, in engine.JobSearchInput) (*engine.IngestOutput, error) {
	role := strings.TrimSpace(in.Role)
	if role == "" {
		return nil, fmt.Errorf("ingest: role is required: %w", engine.ErrInvalidInput)
	}
	if owner == "" {
		return nil, fmt.Errorf("ingest: owner is required: %w", engine.ErrInvalidInput)
	}

	resume := ing.loadResume(ctx, owner)

	var querySkills []string
	if resume != nil {
		querySkills = resume.Skills
		if len(querySkills) == 0 && resume.RawText != "" {
			querySkills = ing.vocab.MatchN(resume.RawText, maxResumeQuerySkills)
		}
	}

	params := QueryParams{
		Role:   role,
		Skills: querySkills,
		Days:   in.Days,
	}
	if in.Location != "" {
		params.Locations = []string{in.Location}
	}
	if in.WorkType != "" {
		params.WorkTypes = []string{in.WorkType}
	}

	query, err := BuildQuery(params)
	if err != nil {
		return nil, err
	}

	raw, err := ing.search(ctx, query, 0, "")
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	raw = engine.DedupByDomain(engine.DedupByURL(raw), maxResultsPerDomain)
	if len(raw) == 0 {
		slog.Info("ingest: zero results", slog.String("owner", owner), slog.String("role", role))
		return &engine.IngestOutput{
			Owner:   owner,
			Query:   query,
			Jobs:    []engine.JobRecord{},
			Summary: "No jobs found.",
		}, nil
	}

	pctx := ParseContext{
		Locations: params.Locations,
		WorkType:  in.WorkType,
		Vocab:     ing.vocab,
	}

	parsed := make([]ParsedJob, 0, len(raw))
	for _, r := range raw {
		parsed = append(parsed, ParseResult(r, pctx))
	}
	engine.IncrJobsParsed(len(parsed))

	records := ing.upsertBatch(ctx, owner, parsed, resume)

	var upserted int64
	out := make([]engine.JobRecord, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		upserted++
		out = append(out, *rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})

	result := &engine.IngestOutput{
		Owner:        owner,
		Query:        query,
		JobsFound:    len(parsed),
		JobsUpserted: int(upserted),
		Jobs:         out,
	}
	result.Summary = fmt.Sprintf("Found %d jobs, upserted %d.", result.JobsFound, result.JobsUpserted)
	if result.JobsUpserted < result.JobsFound {
		result.Summary += fmt.Sprintf(" %d failed to persist.", result.JobsFound-result.JobsUpserted)
	}

	slog.Info("ingest complete",
		slog.String("owner", owner),
		slog.Int("found", result.JobsFound),
		slog.Int("upserted", result.JobsUpserted),
	)
	return result, nil
}

// loadResume fetches the primary resume; a resume-store failure degrades
// ingestion to unscored rather than failing the whole search.
func (ing *Ingestor) loadResume(ctx context.Context, owner string) *Resume {
	if ing.resumes == nil {
		return nil
	}
	resume, err := ing.resumes.GetPrimaryResume(ctx, owner)
	if err != nil {
		slog.Warn("ingest: resume unavailable, skipping scoring",
			slog.String("owner", owner), slog.Any("error", err))
		return nil
	}
	return resume
}

// upsertBatch fans parsed records out into independent upserts with
// bounded concurrency. The slice is positional: records[i] is nil when
// parsed[i] failed to persist. There is no transaction across records.
func (ing *Ingestor) upsertBatch(ctx context.Context, owner string, parsed []ParsedJob, resume *Resume) []*engine.JobRecord {
	records := make([]*engine.JobRecord, len(parsed))
	sem := make(chan struct{}, ing.workers)
	var wg sync.WaitGroup
	var failures atomic.Int64

	for i := range parsed {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rec, err := ing.upsertOne(ctx, owner, &parsed[i], resume)
			if err != nil {
				engine.IncrUpsertErrors()
				failures.Add(1)
				slog.Warn("ingest: upsert failed",
					slog.String("url", parsed[i].URL), slog.Any("error", err))
				return
			}
			records[i] = rec
		}(i)
	}
	wg.Wait()

	if n := failures.Load(); n > 0 {
		slog.Warn("ingest: partial failure", slog.Int64("failed", n), slog.Int("total", len(parsed)))
	}
	return records
}

// upsertOne persists a single parsed record and, when a resume is
// available, its preliminary and full scores.
func (ing *Ingestor) upsertOne(ctx context.Context, owner string, p *ParsedJob, resume *Resume) (*engine.JobRecord, error) {
	job := p.ToJob(owner)
	if resume != nil {
		job.PreliminaryScore = PreliminaryScore(p.RequiredSkills, resume.Skills)
	}

	if _, _, err := ing.store.UpsertJob(ctx, job); err != nil {
		return nil, err
	}
	engine.IncrJobsUpserted()

	rec := jobRecord(job)

	if resume != nil {
		match, simErr := Score(ctx, resume, job, ing.sim)
		if simErr != nil {
			// Deterministic components still persist; the semantic band
			// stays zero until a rescore.
			slog.Warn("ingest: similarity unavailable, semantic component zeroed",
				slog.Int64("job_id", job.ID), slog.Any("error", simErr))
		}
		if err := ing.store.UpsertMatch(ctx, &match); err != nil {
			// The job row is already committed; a lost score is re-derivable.
			slog.Warn("ingest: match upsert failed",
				slog.Int64("job_id", job.ID), slog.Any("error", err))
		}
		applyMatch(rec, &match)
	}
	return rec, nil
}

// jobRecord converts a stored job into the flat tool-facing shape.
func jobRecord(job *Job) *engine.JobRecord {
	return &engine.JobRecord{
		Title:            job.Title,
		Company:          job.Company,
		URL:              job.URL,
		Location:         job.Location,
		RemoteType:       job.RemoteType,
		RequiredSkills:   job.RequiredSkills,
		VisaSponsorship:  job.VisaSponsorship,
		ATSType:          job.ATSType,
		Source:           job.Source,
		ExternalID:       job.ExternalID,
		Description:      engine.TruncateRunes(job.DescriptionClean, 600, "..."),
		PreliminaryScore: job.PreliminaryScore,
	}
}

func applyMatch(rec *engine.JobRecord, m *Match) {
	rec.MatchScore = m.Total
	rec.Category = Categorize(m.Total)
	rec.Breakdown = m.Breakdown
	rec.MatchingSkills = m.MatchingSkills
	rec.MissingSkills = m.MissingSkills
	rec.WhyMatch = m.WhyMatch
	rec.RiskFlags = m.RiskFlags
}
