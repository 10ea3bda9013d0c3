package jobserver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
	"github.com/anatolykoptev/go_jobmatch/internal/engine/jobs"
)

// stubSimilarity returns a fixed similarity, or an error when err is set.
type stubSimilarity struct {
	value float64
	err   error
}

func (s stubSimilarity) Similarity(context.Context, string, string) (float64, error) {
	return s.value, s.err
}

// useSimilarity swaps the registered similarity scorer for the test.
func useSimilarity(t *testing.T, sim engine.SimilarityScorer) {
	t.Helper()
	prev := jobs.GetSimilarity()
	jobs.SetSimilarity(sim)
	t.Cleanup(func() { jobs.SetSimilarity(prev) })
}

const scoreJobText = `Acme is hiring a Backend Engineer.
Golang and PostgreSQL required. Remote.`

const scoreResumeText = `Built a Golang ingestion service.
Migrated PostgreSQL clusters.`

func TestMatchScore_RequiresURLOrJobText(t *testing.T) {
	_, err := matchScore(context.Background(), engine.MatchScoreInput{})
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Errorf("matchScore() error = %v, want wrapped ErrInvalidInput", err)
	}
}

func TestMatchScore_JobText(t *testing.T) {
	useSimilarity(t, stubSimilarity{value: 0.5})

	out, err := matchScore(context.Background(), engine.MatchScoreInput{
		JobText: scoreJobText,
		Resume:  scoreResumeText,
	})
	if err != nil {
		t.Fatalf("matchScore() error = %v", err)
	}
	if out.Breakdown.SemanticSimilarity != 18 {
		t.Errorf("SemanticSimilarity = %d, want round(35·0.5) = 18", out.Breakdown.SemanticSimilarity)
	}
	if out.Total == 0 {
		t.Error("overlapping skills scored 0")
	}
	if out.Category == "" {
		t.Error("missing category")
	}
}

func TestMatchScore_SimilarityFailureSurfaces(t *testing.T) {
	useSimilarity(t, stubSimilarity{err: fmt.Errorf("similarity: model offline: %w", engine.ErrUpstream)})

	_, err := matchScore(context.Background(), engine.MatchScoreInput{
		JobText: scoreJobText,
		Resume:  scoreResumeText,
	})
	if !errors.Is(err, engine.ErrUpstream) {
		t.Errorf("matchScore() error = %v, want wrapped ErrUpstream", err)
	}
}

func TestTrackApplication_RequiresURL(t *testing.T) {
	_, err := trackApplication(context.Background(), engine.ApplicationTrackInput{})
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Errorf("trackApplication() error = %v, want wrapped ErrInvalidInput", err)
	}
}

func TestUpdateApplication_RequiresID(t *testing.T) {
	_, err := updateApplication(context.Background(), engine.ApplicationUpdateInput{})
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Errorf("updateApplication() error = %v, want wrapped ErrInvalidInput", err)
	}
}
