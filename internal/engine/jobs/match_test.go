package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
)

// stubSimilarity returns a fixed similarity, or an error when err is set.
type stubSimilarity struct {
	value float64
	err   error
}

func (s stubSimilarity) Similarity(context.Context, string, string) (float64, error) {
	return s.value, s.err
}

func testResume() *Resume {
	return &Resume{
		Skills:  []string{"Golang", "PostgreSQL", "Kubernetes"},
		Bullets: []string{"Built a Golang ingestion service", "Migrated PostgreSQL clusters"},
		Projects: []Project{
			{Name: "pipeline", Technologies: []string{"Golang", "Kafka"}},
			{Name: "dashboards", Technologies: []string{"React"}},
		},
	}
}

func testJob() *Job {
	return &Job{
		ID:              42,
		Owner:           "local",
		Title:           "Backend Engineer",
		Company:         "Acme",
		RequiredSkills:  []string{"Golang", "PostgreSQL", "Kafka", "AWS"},
		Description:     "Backend role building data pipelines.",
		VisaSponsorship: VisaUnknown,
	}
}

func TestPreliminaryScore(t *testing.T) {
	tests := []struct {
		name   string
		job    []string
		resume []string
		want   int
	}{
		{"half overlap", []string{"Golang", "Kafka"}, []string{"Golang"}, 50},
		{"full overlap", []string{"Golang"}, []string{"Golang", "Rust"}, 100},
		{"no overlap", []string{"Rust"}, []string{"Golang"}, 0},
		{"empty job skills", nil, []string{"Golang"}, 0},
		{"empty resume skills", []string{"Golang"}, nil, 0},
		{"go alias", []string{"Go"}, []string{"Golang"}, 100},
		{"rounding", []string{"a", "b", "c"}, []string{"a"}, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreliminaryScore(tt.job, tt.resume); got != tt.want {
				t.Errorf("PreliminaryScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore_EmptyResumeIsZero(t *testing.T) {
	for _, r := range []*Resume{nil, {}} {
		m, err := Score(context.Background(), r, testJob(), stubSimilarity{value: 1})
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		if m.Total != 0 {
			t.Errorf("empty resume scored %d, want 0", m.Total)
		}
		if m.Breakdown != (engine.ScoreBreakdown{}) {
			t.Errorf("empty resume produced breakdown %+v", m.Breakdown)
		}
	}
}

func TestScore_Composition(t *testing.T) {
	ctx := context.Background()
	m, err := Score(ctx, testResume(), testJob(), stubSimilarity{value: 1})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	// 2 of 4 required skills → round(35·0.5) = 18.
	if m.Breakdown.SkillOverlap != 18 {
		t.Errorf("SkillOverlap = %d, want 18", m.Breakdown.SkillOverlap)
	}
	if m.Breakdown.SemanticSimilarity != 35 {
		t.Errorf("SemanticSimilarity = %d, want 35", m.Breakdown.SemanticSimilarity)
	}
	// 1 of 3 relevant projects → round(20/3) = 7.
	if m.Breakdown.ProjectRelevance != 7 {
		t.Errorf("ProjectRelevance = %d, want 7", m.Breakdown.ProjectRelevance)
	}
	if m.Breakdown.RiskPenalty != 0 {
		t.Errorf("RiskPenalty = %d, want 0", m.Breakdown.RiskPenalty)
	}
	if m.Total != 60 {
		t.Errorf("Total = %d, want 60", m.Total)
	}
	if len(m.MatchingSkills) != 2 || len(m.MissingSkills) != 2 {
		t.Errorf("matching/missing = %v / %v", m.MatchingSkills, m.MissingSkills)
	}
	if m.WhyMatch == "" {
		t.Error("expected non-empty why_match")
	}
}

func TestScore_SimilarityFailureReportedAndZeroed(t *testing.T) {
	simErr := fmt.Errorf("similarity: model offline: %w", engine.ErrUpstream)
	m, err := Score(context.Background(), testResume(), testJob(), stubSimilarity{err: simErr})
	if !errors.Is(err, engine.ErrUpstream) {
		t.Errorf("Score() error = %v, want wrapped ErrUpstream", err)
	}
	if m.Breakdown.SemanticSimilarity != 0 {
		t.Errorf("SemanticSimilarity = %d, want 0 on capability failure", m.Breakdown.SemanticSimilarity)
	}
	// Deterministic components survive alongside the error.
	if m.Breakdown.SkillOverlap == 0 {
		t.Error("SkillOverlap zeroed by unrelated failure")
	}
	if m.Total == 0 {
		t.Error("Total zeroed by unrelated failure")
	}
}

func TestScore_NilSimilarityIsNotAnError(t *testing.T) {
	m, err := Score(context.Background(), testResume(), testJob(), nil)
	if err != nil {
		t.Fatalf("Score() error = %v, want nil for absent capability", err)
	}
	if m.Breakdown.SemanticSimilarity != 0 {
		t.Errorf("SemanticSimilarity = %d, want 0 without a scorer", m.Breakdown.SemanticSimilarity)
	}
}

func TestScore_SimilarityOutOfRangeClamped(t *testing.T) {
	m, _ := Score(context.Background(), testResume(), testJob(), stubSimilarity{value: 3.5})
	if m.Breakdown.SemanticSimilarity != 35 {
		t.Errorf("SemanticSimilarity = %d, want clamped 35", m.Breakdown.SemanticSimilarity)
	}
	m, _ = Score(context.Background(), testResume(), testJob(), stubSimilarity{value: -1})
	if m.Breakdown.SemanticSimilarity != 0 {
		t.Errorf("SemanticSimilarity = %d, want clamped 0", m.Breakdown.SemanticSimilarity)
	}
}

func TestScore_RiskPenalty(t *testing.T) {
	resume := testResume()
	resume.RequiresSponsorship = true
	resume.ExcludeKeywords = []string{"crypto", "gambling", "adtech", "on-call"}

	job := testJob()
	job.VisaSponsorship = VisaNo
	job.Description = "crypto gambling adtech on-call rotation"

	m, _ := Score(context.Background(), resume, job, stubSimilarity{value: 0})
	// 5 (visa) + 4·3 (keywords) = 17, capped at 10.
	if m.Breakdown.RiskPenalty != 10 {
		t.Errorf("RiskPenalty = %d, want capped 10", m.Breakdown.RiskPenalty)
	}
	if len(m.RiskFlags) != 5 {
		t.Errorf("RiskFlags = %v, want 5 flags", m.RiskFlags)
	}
}

func TestScore_TotalClampedAtZero(t *testing.T) {
	resume := &Resume{
		Skills:          []string{"Cobol"},
		Bullets:         []string{"Maintained mainframes"},
		ExcludeKeywords: []string{"pipelines"},
	}
	job := testJob()
	m, _ := Score(context.Background(), resume, job, stubSimilarity{value: 0})
	if m.Total < 0 {
		t.Errorf("Total = %d, must never be negative", m.Total)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{100, CategoryTopPick},
		{80, CategoryTopPick},
		{79, CategoryGoodMatch},
		{60, CategoryGoodMatch},
		{59, CategorySlightMatch},
		{0, CategorySlightMatch},
	}
	for _, tt := range tests {
		if got := Categorize(tt.total); got != tt.want {
			t.Errorf("Categorize(%d) = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestMatchingBullets(t *testing.T) {
	bullets := []string{
		"Built a Golang ingestion service",
		"Led a team of five",
		"Migrated PostgreSQL clusters",
	}
	got := matchingBullets(bullets, []string{"Golang", "PostgreSQL"})
	if len(got) != 2 {
		t.Fatalf("matchingBullets() = %v, want 2 bullets", got)
	}
	if got[0] != bullets[0] || got[1] != bullets[2] {
		t.Errorf("bullets out of resume order: %v", got)
	}
}
