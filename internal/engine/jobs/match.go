package jobs

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
)

// Score bands. Positive components sum to 90 at most before the semantic
// band; the total is clamped to [0,100] after subtracting risk.
const (
	maxSkillOverlapPoints     = 35
	maxSemanticPoints         = 35
	maxProjectRelevancePoints = 20
	maxRiskPenaltyPoints      = 10

	// fullProjectRelevanceCount is how many relevant projects earn the
	// full 20-point band.
	fullProjectRelevanceCount = 3

	riskVisaPenalty    = 5
	riskKeywordPenalty = 3
)

// Categorization tiers, derived from the total at read time and never
// persisted, so threshold changes need no data migration.
const (
	CategoryTopPick     = "top_pick"
	CategoryGoodMatch   = "good_match"
	CategorySlightMatch = "slight_match"

	topPickThreshold   = 80
	goodMatchThreshold = 60
)

// Project is one resume project with its stated technologies.
type Project struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// Resume is the owner's primary resume as consumed by the scorer.
type Resume struct {
	Skills              []string  `json:"skills"`
	Bullets             []string  `json:"bullets"`
	Projects            []Project `json:"projects"`
	RawText             string    `json:"raw_text"`
	RequiresSponsorship bool      `json:"requires_sponsorship"`
	ExcludeKeywords     []string  `json:"exclude_keywords,omitempty"`
}

// Empty reports whether the resume carries no scoreable signal.
func (r *Resume) Empty() bool {
	return r == nil || (len(r.Skills) == 0 && len(r.Bullets) == 0 && len(r.Projects) == 0)
}

// Narrative joins bullets and project descriptions into the free-text side
// of the semantic comparison.
func (r *Resume) Narrative() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range r.Bullets {
		sb.WriteString(b)
		sb.WriteString("\n")
	}
	for _, p := range r.Projects {
		sb.WriteString(p.Name)
		if p.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(p.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Match is the authoritative scored relationship between one job and the
// owner's resume at scoring time. At most one exists per (owner, job).
type Match struct {
	Owner               string
	JobID               int64
	Total               int
	Breakdown           engine.ScoreBreakdown
	MatchingSkills      []string
	MissingSkills       []string
	MatchingBullets     []string
	RecommendedProjects []string
	WhyMatch            string
	RiskFlags           []string
}

// PreliminaryScore is the ingestion-time skill-overlap estimate:
// round(100·|job∩resume|/|job|), 0 when either side is empty. It exists
// for immediate feedback and is replaced, not merged, by the full score.
func PreliminaryScore(jobSkills, resumeSkills []string) int {
	if len(jobSkills) == 0 || len(resumeSkills) == 0 {
		return 0
	}
	have := skillSet(resumeSkills)
	inter := 0
	for _, s := range jobSkills {
		if have[normSkill(s)] {
			inter++
		}
	}
	score := int(math.Round(100 * float64(inter) / float64(len(jobSkills))))
	return clamp(score, 0, 100)
}

// Score computes the full match between a resume and a job. A nil or empty
// resume yields an all-zero match, never an error. When the similarity
// capability fails, the returned match is still complete with a zero
// semantic component and the error reports the failure; the caller decides
// whether to degrade or surface it. Everything else is deterministic.
func Score(ctx context.Context, resume *Resume, job *Job, sim engine.SimilarityScorer) (Match, error) {
	m := Match{Owner: job.Owner, JobID: job.ID}
	if resume.Empty() {
		return m, nil
	}

	m.Breakdown.SkillOverlap, m.MatchingSkills, m.MissingSkills = scoreSkillOverlap(resume.Skills, job.RequiredSkills)
	sem, simErr := scoreSemantic(ctx, resume, job, sim)
	m.Breakdown.SemanticSimilarity = sem
	m.Breakdown.ProjectRelevance, m.RecommendedProjects = scoreProjects(resume.Projects, job.RequiredSkills)
	m.Breakdown.RiskPenalty, m.RiskFlags = scoreRisk(resume, job)

	m.MatchingBullets = matchingBullets(resume.Bullets, m.MatchingSkills)
	m.Total = clamp(
		m.Breakdown.SkillOverlap+m.Breakdown.SemanticSimilarity+m.Breakdown.ProjectRelevance-m.Breakdown.RiskPenalty,
		0, 100,
	)
	m.WhyMatch = whyMatch(&m, job)
	return m, simErr
}

// scoreSkillOverlap scales the proportion of required skills the resume
// covers into the 35-point band.
func scoreSkillOverlap(resumeSkills, jobSkills []string) (points int, matching, missing []string) {
	if len(jobSkills) == 0 {
		return 0, nil, nil
	}
	have := skillSet(resumeSkills)
	for _, s := range jobSkills {
		if have[normSkill(s)] {
			matching = append(matching, s)
		} else {
			missing = append(missing, s)
		}
	}
	points = int(math.Round(maxSkillOverlapPoints * float64(len(matching)) / float64(len(jobSkills))))
	return points, matching, missing
}

// scoreSemantic delegates to the black-box similarity capability and
// scales its 0–1 answer into the 35-point band. An unconfigured capability
// or empty text is worth zero; a capability failure is reported.
func scoreSemantic(ctx context.Context, resume *Resume, job *Job, sim engine.SimilarityScorer) (int, error) {
	if sim == nil {
		return 0, nil
	}
	narrative := resume.Narrative()
	desc := job.DescriptionClean
	if desc == "" {
		desc = job.Description
	}
	if narrative == "" || desc == "" {
		return 0, nil
	}
	similarity, err := sim.Similarity(ctx, narrative, desc)
	if err != nil {
		return 0, fmt.Errorf("match: %w", err)
	}
	if similarity < 0 {
		similarity = 0
	}
	if similarity > 1 {
		similarity = 1
	}
	return int(math.Round(maxSemanticPoints * similarity)), nil
}

// scoreProjects scales the count of projects whose technologies intersect
// the job's required skills into the 20-point band; three or more relevant
// projects earn the full band.
func scoreProjects(projects []Project, jobSkills []string) (points int, recommended []string) {
	if len(projects) == 0 || len(jobSkills) == 0 {
		return 0, nil
	}
	want := skillSet(jobSkills)
	relevant := 0
	for _, p := range projects {
		for _, tech := range p.Technologies {
			if want[normSkill(tech)] {
				relevant++
				recommended = append(recommended, p.Name)
				break
			}
		}
	}
	if relevant > fullProjectRelevanceCount {
		relevant = fullProjectRelevanceCount
	}
	points = int(math.Round(maxProjectRelevancePoints * float64(relevant) / float64(fullProjectRelevanceCount)))
	return points, recommended
}

// scoreRisk accumulates fixed risk signals, capped at the 10-point band.
func scoreRisk(resume *Resume, job *Job) (penalty int, flags []string) {
	if resume.RequiresSponsorship && job.VisaSponsorship == VisaNo {
		penalty += riskVisaPenalty
		flags = append(flags, "no visa sponsorship")
	}
	desc := strings.ToLower(job.Description)
	for _, kw := range resume.ExcludeKeywords {
		kw = strings.TrimSpace(kw)
		if kw != "" && strings.Contains(desc, strings.ToLower(kw)) {
			penalty += riskKeywordPenalty
			flags = append(flags, fmt.Sprintf("exclude keyword %q", kw))
		}
	}
	if penalty > maxRiskPenaltyPoints {
		penalty = maxRiskPenaltyPoints
	}
	return penalty, flags
}

// matchingBullets returns up to five resume bullets that mention a
// matching skill, in resume order.
func matchingBullets(bullets, matchingSkills []string) []string {
	if len(bullets) == 0 || len(matchingSkills) == 0 {
		return nil
	}
	var out []string
	for _, b := range bullets {
		lower := strings.ToLower(b)
		for _, s := range matchingSkills {
			if strings.Contains(lower, strings.ToLower(s)) {
				out = append(out, b)
				break
			}
		}
		if len(out) >= 5 {
			break
		}
	}
	return out
}

func whyMatch(m *Match, job *Job) string {
	if m.Total == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d/100 for %s at %s.", m.Total, job.Title, job.Company)
	if len(m.MatchingSkills) > 0 {
		fmt.Fprintf(&sb, " Covers %d of %d required skills (%s).",
			len(m.MatchingSkills), len(m.MatchingSkills)+len(m.MissingSkills),
			strings.Join(m.MatchingSkills, ", "))
	}
	if len(m.RecommendedProjects) > 0 {
		fmt.Fprintf(&sb, " Relevant projects: %s.", strings.Join(m.RecommendedProjects, ", "))
	}
	if len(m.RiskFlags) > 0 {
		fmt.Fprintf(&sb, " Risks: %s.", strings.Join(m.RiskFlags, "; "))
	}
	return sb.String()
}

// Categorize buckets a total score into a display tier.
func Categorize(total int) string {
	switch {
	case total >= topPickThreshold:
		return CategoryTopPick
	case total >= goodMatchThreshold:
		return CategoryGoodMatch
	default:
		return CategorySlightMatch
	}
}

func skillSet(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		set[normSkill(s)] = true
	}
	return set
}

// normSkill folds case and the Go/Golang alias so the two vocabularies
// agree on identity.
func normSkill(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "go" {
		s = "golang"
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
