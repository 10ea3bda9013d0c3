package engine

// SearchResult is one raw document from the search provider.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// --- job_search (ingest and score) types ---

// JobSearchInput is the input for the job_search tool.
type JobSearchInput struct {
	Owner     string `json:"owner,omitempty" jsonschema:"Profile id owning the ingested jobs (default: local)"`
	Role      string `json:"role" jsonschema:"Target role keywords (e.g. golang developer, data engineer). Required."`
	Location  string `json:"location,omitempty" jsonschema:"City or country to bias the search (e.g. Berlin, United States)"`
	WorkType  string `json:"work_type,omitempty" jsonschema:"Work type: onsite, hybrid, remote"`
	Days      int    `json:"days,omitempty" jsonschema:"Recency window in days (default: 7)"`
}

// ScoreBreakdown is the four-part decomposition of a match score.
type ScoreBreakdown struct {
	SkillOverlap       int `json:"skill_overlap"`        // 0–35
	SemanticSimilarity int `json:"semantic_similarity"`  // 0–35
	ProjectRelevance   int `json:"project_relevance"`    // 0–20
	RiskPenalty        int `json:"risk_penalty"`         // 0–10, subtracted
}

// JobRecord is the flat tool-facing view of an ingested job and its score.
type JobRecord struct {
	Title            string         `json:"title"`
	Company          string         `json:"company"`
	URL              string         `json:"url"`
	Location         string         `json:"location"`
	RemoteType       string         `json:"remote_type"`
	RequiredSkills   []string       `json:"required_skills"`
	VisaSponsorship  string         `json:"visa_sponsorship"`
	ATSType          string         `json:"ats_type"`
	Source           string         `json:"source,omitempty"`
	ExternalID       string         `json:"external_id,omitempty"`
	Description      string         `json:"description,omitempty"`
	PreliminaryScore int            `json:"preliminary_score"`
	MatchScore       int            `json:"match_score"`
	Category         string         `json:"category"`
	Breakdown        ScoreBreakdown `json:"breakdown"`
	MatchingSkills   []string       `json:"matching_skills,omitempty"`
	MissingSkills    []string       `json:"missing_skills,omitempty"`
	WhyMatch         string         `json:"why_match,omitempty"`
	RiskFlags        []string       `json:"risk_flags,omitempty"`
}

// IngestOutput is the structured output for job_search.
// JobsFound and JobsUpserted differ when some per-record upserts failed;
// the gap is the partial-failure signal.
type IngestOutput struct {
	Owner        string      `json:"owner"`
	Query        string      `json:"query"`
	JobsFound    int         `json:"jobs_found"`
	JobsUpserted int         `json:"jobs_upserted"`
	Jobs         []JobRecord `json:"jobs"`
	Summary      string      `json:"summary"`
}

// --- match_score types ---

// MatchScoreInput is the input for the match_score tool. Either URL
// (an already ingested job) or JobText (pasted posting) is required.
type MatchScoreInput struct {
	Owner   string `json:"owner,omitempty" jsonschema:"Profile id (default: local)"`
	URL     string `json:"url,omitempty" jsonschema:"URL of an already ingested job to rescore"`
	JobText string `json:"job_text,omitempty" jsonschema:"Raw job posting text to score instead of an ingested job"`
	Resume  string `json:"resume,omitempty" jsonschema:"Resume text override; default is the stored primary resume"`
}

// MatchScoreOutput is the structured output for match_score.
type MatchScoreOutput struct {
	Owner               string         `json:"owner"`
	URL                 string         `json:"url,omitempty"`
	Total               int            `json:"match_score"`
	Category            string         `json:"category"`
	Breakdown           ScoreBreakdown `json:"breakdown"`
	MatchingSkills      []string       `json:"matching_skills,omitempty"`
	MissingSkills       []string       `json:"missing_skills,omitempty"`
	MatchingBullets     []string       `json:"matching_bullets,omitempty"`
	RecommendedProjects []string       `json:"recommended_projects,omitempty"`
	WhyMatch            string         `json:"why_match,omitempty"`
	RiskFlags           []string       `json:"risk_flags,omitempty"`
}

// --- application tracker types ---

// ApplicationTrackInput is the input for application_track.
type ApplicationTrackInput struct {
	Owner  string `json:"owner,omitempty" jsonschema:"Profile id (default: local)"`
	URL    string `json:"url" jsonschema:"URL of an ingested job to track. Required."`
	Status string `json:"status,omitempty" jsonschema:"Pipeline status: saved, applied, interview, offer, rejected (default: saved)"`
	Notes  string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

// ApplicationListInput is the input for application_list.
type ApplicationListInput struct {
	Owner  string `json:"owner,omitempty" jsonschema:"Profile id (default: local)"`
	Status string `json:"status,omitempty" jsonschema:"Filter by pipeline status"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max rows (default 50)"`
}

// ApplicationUpdateInput is the input for application_update.
type ApplicationUpdateInput struct {
	Owner  string `json:"owner,omitempty" jsonschema:"Profile id (default: local)"`
	ID     int64  `json:"id" jsonschema:"Application id. Required."`
	Status string `json:"status,omitempty" jsonschema:"New pipeline status"`
	Notes  string `json:"notes,omitempty" jsonschema:"Replacement notes"`
}
