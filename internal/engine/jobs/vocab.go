// Package jobs implements the job ingestion and matching core: query
// building, result parsing, idempotent upsert, and match scoring.
package jobs

import "strings"

// Vocabulary identifies domain-relevant skill terms in free text.
// The default implementation is a fixed keyword list; the interface exists
// so an ontology- or embedding-based matcher can replace it without
// touching callers.
type Vocabulary interface {
	// Match returns every vocabulary skill found in text, in vocabulary
	// order. Matching is case-insensitive substring containment; no
	// stemming, no fuzzing.
	Match(text string) []string
	// MatchN returns at most n matches, same order and rules.
	MatchN(text string, n int) []string
}

// skillVocabulary is the single shared skill list. Both resume skill
// extraction and job skill extraction read from it, so the two sides of a
// match always speak the same vocabulary.
var skillVocabulary = []string{
	// Languages. Bare "Go" and bare "SQL" are deliberately absent: as
	// substrings they match half the English language and every
	// PostgreSQL/MySQL mention respectively.
	"Python", "Golang", "Java", "TypeScript", "JavaScript", "Rust",
	"C++", "C#", "Ruby", "Kotlin", "Swift", "Scala", "PHP",
	// Frameworks and runtimes
	"React", "Next.js", "Vue", "Angular", "Node.js", "Django", "Flask",
	"FastAPI", "Spring", "Rails", ".NET", "GraphQL", "gRPC",
	// Data and ML
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Kafka",
	"Spark", "Airflow", "TensorFlow", "PyTorch", "Pandas", "NumPy",
	"Machine Learning", "Deep Learning", "NLP", "LLM",
	// Cloud and infra
	"AWS", "GCP", "Azure", "Kubernetes", "Docker", "Terraform", "Ansible",
	"CI/CD", "Linux", "Serverless", "Microservices",
	// Methodology
	"Agile", "Scrum", "TDD", "DevOps", "REST",
}

// wordVocabulary is the default Vocabulary over skillVocabulary.
type wordVocabulary struct {
	skills []string
}

// DefaultVocabulary returns the shared fixed-list vocabulary.
func DefaultVocabulary() Vocabulary {
	return &wordVocabulary{skills: skillVocabulary}
}

func (v *wordVocabulary) Match(text string) []string {
	return v.MatchN(text, len(v.skills))
}

func (v *wordVocabulary) MatchN(text string, n int) []string {
	if n <= 0 || text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range v.skills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
			if len(found) >= n {
				break
			}
		}
	}
	return found
}

// atsVendors maps hostname suffixes to ATS vendor names. Order matters:
// more specific suffixes come first. Default for unmatched hosts is
// "custom".
var atsVendors = []struct {
	hostSuffix string
	vendor     string
}{
	{"boards.greenhouse.io", "greenhouse"},
	{"greenhouse.io", "greenhouse"},
	{"jobs.lever.co", "lever"},
	{"lever.co", "lever"},
	{"jobs.ashbyhq.com", "ashby"},
	{"ashbyhq.com", "ashby"},
	{"myworkdayjobs.com", "workday"},
	{"jobs.smartrecruiters.com", "smartrecruiters"},
	{"smartrecruiters.com", "smartrecruiters"},
	{"bamboohr.com", "bamboohr"},
	{"icims.com", "icims"},
	{"jobs.workable.com", "workable"},
	{"workable.com", "workable"},
	{"wellfound.com", "wellfound"},
	{"linkedin.com", "linkedin"},
	{"indeed.com", "indeed"},
}

// jobBoardSites is the fixed allow-list of job-board domains the query
// builder restricts searches to.
var jobBoardSites = []string{
	"boards.greenhouse.io",
	"jobs.lever.co",
	"jobs.ashbyhq.com",
	"linkedin.com/jobs",
	"indeed.com",
	"wellfound.com",
	"jobs.smartrecruiters.com",
}

// visaPhrases signal that a posting offers sponsorship. Absence of a
// mention is not evidence of refusal, so the parser never asserts "no".
var visaPhrases = []string{
	"visa sponsorship",
	"sponsor visa",
	"sponsorship available",
	"h1b",
	"h-1b",
}
