package jobs

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
)

// DefaultRecencyDays is the posting-recency window when the caller gives none.
const DefaultRecencyDays = 7

// maxQuerySkills caps how many skill terms bias the query. More than a few
// over-constrains the provider and starves recall.
const maxQuerySkills = 3

// QueryParams are the inputs for BuildQuery.
type QueryParams struct {
	Role      string   // required
	Skills    []string // extracted resume skills, best first
	Locations []string // quoted as phrases
	WorkTypes []string // e.g. "remote", "hybrid"
	Days      int      // recency window, default DefaultRecencyDays
}

// BuildQuery composes a single provider query string from user intent and
// resume signal. The provider exposes no structured filters for these
// fields, so they are pushed into free-text phrasing; over-broad results
// are expected and sorted out by the parser downstream.
func BuildQuery(p QueryParams) (string, error) {
	role := strings.TrimSpace(p.Role)
	if role == "" {
		return "", fmt.Errorf("query: role is required: %w", engine.ErrInvalidInput)
	}

	days := p.Days
	if days <= 0 {
		days = DefaultRecencyDays
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%q", role))

	sites := make([]string, len(jobBoardSites))
	for i, s := range jobBoardSites {
		sites[i] = "site:" + s
	}
	parts = append(parts, "("+strings.Join(sites, " OR ")+")")

	skills := p.Skills
	if len(skills) > maxQuerySkills {
		skills = skills[:maxQuerySkills]
	}
	if len(skills) > 0 {
		terms := make([]string, len(skills))
		for i, s := range skills {
			// Multi-word skills must stay one phrase or the provider
			// splits them into loose tokens.
			if strings.ContainsRune(s, ' ') {
				terms[i] = fmt.Sprintf("%q", s)
			} else {
				terms[i] = s
			}
		}
		parts = append(parts, "("+strings.Join(terms, " OR ")+")")
	}

	if len(p.Locations) > 0 {
		quoted := make([]string, 0, len(p.Locations))
		for _, loc := range p.Locations {
			if loc = strings.TrimSpace(loc); loc != "" {
				quoted = append(quoted, fmt.Sprintf("%q", loc))
			}
		}
		if len(quoted) > 0 {
			parts = append(parts, "("+strings.Join(quoted, " OR ")+")")
		}
	}

	if len(p.WorkTypes) > 0 {
		wt := make([]string, 0, len(p.WorkTypes))
		for _, w := range p.WorkTypes {
			if w = strings.TrimSpace(w); w != "" {
				wt = append(wt, w)
			}
		}
		if len(wt) > 0 {
			parts = append(parts, "("+strings.Join(wt, " OR ")+")")
		}
	}

	// Providers phrase posting age inconsistently, so cover the window and
	// the window minus one day.
	parts = append(parts, fmt.Sprintf("(%q OR %q)", recencyPhrase(days), recencyPhrase(days-1)))

	return strings.Join(parts, " "), nil
}

func recencyPhrase(days int) string {
	switch days {
	case 0:
		return "posted today"
	case 1:
		return "posted 1 day ago"
	}
	return fmt.Sprintf("posted %d days ago", days)
}
