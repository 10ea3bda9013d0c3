package jobs

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
)

// Remote types produced by the parser. "unknown" exists in the data model
// for records coming from elsewhere, but this parser always commits to one
// of the three: onsite is the default and a known approximation.
const (
	RemoteTypeRemote  = "remote"
	RemoteTypeHybrid  = "hybrid"
	RemoteTypeOnsite  = "onsite"
	RemoteTypeUnknown = "unknown"
)

// Visa sponsorship signals. The parser asserts "yes" on an explicit
// mention and "unknown" otherwise — never "no", since absence of a mention
// is not evidence of refusal.
const (
	VisaYes     = "yes"
	VisaNo      = "no"
	VisaUnknown = "unknown"
)

// UnknownCompany is the company fallback when no heuristic fires.
const UnknownCompany = "Unknown Company"

// ATSCustom is the ats_type for hosts not in the vendor table.
const ATSCustom = "custom"

// ParseContext carries the requested filters so the parser can prefer the
// user's own terms when the content is ambiguous.
type ParseContext struct {
	Locations []string // requested location terms, most specific first
	WorkType  string   // requested work type, e.g. "remote"
	Vocab     Vocabulary
}

// ParsedJob is a structured job record extracted from one raw result.
type ParsedJob struct {
	Title            string
	Company          string
	URL              string
	Location         string
	RemoteType       string
	Description      string // raw content
	DescriptionClean string
	RequiredSkills   []string
	VisaSponsorship  string
	ATSType          string
	ExternalID       string
}

// ToJob converts a parsed record into a Job owned by owner.
func (p *ParsedJob) ToJob(owner string) *Job {
	return &Job{
		Owner:            owner,
		URL:              p.URL,
		Title:            p.Title,
		Company:          p.Company,
		Location:         p.Location,
		RemoteType:       p.RemoteType,
		Description:      p.Description,
		DescriptionClean: p.DescriptionClean,
		RequiredSkills:   p.RequiredSkills,
		VisaSponsorship:  p.VisaSponsorship,
		ATSType:          p.ATSType,
		Source:           p.ATSType,
		ExternalID:       p.ExternalID,
	}
}

var (
	// greenhouseIDRe pulls the numeric posting id from greenhouse URLs.
	greenhouseIDRe = regexp.MustCompile(`/jobs/(\d+)`)

	// companyHiringRe matches "Acme Corp is hiring ..." openings.
	companyHiringRe = regexp.MustCompile(`([A-Z][A-Za-z0-9&.']*(?:[ -][A-Z][A-Za-z0-9&.']*){0,3}) is hiring`)

	// companyAtRe matches "... at Acme Corp is/seeks ..." phrasings.
	companyAtRe = regexp.MustCompile(`\bat ([A-Z][A-Za-z0-9&.']*(?:[ -][A-Z][A-Za-z0-9&.']*){0,3}) (?:is|seeks)\b`)

	// locatedInRe matches generic "located in Berlin" phrasings.
	locatedInRe = regexp.MustCompile(`(?i)located in ([A-Za-z][A-Za-z .'-]{1,40}?)(?:[.,;\n]|$)`)

	// cityStateRe matches US-style "Austin, TX" mentions.
	cityStateRe = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)?, [A-Z]{2})\b`)
)

// ParseResult converts one raw search result into a structured job record.
// Every field extractor degrades to a safe default; malformed input lowers
// confidence but never fails.
func ParseResult(raw engine.SearchResult, pctx ParseContext) ParsedJob {
	vocab := pctx.Vocab
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	content := raw.Content
	if max := engine.Cfg.MaxContentChars; max > 0 {
		content = engine.TruncateRunes(content, max, "")
	}

	host, path := splitURL(raw.URL)
	clean := engine.CleanDescription(content)

	job := ParsedJob{
		Title:            strings.TrimSpace(raw.Title),
		URL:              raw.URL,
		Description:      content,
		DescriptionClean: clean,
		Company:          extractCompany(host, path, content),
		Location:         extractLocation(content, pctx.Locations),
		RemoteType:       extractRemoteType(content, pctx.WorkType),
		RequiredSkills:   vocab.Match(content),
		VisaSponsorship:  extractVisa(content),
		ATSType:          extractATSType(host),
		ExternalID:       extractExternalID(host, path),
	}
	if job.Title == "" {
		job.Title = "Untitled posting"
	}
	return job
}

// splitURL returns lowercase hostname and path; both empty on garbage.
func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", ""
	}
	return strings.ToLower(u.Hostname()), u.Path
}

// extractCompany infers the company name: ATS URL structure first, then
// content patterns, then UnknownCompany.
func extractCompany(host, path, content string) string {
	if name := companyFromATSURL(host, path); name != "" {
		return name
	}
	if m := companyHiringRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := companyAtRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return UnknownCompany
}

// companyFromATSURL maps known ATS URL shapes to a company name.
// Greenhouse/Lever/Ashby/SmartRecruiters embed a company slug in the first
// path segment; Workday and BambooHR use a vendor subdomain.
func companyFromATSURL(host, path string) string {
	switch {
	case strings.HasSuffix(host, "greenhouse.io"),
		strings.HasSuffix(host, "lever.co"),
		strings.HasSuffix(host, "ashbyhq.com"),
		strings.HasSuffix(host, "smartrecruiters.com"):
		return humanizeSlug(firstPathSegment(path))
	case strings.HasSuffix(host, "myworkdayjobs.com"),
		strings.HasSuffix(host, "bamboohr.com"),
		strings.HasSuffix(host, "icims.com"):
		sub, _, ok := strings.Cut(host, ".")
		if !ok {
			return ""
		}
		// icims uses careers-<company> subdomains.
		sub = strings.TrimPrefix(sub, "careers-")
		return humanizeSlug(sub)
	}
	return ""
}

func firstPathSegment(path string) string {
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

// humanizeSlug turns "acme-robotics" into "Acme Robotics".
func humanizeSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}
	slug = strings.ReplaceAll(slug, "-", " ")
	slug = strings.ReplaceAll(slug, "_", " ")
	words := strings.Fields(strings.ToLower(slug))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// extractLocation prefers the user's own requested terms, then generic
// content patterns, then the first requested location, then "Remote".
func extractLocation(content string, requested []string) string {
	lower := strings.ToLower(content)
	for _, loc := range requested {
		if loc != "" && strings.Contains(lower, strings.ToLower(loc)) {
			return loc
		}
	}
	if m := locatedInRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := cityStateRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	for _, loc := range requested {
		if loc != "" {
			return loc
		}
	}
	return "Remote"
}

// extractRemoteType commits to remote, hybrid, or onsite. The requested
// work type counts as a mention: the user searched for it, the provider
// matched on it.
func extractRemoteType(content, requestedWorkType string) string {
	haystack := strings.ToLower(content + " " + requestedWorkType)
	switch {
	case strings.Contains(haystack, "remote"),
		strings.Contains(haystack, "work from home"),
		strings.Contains(haystack, "work-from-home"):
		return RemoteTypeRemote
	case strings.Contains(haystack, "hybrid"):
		return RemoteTypeHybrid
	default:
		return RemoteTypeOnsite
	}
}

func extractVisa(content string) string {
	lower := strings.ToLower(content)
	for _, phrase := range visaPhrases {
		if strings.Contains(lower, phrase) {
			return VisaYes
		}
	}
	return VisaUnknown
}

func extractATSType(host string) string {
	if host == "" {
		return ATSCustom
	}
	for _, v := range atsVendors {
		if host == v.hostSuffix || strings.HasSuffix(host, "."+v.hostSuffix) {
			return v.vendor
		}
	}
	return ATSCustom
}

// extractExternalID pulls a vendor-native posting id: the numeric id for
// greenhouse, the trailing slug for lever. Empty when unrecognized.
func extractExternalID(host, path string) string {
	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		if m := greenhouseIDRe.FindStringSubmatch(path); m != nil {
			return m[1]
		}
	case strings.HasSuffix(host, "lever.co"):
		segs := strings.Split(strings.Trim(path, "/"), "/")
		if len(segs) >= 2 && segs[len(segs)-1] != "" {
			return segs[len(segs)-1]
		}
	}
	return ""
}
