package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Job is one posting as persisted for a single owner. Identity is
// (owner, url); (owner, source, external_id) is a secondary identity when
// a vendor id is known.
type Job struct {
	ID               int64    `json:"id"`
	Owner            string   `json:"owner"`
	URL              string   `json:"url"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	RemoteType       string   `json:"remote_type"`
	Description      string   `json:"description"`
	DescriptionClean string   `json:"description_clean"`
	RequiredSkills   []string `json:"required_skills"`
	VisaSponsorship  string   `json:"visa_sponsorship"`
	ATSType          string   `json:"ats_type"`
	Source           string   `json:"source,omitempty"`
	ExternalID       string   `json:"external_id,omitempty"`
	PreliminaryScore int      `json:"preliminary_score"`
	IsActive         bool     `json:"is_active"`
	PostedAt         string   `json:"posted_at,omitempty"`
	CreatedAt        string   `json:"created_at"`
	LastSeen         string   `json:"last_seen"`
}

// ApplicationStatus is the pipeline status for a tracked application.
type ApplicationStatus string

const (
	StatusSaved     ApplicationStatus = "saved"
	StatusApplied   ApplicationStatus = "applied"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
)

// ValidStatus checks if a pipeline status string is valid.
func ValidStatus(s string) bool {
	switch ApplicationStatus(s) {
	case StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Application is one pipeline entry, at most one per (owner, job).
type Application struct {
	ID        int64             `json:"id"`
	Owner     string            `json:"owner"`
	JobID     int64             `json:"job_id"`
	Title     string            `json:"title"`
	Company   string            `json:"company"`
	URL       string            `json:"url"`
	Status    ApplicationStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

// Store persists jobs, matches, and applications in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the SQLite store at path. ":memory:" gives
// an ephemeral store for tests.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			owner             TEXT NOT NULL,
			url               TEXT NOT NULL,
			title             TEXT NOT NULL,
			company           TEXT NOT NULL,
			location          TEXT,
			remote_type       TEXT NOT NULL DEFAULT 'unknown',
			description       TEXT,
			description_clean TEXT,
			required_skills   TEXT NOT NULL DEFAULT '[]',
			visa_sponsorship  TEXT NOT NULL DEFAULT 'unknown',
			ats_type          TEXT NOT NULL DEFAULT 'custom',
			source            TEXT,
			external_id       TEXT,
			preliminary_score INTEGER NOT NULL DEFAULT 0,
			is_active         INTEGER NOT NULL DEFAULT 1,
			posted_at         TEXT,
			created_at        TEXT NOT NULL,
			last_seen         TEXT NOT NULL,
			UNIQUE(owner, url)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_owner_source_ext
			ON jobs(owner, source, external_id)
			WHERE external_id IS NOT NULL AND external_id != ''`,
		`CREATE TABLE IF NOT EXISTS matches (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			owner                TEXT NOT NULL,
			job_id               INTEGER NOT NULL REFERENCES jobs(id),
			total                INTEGER NOT NULL,
			skill_overlap        INTEGER NOT NULL,
			semantic_similarity  INTEGER NOT NULL,
			project_relevance    INTEGER NOT NULL,
			risk_penalty         INTEGER NOT NULL,
			matching_skills      TEXT NOT NULL DEFAULT '[]',
			missing_skills       TEXT NOT NULL DEFAULT '[]',
			matching_bullets     TEXT NOT NULL DEFAULT '[]',
			recommended_projects TEXT NOT NULL DEFAULT '[]',
			why_match            TEXT,
			risk_flags           TEXT NOT NULL DEFAULT '[]',
			updated_at           TEXT NOT NULL,
			UNIQUE(owner, job_id)
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			owner      TEXT NOT NULL,
			job_id     INTEGER NOT NULL REFERENCES jobs(id),
			status     TEXT NOT NULL DEFAULT 'saved',
			notes      TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(owner, job_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Nanosecond precision so an insert-then-update within the same second
// still yields distinct created_at/last_seen values.
func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// UpsertJob inserts the job or, when (owner, url) already exists, updates
// every mutable descriptive field and refreshes last_seen while leaving
// created_at untouched. The conflict resolution is done by SQLite in one
// statement, so concurrent duplicate searches cannot race into two rows.
// Returns the row id and whether the row was newly created.
func (s *Store) UpsertJob(ctx context.Context, job *Job) (id int64, created bool, err error) {
	if job.Owner == "" || job.URL == "" {
		return 0, false, errors.New("upsert job: owner and url are required")
	}

	skills, err := json.Marshal(emptyIfNil(job.RequiredSkills))
	if err != nil {
		return 0, false, fmt.Errorf("upsert job: marshal skills: %w", err)
	}

	ts := now()
	var createdAt string
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO jobs (owner, url, title, company, location, remote_type,
			description, description_clean, required_skills, visa_sponsorship,
			ats_type, source, external_id, preliminary_score, is_active,
			posted_at, created_at, last_seen)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
		 ON CONFLICT(owner, url) DO UPDATE SET
			title             = excluded.title,
			company           = excluded.company,
			location          = excluded.location,
			remote_type       = excluded.remote_type,
			description       = excluded.description,
			description_clean = excluded.description_clean,
			required_skills   = excluded.required_skills,
			visa_sponsorship  = excluded.visa_sponsorship,
			ats_type          = excluded.ats_type,
			source            = excluded.source,
			external_id       = excluded.external_id,
			preliminary_score = excluded.preliminary_score,
			is_active         = 1,
			last_seen         = excluded.last_seen
		 RETURNING id, created_at`,
		job.Owner, job.URL, job.Title, job.Company, job.Location, job.RemoteType,
		job.Description, job.DescriptionClean, string(skills), job.VisaSponsorship,
		job.ATSType, job.Source, job.ExternalID, job.PreliminaryScore,
		job.PostedAt, ts, ts,
	).Scan(&id, &createdAt)
	if err != nil {
		return 0, false, fmt.Errorf("upsert job %s: %w", job.URL, err)
	}

	job.ID = id
	job.CreatedAt = createdAt
	job.LastSeen = ts
	job.IsActive = true
	return id, createdAt == ts, nil
}

// GetJobByURL returns the job for (owner, url), or nil when absent.
func (s *Store) GetJobByURL(ctx context.Context, owner, url string) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		jobSelect+` WHERE owner = ? AND url = ?`, owner, url)
	return scanJob(row)
}

// ListJobs returns the owner's active jobs, most recently seen first.
func (s *Store) ListJobs(ctx context.Context, owner string, limit int) ([]Job, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		jobSelect+` WHERE owner = ? AND is_active = 1 ORDER BY last_seen DESC LIMIT ?`,
		owner, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		j, err := scanJobRows(rows)
		if err != nil {
			continue
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

// DeactivateUnseenSince flips is_active off for jobs not observed since
// cutoff. Nothing calls this on a schedule yet; it exists for a future
// staleness sweep.
func (s *Store) DeactivateUnseenSince(ctx context.Context, owner string, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET is_active = 0 WHERE owner = ? AND is_active = 1 AND last_seen < ?`,
		owner, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("deactivate unseen: %w", err)
	}
	return res.RowsAffected()
}

const jobSelect = `SELECT id, owner, url, title, company, location, remote_type,
	description, description_clean, required_skills, visa_sponsorship,
	ats_type, source, external_id, preliminary_score, is_active,
	posted_at, created_at, last_seen FROM jobs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row *sql.Row) (*Job, error) {
	j, err := scanJobRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

func scanJobRows(row rowScanner) (*Job, error) {
	var j Job
	var location, description, clean, source, extID, postedAt sql.NullString
	var skills string
	var active int
	err := row.Scan(&j.ID, &j.Owner, &j.URL, &j.Title, &j.Company, &location,
		&j.RemoteType, &description, &clean, &skills, &j.VisaSponsorship,
		&j.ATSType, &source, &extID, &j.PreliminaryScore, &active,
		&postedAt, &j.CreatedAt, &j.LastSeen)
	if err != nil {
		return nil, err
	}
	j.Location = location.String
	j.Description = description.String
	j.DescriptionClean = clean.String
	j.Source = source.String
	j.ExternalID = extID.String
	j.PostedAt = postedAt.String
	j.IsActive = active != 0
	if err := json.Unmarshal([]byte(skills), &j.RequiredSkills); err != nil {
		j.RequiredSkills = nil
	}
	return &j, nil
}

// UpsertMatch stores the authoritative score for (owner, job), replacing
// any prior score rather than appending.
func (s *Store) UpsertMatch(ctx context.Context, m *Match) error {
	if m.Owner == "" || m.JobID == 0 {
		return errors.New("upsert match: owner and job_id are required")
	}

	enc := func(v []string) string {
		b, _ := json.Marshal(emptyIfNil(v))
		return string(b)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (owner, job_id, total, skill_overlap,
			semantic_similarity, project_relevance, risk_penalty,
			matching_skills, missing_skills, matching_bullets,
			recommended_projects, why_match, risk_flags, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner, job_id) DO UPDATE SET
			total                = excluded.total,
			skill_overlap        = excluded.skill_overlap,
			semantic_similarity  = excluded.semantic_similarity,
			project_relevance    = excluded.project_relevance,
			risk_penalty         = excluded.risk_penalty,
			matching_skills      = excluded.matching_skills,
			missing_skills       = excluded.missing_skills,
			matching_bullets     = excluded.matching_bullets,
			recommended_projects = excluded.recommended_projects,
			why_match            = excluded.why_match,
			risk_flags           = excluded.risk_flags,
			updated_at           = excluded.updated_at`,
		m.Owner, m.JobID, m.Total,
		m.Breakdown.SkillOverlap, m.Breakdown.SemanticSimilarity,
		m.Breakdown.ProjectRelevance, m.Breakdown.RiskPenalty,
		enc(m.MatchingSkills), enc(m.MissingSkills), enc(m.MatchingBullets),
		enc(m.RecommendedProjects), m.WhyMatch, enc(m.RiskFlags), now(),
	)
	if err != nil {
		return fmt.Errorf("upsert match for job %d: %w", m.JobID, err)
	}
	return nil
}

// GetMatch returns the match for (owner, jobID), or nil when absent.
func (s *Store) GetMatch(ctx context.Context, owner string, jobID int64) (*Match, error) {
	var m Match
	var matching, missing, bullets, projects, flags string
	var why sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT owner, job_id, total, skill_overlap, semantic_similarity,
			project_relevance, risk_penalty, matching_skills, missing_skills,
			matching_bullets, recommended_projects, why_match, risk_flags
		 FROM matches WHERE owner = ? AND job_id = ?`,
		owner, jobID,
	).Scan(&m.Owner, &m.JobID, &m.Total,
		&m.Breakdown.SkillOverlap, &m.Breakdown.SemanticSimilarity,
		&m.Breakdown.ProjectRelevance, &m.Breakdown.RiskPenalty,
		&matching, &missing, &bullets, &projects, &why, &flags)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match for job %d: %w", jobID, err)
	}
	m.WhyMatch = why.String
	json.Unmarshal([]byte(matching), &m.MatchingSkills)      //nolint:errcheck
	json.Unmarshal([]byte(missing), &m.MissingSkills)        //nolint:errcheck
	json.Unmarshal([]byte(bullets), &m.MatchingBullets)      //nolint:errcheck
	json.Unmarshal([]byte(projects), &m.RecommendedProjects) //nolint:errcheck
	json.Unmarshal([]byte(flags), &m.RiskFlags)              //nolint:errcheck
	return &m, nil
}

// TrackApplication creates or refreshes the pipeline entry for a job.
func (s *Store) TrackApplication(ctx context.Context, owner string, jobID int64, status ApplicationStatus, notes string) (int64, error) {
	if !ValidStatus(string(status)) {
		return 0, fmt.Errorf("track application: invalid status %q (valid: saved, applied, interview, offer, rejected)", status)
	}
	ts := now()
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO applications (owner, job_id, status, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner, job_id) DO UPDATE SET
			status = excluded.status,
			notes  = CASE WHEN excluded.notes != '' THEN excluded.notes ELSE applications.notes END,
			updated_at = excluded.updated_at
		 RETURNING id`,
		owner, jobID, string(status), notes, ts, ts,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("track application for job %d: %w", jobID, err)
	}
	return id, nil
}

// ListApplications returns the owner's applications joined with their
// jobs, optionally filtered by status, most recently updated first.
func (s *Store) ListApplications(ctx context.Context, owner, status string, limit int) ([]Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `SELECT a.id, a.owner, a.job_id, j.title, j.company, j.url,
			a.status, a.notes, a.created_at, a.updated_at
		 FROM applications a JOIN jobs j ON j.id = a.job_id
		 WHERE a.owner = ?`
	args := []any{owner}
	if status != "" {
		if !ValidStatus(status) {
			return nil, fmt.Errorf("list applications: invalid status %q", status)
		}
		query += ` AND a.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY a.updated_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		var a Application
		var notes sql.NullString
		if err := rows.Scan(&a.ID, &a.Owner, &a.JobID, &a.Title, &a.Company,
			&a.URL, &a.Status, &notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			continue
		}
		a.Notes = notes.String
		out = append(out, a)
	}
	if out == nil {
		out = []Application{}
	}
	return out, rows.Err()
}

// UpdateApplication changes status and/or notes on an existing entry.
func (s *Store) UpdateApplication(ctx context.Context, owner string, id int64, status, notes string) error {
	if status == "" && notes == "" {
		return errors.New("update application: at least one of status or notes must be provided")
	}
	var sets []string
	var args []any
	if status != "" {
		status = strings.ToLower(status)
		if !ValidStatus(status) {
			return fmt.Errorf("update application: invalid status %q", status)
		}
		sets = append(sets, "status = ?")
		args = append(args, status)
	}
	if notes != "" {
		sets = append(sets, "notes = ?")
		args = append(args, notes)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id, owner)

	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner = ?`,
		args...)
	if err != nil {
		return fmt.Errorf("update application %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update application %d: not found", id)
	}
	return nil
}

func emptyIfNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
