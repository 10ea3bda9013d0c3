package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResumeSource provides the owner's primary resume. Returns (nil, nil)
// when the owner has no resume — ingestion then skips scoring, which is
// not an error.
type ResumeSource interface {
	GetPrimaryResume(ctx context.Context, owner string) (*Resume, error)
}

const resumeSchema = `CREATE TABLE IF NOT EXISTS resumes (
	id                   BIGSERIAL PRIMARY KEY,
	owner                TEXT NOT NULL,
	raw_text             TEXT NOT NULL DEFAULT '',
	skills               TEXT[] NOT NULL DEFAULT '{}',
	bullets              TEXT[] NOT NULL DEFAULT '{}',
	projects             JSONB NOT NULL DEFAULT '[]',
	requires_sponsorship BOOLEAN NOT NULL DEFAULT FALSE,
	exclude_keywords     TEXT[] NOT NULL DEFAULT '{}',
	is_primary           BOOLEAN NOT NULL DEFAULT TRUE,
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(owner, is_primary)
)`

// ResumeDB holds the pgx connection pool for resume storage.
type ResumeDB struct {
	pool *pgxpool.Pool
}

// ConnectResumeDB creates a pgx pool and ensures the schema exists.
func ConnectResumeDB(ctx context.Context, databaseURL string) (*ResumeDB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, resumeSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create resumes table: %w", err)
	}

	slog.Info("resume postgres connected", slog.String("addr", config.ConnConfig.Host))
	return &ResumeDB{pool: pool}, nil
}

func (db *ResumeDB) Close() {
	db.pool.Close()
}

// GetPrimaryResume loads the owner's primary resume, or (nil, nil) when
// the owner has none.
func (db *ResumeDB) GetPrimaryResume(ctx context.Context, owner string) (*Resume, error) {
	var r Resume
	var projectsJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT raw_text, skills, bullets, projects, requires_sponsorship, exclude_keywords
		 FROM resumes WHERE owner = $1 AND is_primary
		 ORDER BY updated_at DESC LIMIT 1`,
		owner,
	).Scan(&r.RawText, &r.Skills, &r.Bullets, &projectsJSON, &r.RequiresSponsorship, &r.ExcludeKeywords)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get primary resume: %w", err)
	}
	if err := json.Unmarshal(projectsJSON, &r.Projects); err != nil {
		slog.Warn("resume: bad projects payload, ignoring", slog.String("owner", owner), slog.Any("error", err))
		r.Projects = nil
	}
	return &r, nil
}

// SavePrimaryResume stores or replaces the owner's primary resume. The
// caller is expected to trigger a rescore afterwards; this store does not.
func (db *ResumeDB) SavePrimaryResume(ctx context.Context, owner string, r *Resume) error {
	projectsJSON, err := json.Marshal(r.Projects)
	if err != nil {
		return fmt.Errorf("save resume: marshal projects: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO resumes (owner, raw_text, skills, bullets, projects,
			requires_sponsorship, exclude_keywords, is_primary, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, now())
		 ON CONFLICT (owner, is_primary) DO UPDATE SET
			raw_text             = excluded.raw_text,
			skills               = excluded.skills,
			bullets              = excluded.bullets,
			projects             = excluded.projects,
			requires_sponsorship = excluded.requires_sponsorship,
			exclude_keywords     = excluded.exclude_keywords,
			updated_at           = now()`,
		owner, r.RawText, emptyIfNil(r.Skills), emptyIfNil(r.Bullets),
		projectsJSON, r.RequiresSponsorship, emptyIfNil(r.ExcludeKeywords))
	if err != nil {
		return fmt.Errorf("save resume: %w", err)
	}
	return nil
}
