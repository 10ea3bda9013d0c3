package jobs

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
)

// ApplicationResult is the output of application_track and
// application_update.
type ApplicationResult struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message"`
}

// ApplicationListResult is the output of application_list.
type ApplicationListResult struct {
	Owner        string        `json:"owner"`
	Count        int           `json:"count"`
	Applications []Application `json:"applications"`
}

// TrackApplicationByURL starts (or refreshes) pipeline tracking for an
// already ingested job. The job must exist; tracking never creates job rows.
func TrackApplicationByURL(ctx context.Context, owner, url string, status ApplicationStatus, notes string) (*ApplicationResult, error) {
	store := GetStore()
	if store == nil {
		return nil, fmt.Errorf("job store not initialized: %w", engine.ErrConfiguration)
	}
	if status == "" {
		status = StatusSaved
	}

	job, err := store.GetJobByURL(ctx, owner, url)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("no ingested job for %s, run job_search first: %w", url, engine.ErrInvalidInput)
	}

	id, err := store.TrackApplication(ctx, owner, job.ID, status, notes)
	if err != nil {
		return nil, err
	}
	return &ApplicationResult{
		ID:      id,
		Status:  string(status),
		Title:   job.Title,
		Company: job.Company,
		URL:     job.URL,
		Message: fmt.Sprintf("Tracking %s at %s as %s (id %d).", job.Title, job.Company, status, id),
	}, nil
}

// ListTrackedApplications lists the owner's pipeline, optionally filtered
// by status.
func ListTrackedApplications(ctx context.Context, owner, status string, limit int) (*ApplicationListResult, error) {
	store := GetStore()
	if store == nil {
		return nil, fmt.Errorf("job store not initialized: %w", engine.ErrConfiguration)
	}
	apps, err := store.ListApplications(ctx, owner, status, limit)
	if err != nil {
		return nil, err
	}
	return &ApplicationListResult{Owner: owner, Count: len(apps), Applications: apps}, nil
}

// UpdateTrackedApplication changes status and/or notes on an entry by id.
func UpdateTrackedApplication(ctx context.Context, owner string, id int64, status, notes string) (*ApplicationResult, error) {
	store := GetStore()
	if store == nil {
		return nil, fmt.Errorf("job store not initialized: %w", engine.ErrConfiguration)
	}
	if err := store.UpdateApplication(ctx, owner, id, status, notes); err != nil {
		return nil, err
	}
	res := &ApplicationResult{ID: id, Status: status, Message: fmt.Sprintf("Application %d updated.", id)}
	if status == "" {
		res.Status = "unchanged"
	}
	return res, nil
}
