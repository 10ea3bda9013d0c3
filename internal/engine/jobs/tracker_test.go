package jobs

import (
	"context"
	"testing"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
	"github.com/stretchr/testify/require"
)

// useStore points the package singleton at a fresh store for one test.
func useStore(t *testing.T) *Store {
	t.Helper()
	s := testStore(t)
	prev := GetStore()
	SetStore(s)
	t.Cleanup(func() { SetStore(prev) })
	return s
}

func TestTrackApplicationByURL(t *testing.T) {
	s := useStore(t)
	ctx := context.Background()
	url := "https://boards.greenhouse.io/acme/jobs/111"

	_, _, err := s.UpsertJob(ctx, storeJob("local", url))
	require.NoError(t, err)

	res, err := TrackApplicationByURL(ctx, "local", url, "", "reached out to recruiter")
	require.NoError(t, err)
	require.Greater(t, res.ID, int64(0))
	require.Equal(t, string(StatusSaved), res.Status, "empty status defaults to saved")
	require.Equal(t, "Backend Engineer", res.Title)
	require.NotEmpty(t, res.Message)
}

func TestTrackApplicationByURL_UnknownJob(t *testing.T) {
	useStore(t)

	_, err := TrackApplicationByURL(context.Background(), "local", "https://nope.test/1", StatusSaved, "")
	require.ErrorIs(t, err, engine.ErrInvalidInput, "tracking never creates job rows")
}

func TestListAndUpdateTrackedApplications(t *testing.T) {
	s := useStore(t)
	ctx := context.Background()
	url := "https://jobs.lever.co/acme/abc"

	_, _, err := s.UpsertJob(ctx, storeJob("local", url))
	require.NoError(t, err)
	tracked, err := TrackApplicationByURL(ctx, "local", url, StatusApplied, "")
	require.NoError(t, err)

	list, err := ListTrackedApplications(ctx, "local", "", 10)
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	require.Equal(t, StatusApplied, list.Applications[0].Status)

	_, err = UpdateTrackedApplication(ctx, "local", tracked.ID, "offer", "verbal offer")
	require.NoError(t, err)

	list, err = ListTrackedApplications(ctx, "local", "offer", 10)
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	require.Equal(t, "verbal offer", list.Applications[0].Notes)
}

func TestTracker_StoreNotInitialized(t *testing.T) {
	prev := GetStore()
	SetStore(nil)
	t.Cleanup(func() { SetStore(prev) })

	_, err := TrackApplicationByURL(context.Background(), "local", "https://x.test/1", StatusSaved, "")
	require.ErrorIs(t, err, engine.ErrConfiguration)
}
