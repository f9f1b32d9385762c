package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/usecase"
)

func TestApplicationService_Apply_RecordsOnYes(t *testing.T) {
	t.Parallel()
	cache := newFakeCache()
	svc := usecase.NewApplicationService(cache)

	msg, applied, err := svc.Apply(context.Background(), "u1", usecase.ChoiceYes, domain.Application{
		JobID: "j1", Title: "Go Engineer", Company: "Acme",
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "Applied successfully", msg)

	apps, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "j1", apps[0].JobID)
	assert.Equal(t, "Applied", apps[0].Status, "default status")
	assert.NotEmpty(t, apps[0].Timestamp)
}

func TestApplicationService_Apply_SkipsOnAnyOtherChoice(t *testing.T) {
	t.Parallel()
	cache := newFakeCache()
	svc := usecase.NewApplicationService(cache)

	for _, choice := range []string{"No", "yes", "maybe", ""} {
		msg, applied, err := svc.Apply(context.Background(), "u1", choice, domain.Application{JobID: "j1"})
		require.NoError(t, err)
		assert.False(t, applied, "choice %q must not record", choice)
		assert.Equal(t, "Job skipped", msg)
	}

	apps, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestApplicationService_Apply_MergesByJobID(t *testing.T) {
	t.Parallel()
	cache := newFakeCache()
	svc := usecase.NewApplicationService(cache)
	ctx := context.Background()

	_, _, err := svc.Apply(ctx, "u1", usecase.ChoiceYes, domain.Application{
		JobID: "j1", Title: "Go Engineer", Company: "Acme", Notes: "referred by a friend",
	})
	require.NoError(t, err)

	// Re-applying to the same job overwrites non-empty fields only.
	_, _, err = svc.Apply(ctx, "u1", usecase.ChoiceYes, domain.Application{
		JobID: "j1", Status: "Interviewing",
	})
	require.NoError(t, err)

	apps, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, apps, 1, "same job id must not duplicate")
	assert.Equal(t, "Go Engineer", apps[0].Title)
	assert.Equal(t, "Acme", apps[0].Company)
	assert.Equal(t, "Interviewing", apps[0].Status)
	assert.Equal(t, "referred by a friend", apps[0].Notes)
}

func TestApplicationService_Apply_Validation(t *testing.T) {
	t.Parallel()
	svc := usecase.NewApplicationService(newFakeCache())
	_, _, err := svc.Apply(context.Background(), "", usecase.ChoiceYes, domain.Application{JobID: "j1"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, _, err = svc.Apply(context.Background(), "u1", usecase.ChoiceYes, domain.Application{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	t.Parallel()
	cache := newFakeCache()
	svc := usecase.NewApplicationService(cache)
	ctx := context.Background()

	_, _, err := svc.Apply(ctx, "u1", usecase.ChoiceYes, domain.Application{JobID: "j1", Title: "Go Engineer"})
	require.NoError(t, err)

	app, err := svc.UpdateStatus(ctx, "u1", "j1", "Offer")
	require.NoError(t, err)
	assert.Equal(t, "Offer", app.Status)

	apps, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Offer", apps[0].Status)
}

func TestApplicationService_UpdateStatus_NotFound(t *testing.T) {
	t.Parallel()
	cache := newFakeCache()
	svc := usecase.NewApplicationService(cache)
	ctx := context.Background()

	// No ledger at all.
	_, err := svc.UpdateStatus(ctx, "u1", "j1", "Offer")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Ledger exists, job does not.
	_, _, err = svc.Apply(ctx, "u1", usecase.ChoiceYes, domain.Application{JobID: "other"})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, "u1", "j1", "Offer")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationService_UpdateStatus_PersistFailureStillReturnsEntry(t *testing.T) {
	t.Parallel()
	cache := newFakeCache()
	svc := usecase.NewApplicationService(cache)
	ctx := context.Background()

	_, _, err := svc.Apply(ctx, "u1", usecase.ChoiceYes, domain.Application{JobID: "j1"})
	require.NoError(t, err)

	// A write failure degrades like everywhere else in the cache contract:
	// the caller still gets the updated entry back.
	cache.setFails = true
	app, err := svc.UpdateStatus(ctx, "u1", "j1", "Offer")
	require.NoError(t, err)
	assert.Equal(t, "Offer", app.Status)
}

func TestApplicationService_List_EmptyIsNotAnError(t *testing.T) {
	t.Parallel()
	svc := usecase.NewApplicationService(newFakeCache())
	apps, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)
}
