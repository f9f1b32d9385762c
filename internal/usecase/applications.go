package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
)

// ApplicationService maintains the per-user application ledger. The ledger
// is a read-modify-write of the full cached list on every mutation, so
// concurrent writers to the same user race last-write-wins; the cache
// store's get/set contract offers nothing stronger.
type ApplicationService struct {
	Cache domain.CacheStore
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(cache domain.CacheStore) *ApplicationService {
	return &ApplicationService{Cache: cache}
}

// ChoiceYes is the confirmation value required before an application is
// recorded; anything else acknowledges a skip without touching the ledger.
const ChoiceYes = "Yes"

// Apply upserts an application into the user's ledger. An existing entry
// with the same job id is merged: new non-empty fields overwrite, old
// fields are retained otherwise. Returns the acknowledgment message and
// whether the ledger was mutated.
func (s *ApplicationService) Apply(ctx context.Context, userID, userChoice string, app domain.Application) (string, bool, error) {
	if userID == "" || app.JobID == "" {
		return "", false, fmt.Errorf("%w: userId and jobId are required", domain.ErrInvalidArgument)
	}
	if userChoice != ChoiceYes {
		return "Job skipped", false, nil
	}

	if app.Status == "" {
		app.Status = "Applied"
	}
	app.Timestamp = time.Now().UTC().Format(time.RFC3339)

	key := domain.ApplicationsKey(userID)
	var ledger []domain.Application
	s.Cache.Get(ctx, key, &ledger)

	merged := false
	for i := range ledger {
		if ledger[i].JobID == app.JobID {
			ledger[i] = mergeApplication(ledger[i], app)
			merged = true
			break
		}
	}
	if !merged {
		ledger = append(ledger, app)
	}

	if !s.Cache.Set(ctx, key, ledger, 0) {
		observability.LoggerFromContext(ctx).Warn("failed to persist application ledger",
			slog.String("user_id", userID), slog.String("job_id", app.JobID))
	}
	return "Applied successfully", true, nil
}

// UpdateStatus changes the status label of an existing application.
func (s *ApplicationService) UpdateStatus(ctx context.Context, userID, jobID, status string) (domain.Application, error) {
	if userID == "" || jobID == "" || status == "" {
		return domain.Application{}, fmt.Errorf("%w: userId, jobId and status are required", domain.ErrInvalidArgument)
	}

	key := domain.ApplicationsKey(userID)
	var ledger []domain.Application
	if !s.Cache.Get(ctx, key, &ledger) || len(ledger) == 0 {
		return domain.Application{}, fmt.Errorf("%w: no applications found", domain.ErrNotFound)
	}

	for i := range ledger {
		if ledger[i].JobID == jobID {
			ledger[i].Status = status
			ledger[i].Timestamp = time.Now().UTC().Format(time.RFC3339)
			if !s.Cache.Set(ctx, key, ledger, 0) {
				observability.LoggerFromContext(ctx).Warn("failed to persist application ledger",
					slog.String("user_id", userID), slog.String("job_id", jobID))
			}
			return ledger[i], nil
		}
	}
	return domain.Application{}, fmt.Errorf("%w: application not found", domain.ErrNotFound)
}

// List returns the user's applications; an absent ledger is an empty list.
func (s *ApplicationService) List(ctx context.Context, userID string) ([]domain.Application, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrInvalidArgument)
	}
	var ledger []domain.Application
	s.Cache.Get(ctx, domain.ApplicationsKey(userID), &ledger)
	if ledger == nil {
		ledger = []domain.Application{}
	}
	return ledger, nil
}

// mergeApplication overlays the new record on the old one, keeping old
// values where the new record leaves a field empty.
func mergeApplication(old, incoming domain.Application) domain.Application {
	out := old
	if incoming.Title != "" {
		out.Title = incoming.Title
	}
	if incoming.Company != "" {
		out.Company = incoming.Company
	}
	if incoming.Status != "" {
		out.Status = incoming.Status
	}
	if incoming.Timestamp != "" {
		out.Timestamp = incoming.Timestamp
	}
	if incoming.Notes != "" {
		out.Notes = incoming.Notes
	}
	return out
}
