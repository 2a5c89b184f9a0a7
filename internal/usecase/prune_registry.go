package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/socotra-protocol/contracts/internal/domain/models"
)

// PruneRegistryParams contains parameters for pruning the registry
type PruneRegistryParams struct {
	DryRun bool // If true, only collect stale records without removing them
}

// PruneRegistryResult contains the result of pruning the registry
type PruneRegistryResult struct {
	Checked int
	Stale   []*models.DeploymentRecord
}

// PruneRegistry removes records whose address holds no code, as happens
// after a local node is restarted
type PruneRegistry struct {
	repo     DeploymentRepository
	resetter DeploymentRepositoryResetter
	checker  CodeChecker
	progress ProgressSink
}

// NewPruneRegistry creates a new PruneRegistry use case.
// checker may be nil when the backend cannot read chain state.
func NewPruneRegistry(
	repo DeploymentRepository,
	resetter DeploymentRepositoryResetter,
	checker CodeChecker,
	progress ProgressSink,
) *PruneRegistry {
	if progress == nil {
		progress = NopProgress{}
	}
	return &PruneRegistry{
		repo:     repo,
		resetter: resetter,
		checker:  checker,
		progress: progress,
	}
}

// Run executes the prune registry use case
func (uc *PruneRegistry) Run(ctx context.Context, params PruneRegistryParams) (*PruneRegistryResult, error) {
	if uc.checker == nil {
		return nil, errors.New("pruning needs a backend that reads chain state (use --backend rpc)")
	}

	records, err := uc.repo.ListDeployments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	result := &PruneRegistryResult{Checked: len(records)}
	for i, record := range records {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "check_code",
			Current: i + 1,
			Total:   len(records),
			Message: fmt.Sprintf("Checking %s at %s", record.Unit, record.Address),
			Spinner: true,
		})

		exists, err := uc.checker.HasCode(ctx, record.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", record.Unit, err)
		}
		if !exists {
			result.Stale = append(result.Stale, record)
		}
	}

	// If nothing is stale or dry run, return early
	if len(result.Stale) == 0 || params.DryRun {
		return result, nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "execute_prune",
		Message: fmt.Sprintf("Pruning %d records", len(result.Stale)),
		Spinner: true,
	})

	units := lo.Map(result.Stale, func(r *models.DeploymentRecord, _ int) string {
		return r.Unit
	})
	if err := uc.resetter.DeleteDeployments(ctx, units); err != nil {
		return nil, fmt.Errorf("failed to prune records: %w", err)
	}

	return result, nil
}
