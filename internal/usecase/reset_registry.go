package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/socotra-protocol/contracts/internal/domain/models"
)

// ResetRegistryParams contains parameters for resetting the registry
type ResetRegistryParams struct {
	Units  []string // empty resets every recorded unit
	DryRun bool     // If true, only collect items without executing reset
}

// ResetRegistryResult contains the result of resetting the registry
type ResetRegistryResult struct {
	Deployments []*models.DeploymentRecord
}

// ResetRegistry forgets recorded deployments so they are provisioned again
// on the next run. It never runs as part of a provisioning run.
type ResetRegistry struct {
	repo     DeploymentRepository
	resetter DeploymentRepositoryResetter
}

// NewResetRegistry creates a new ResetRegistry use case
func NewResetRegistry(repo DeploymentRepository, resetter DeploymentRepositoryResetter) *ResetRegistry {
	return &ResetRegistry{
		repo:     repo,
		resetter: resetter,
	}
}

// Run executes the reset registry use case
func (uc *ResetRegistry) Run(ctx context.Context, params ResetRegistryParams) (*ResetRegistryResult, error) {
	records, err := uc.repo.ListDeployments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	if len(params.Units) > 0 {
		records = lo.Filter(records, func(r *models.DeploymentRecord, _ int) bool {
			return lo.Contains(params.Units, r.Unit)
		})
	}

	result := &ResetRegistryResult{Deployments: records}
	if len(records) == 0 || params.DryRun {
		return result, nil
	}

	units := lo.Map(records, func(r *models.DeploymentRecord, _ int) string {
		return r.Unit
	})
	if err := uc.resetter.DeleteDeployments(ctx, units); err != nil {
		return nil, fmt.Errorf("failed to reset registry: %w", err)
	}

	return result, nil
}
