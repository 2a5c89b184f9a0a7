package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/socotra-protocol/contracts/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	Tag  string // only units carrying this tag
	Unit string // substring match on the unit name
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.DeploymentRecord
	Pending     []string // catalog units without a record
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	repo    DeploymentRepository
	catalog UnitCatalog
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(repo DeploymentRepository, catalog UnitCatalog) *ListDeployments {
	return &ListDeployments{
		repo:    repo,
		catalog: catalog,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	records, err := uc.repo.ListDeployments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	units := uc.catalog.Units()
	matches := func(name string) bool {
		if params.Unit != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(params.Unit)) {
			return false
		}
		if params.Tag != "" {
			unit, ok := units[name]
			if !ok || !unit.HasTag(params.Tag) {
				return false
			}
		}
		return true
	}

	result := &DeploymentListResult{}
	recorded := make(map[string]bool, len(records))
	for _, record := range records {
		recorded[record.Unit] = true
		if matches(record.Unit) {
			result.Deployments = append(result.Deployments, record)
		}
	}
	for name := range units {
		if !recorded[name] && matches(name) {
			result.Pending = append(result.Pending, name)
		}
	}

	slices.SortFunc(result.Deployments, func(a, b *models.DeploymentRecord) int {
		return strings.Compare(a.Unit, b.Unit)
	})
	slices.Sort(result.Pending)

	return result, nil
}
