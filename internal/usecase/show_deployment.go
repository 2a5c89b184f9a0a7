package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
)

// ShowDeploymentParams contains parameters for showing a deployment
type ShowDeploymentParams struct {
	// Unit name; when empty the user picks from the recorded deployments
	Unit string
}

// DeploymentDetails is a record together with its catalog definition
type DeploymentDetails struct {
	Record *models.DeploymentRecord
	Unit   *models.Unit // nil for units recorded outside the catalog
}

// ShowDeployment is the use case for showing deployment details
type ShowDeployment struct {
	repo     DeploymentRepository
	catalog  UnitCatalog
	selector DeploymentSelector
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(repo DeploymentRepository, catalog UnitCatalog, selector DeploymentSelector) *ShowDeployment {
	return &ShowDeployment{
		repo:     repo,
		catalog:  catalog,
		selector: selector,
	}
}

// Run executes the show deployment use case
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*DeploymentDetails, error) {
	var record *models.DeploymentRecord

	if params.Unit == "" {
		records, err := uc.repo.ListDeployments(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list deployments: %w", err)
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("no deployments recorded")
		}
		if record, err = uc.selector.SelectDeployment(ctx, records, "Select a deployment"); err != nil {
			return nil, err
		}
	} else {
		var err error
		record, err = uc.repo.GetDeployment(ctx, params.Unit)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("unit %s has not been deployed: %w", params.Unit, err)
			}
			return nil, err
		}
	}

	return &DeploymentDetails{
		Record: record,
		Unit:   uc.catalog.Units()[record.Unit],
	}, nil
}
