package app

import (
	"github.com/socotra-protocol/contracts/internal/adapters/interactive"
	"github.com/socotra-protocol/contracts/internal/domain/config"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selector *interactive.SelectorAdapter
	Registry *usecase.ProvisioningRegistry

	// Use cases
	ProvisionTags   *usecase.ProvisionTags
	Fixtures        *usecase.DeploymentFixtures
	ListDeployments *usecase.ListDeployments
	ShowDeployment  *usecase.ShowDeployment
	ResetRegistry   *usecase.ResetRegistry
	PruneRegistry   *usecase.PruneRegistry
	ListAccounts    *usecase.ListAccounts
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selector *interactive.SelectorAdapter,
	registry *usecase.ProvisioningRegistry,
	provisionTags *usecase.ProvisionTags,
	fixtures *usecase.DeploymentFixtures,
	listDeployments *usecase.ListDeployments,
	showDeployment *usecase.ShowDeployment,
	resetRegistry *usecase.ResetRegistry,
	pruneRegistry *usecase.PruneRegistry,
	listAccounts *usecase.ListAccounts,
) (*App, error) {
	return &App{
		Config:          cfg,
		Selector:        selector,
		Registry:        registry,
		ProvisionTags:   provisionTags,
		Fixtures:        fixtures,
		ListDeployments: listDeployments,
		ShowDeployment:  showDeployment,
		ResetRegistry:   resetRegistry,
		PruneRegistry:   pruneRegistry,
		ListAccounts:    listAccounts,
	}, nil
}
