//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/socotra-protocol/contracts/internal/adapters"
	"github.com/socotra-protocol/contracts/internal/config"
	"github.com/socotra-protocol/contracts/internal/logging"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// InitApp creates a fully wired App instance. The cleanup function closes
// the deployment store and the chain client.
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewProvisioningRegistry,
		usecase.NewProvisionTags,
		usecase.NewDeploymentFixtures,
		usecase.NewListDeployments,
		usecase.NewShowDeployment,
		usecase.NewResetRegistry,
		usecase.NewPruneRegistry,
		usecase.NewListAccounts,

		// App
		NewApp,
	)
	return nil, nil, nil
}
