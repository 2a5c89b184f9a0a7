package adapters

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/wire"
	"github.com/socotra-protocol/contracts/internal/adapters/accounts"
	"github.com/socotra-protocol/contracts/internal/adapters/blockchain"
	"github.com/socotra-protocol/contracts/internal/adapters/forge"
	"github.com/socotra-protocol/contracts/internal/adapters/interactive"
	"github.com/socotra-protocol/contracts/internal/adapters/progress"
	"github.com/socotra-protocol/contracts/internal/adapters/repository/deployments"
	"github.com/socotra-protocol/contracts/internal/deployscripts"
	"github.com/socotra-protocol/contracts/internal/domain/config"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// DeploymentStore is a repository that can also forget records
type DeploymentStore interface {
	usecase.DeploymentRepository
	usecase.DeploymentRepositoryResetter
}

// ProvideDeploymentStore opens the persisted state selected by cfg.Store
func ProvideDeploymentStore(cfg *config.RuntimeConfig) (DeploymentStore, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		repo, err := deployments.NewSQLiteRepository(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case config.StoreJSON, "":
		repo, err := deployments.NewFileRepository(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// ProvideDeploymentRepository narrows the store to the read/create port
func ProvideDeploymentRepository(store DeploymentStore) usecase.DeploymentRepository {
	return store
}

// ProvideDeploymentRepositoryResetter narrows the store to the reset port
func ProvideDeploymentRepositoryResetter(store DeploymentStore) usecase.DeploymentRepositoryResetter {
	return store
}

// ProvideDeployBackend creates the backend selected by cfg.Backend.
// The simulated backend only checks constructor arguments when artifacts exist,
// and reads the store so it never reuses a recorded address.
func ProvideDeployBackend(
	cfg *config.RuntimeConfig,
	artifacts *forge.ArtifactRepository,
	keys *accounts.ConfigResolver,
	records usecase.DeploymentRepository,
	log *slog.Logger,
) (usecase.DeployBackend, func(), error) {
	switch cfg.Backend {
	case config.BackendSimulated:
		var loader usecase.ArtifactLoader
		if _, err := os.Stat(cfg.ArtifactsDir); err == nil {
			loader = artifacts
		}
		return blockchain.NewSimulatedBackend(cfg, loader, records, log), func() {}, nil
	case config.BackendRPC, "":
		backend := blockchain.NewEthBackend(cfg, artifacts, keys, log)
		return backend, backend.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// ProvideContractBinder returns the backend when it can bind contracts, nil otherwise
func ProvideContractBinder(backend usecase.DeployBackend) usecase.ContractBinder {
	if binder, ok := backend.(usecase.ContractBinder); ok {
		return binder
	}
	return nil
}

// ProvideCodeChecker returns the backend when it can read chain state, nil otherwise
func ProvideCodeChecker(backend usecase.DeployBackend) usecase.CodeChecker {
	if checker, ok := backend.(usecase.CodeChecker); ok {
		return checker
	}
	return nil
}

// ProvideProgressSink renders progress on a terminal, or logs it in non-interactive runs
func ProvideProgressSink(cfg *config.RuntimeConfig, log *slog.Logger) usecase.ProgressSink {
	if cfg.NonInteractive {
		return progress.NewLogSink(log)
	}
	return progress.NewProvisionProgress(os.Stdout)
}

// StoreSet provides the persisted deployment state
var StoreSet = wire.NewSet(
	ProvideDeploymentStore,
	ProvideDeploymentRepository,
	ProvideDeploymentRepositoryResetter,
)

// ForgeSet provides forge-based implementations
var ForgeSet = wire.NewSet(
	forge.NewBuilder,
	forge.NewArtifactRepository,
	wire.Bind(new(usecase.ArtifactLoader), new(*forge.ArtifactRepository)),
)

// AccountsSet provides named accounts and their keys
var AccountsSet = wire.NewSet(
	accounts.NewConfigResolver,
	wire.Bind(new(usecase.AccountResolver), new(*accounts.ConfigResolver)),
	wire.Bind(new(usecase.KeyStore), new(*accounts.ConfigResolver)),
)

// BlockchainSet provides the deploy backend
var BlockchainSet = wire.NewSet(
	ProvideDeployBackend,
	ProvideContractBinder,
	ProvideCodeChecker,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.TagSelector), new(*interactive.SelectorAdapter)),
)

// CatalogSet provides the unit catalog
var CatalogSet = wire.NewSet(
	deployscripts.NewCatalog,
	wire.Bind(new(usecase.UnitCatalog), new(*deployscripts.Catalog)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StoreSet,
	ForgeSet,
	AccountsSet,
	BlockchainSet,
	InteractiveSet,
	CatalogSet,
	ProvideProgressSink,
)
