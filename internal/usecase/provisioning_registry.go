package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"golang.org/x/sync/singleflight"
)

// ProvisioningRegistry deploys named units at most once per persisted state.
//
// A unit that already has a record is returned as is, regardless of the
// arguments or deployer passed in. A unit without a record is deployed
// through the backend and recorded only after the backend reports success.
// Prerequisites declared in the catalog are ensured first, in dependency order.
type ProvisioningRegistry struct {
	repo     DeploymentRepository
	backend  DeployBackend
	accounts AccountResolver
	catalog  UnitCatalog
	sink     ProgressSink
	log      *slog.Logger
	now      func() time.Time

	// at most one ensure in flight per unit name
	flight singleflight.Group
}

// NewProvisioningRegistry creates a new provisioning registry
func NewProvisioningRegistry(
	repo DeploymentRepository,
	backend DeployBackend,
	accounts AccountResolver,
	catalog UnitCatalog,
	sink ProgressSink,
	log *slog.Logger,
) *ProvisioningRegistry {
	return &ProvisioningRegistry{
		repo:     repo,
		backend:  backend,
		accounts: accounts,
		catalog:  catalog,
		sink:     sink,
		log:      log.With("component", "ProvisioningRegistry"),
		now:      time.Now,
	}
}

// Resolve looks the unit up in the persisted state. It never deploys anything.
func (r *ProvisioningRegistry) Resolve(ctx context.Context, unit string) (models.Lookup, error) {
	record, err := r.repo.GetDeployment(ctx, unit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return models.Absent(), nil
		}
		return models.Lookup{}, asStorageError("read", err)
	}
	return models.Present(record), nil
}

// Validate checks the whole unit catalog for missing prerequisites and cycles
func (r *ProvisioningRegistry) Validate() error {
	return NewDependencyGraph(r.catalog.Units()).Validate()
}

// Plan returns the deployment order for the given units and their prerequisites
func (r *ProvisioningRegistry) Plan(units ...string) ([]string, error) {
	return NewDependencyGraph(r.catalog.Units()).Plan(units...)
}

// EnsureUnit ensures a catalog unit using its declared arguments and deployer
func (r *ProvisioningRegistry) EnsureUnit(ctx context.Context, unit string) (*models.EnsureResult, error) {
	def, ok := r.catalog.Units()[unit]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownUnit, unit)
	}

	deployer, err := r.accounts.ResolveAccount(ctx, def.DeployerName())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deployer for %s: %w", unit, err)
	}

	return r.Ensure(ctx, unit, nil, deployer)
}

// Ensure returns the record for unit, deploying it first if it has none.
//
// A nil args slice means "use the arguments declared in the catalog".
// Prerequisites are ensured (never merely resolved) before the unit itself,
// and a dependency cycle is reported before any deployment is attempted.
func (r *ProvisioningRegistry) Ensure(ctx context.Context, unit string, args []any, deployer models.Account) (*models.EnsureResult, error) {
	units := r.catalog.Units()

	plan, err := NewDependencyGraph(units).Plan(unit)
	if err != nil {
		return nil, err
	}

	addresses := make(map[string]string, len(plan))
	for _, name := range plan[:len(plan)-1] {
		def := units[name]

		depDeployer, err := r.accounts.ResolveAccount(ctx, def.DeployerName())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve deployer for %s: %w", name, err)
		}

		depArgs, err := r.resolveArgs(ctx, def, addresses)
		if err != nil {
			return nil, err
		}

		result, err := r.ensureOne(ctx, name, depArgs, depDeployer, def, false)
		if err != nil {
			return nil, err
		}
		addresses[name] = result.Record.Address
	}

	def := units[unit]
	if args == nil && def != nil {
		if args, err = r.resolveArgs(ctx, def, addresses); err != nil {
			return nil, err
		}
	}

	return r.ensureOne(ctx, unit, args, deployer, def, true)
}

// ensureOne runs the absent/present transition for a single unit.
// Reuse of prerequisites is only logged at debug level.
//
// The shared call runs detached from the cancellation of whichever caller
// started it, so a caller that gives up never fails the others waiting on
// the same unit. Once started, a deploy runs until the backend returns.
func (r *ProvisioningRegistry) ensureOne(
	ctx context.Context,
	unit string,
	args []any,
	deployer models.Account,
	def *models.Unit,
	announceReuse bool,
) (*models.EnsureResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := r.flight.DoChan(unit, func() (any, error) {
		ctx := flightCtx
		lookup, err := r.Resolve(ctx, unit)
		if err != nil {
			return nil, err
		}
		if lookup.Found() {
			if announceReuse {
				r.sink.Info(fmt.Sprintf("reusing %q at %s", unit, lookup.Record.Address))
			}
			r.log.Debug("reusing unit", "unit", unit, "address", lookup.Record.Address)
			return &models.EnsureResult{Record: lookup.Record, Outcome: models.OutcomeReused}, nil
		}

		return r.deploy(ctx, unit, args, deployer, def)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.log.Debug("joined in-flight ensure", "unit", unit)
		}
		return res.Val.(*models.EnsureResult), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// deploy calls the backend and records the result. Nothing is written unless
// the backend reports success.
func (r *ProvisioningRegistry) deploy(
	ctx context.Context,
	unit string,
	args []any,
	deployer models.Account,
	def *models.Unit,
) (*models.EnsureResult, error) {
	artifact := unit
	if def != nil {
		artifact = def.ArtifactName()
		if def.LogDeployer {
			r.sink.Info(fmt.Sprintf("deployer address: %s", deployer.Address))
		}
	}

	r.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Message: fmt.Sprintf("Deploying %s", unit),
		Spinner: true,
	})
	r.log.Debug("deploying unit", "unit", unit, "artifact", artifact, "deployer", deployer.Address, "args", args)

	receipt, err := r.backend.Deploy(ctx, DeployRequest{
		Unit:     unit,
		Artifact: artifact,
		Deployer: deployer,
		Args:     args,
	})
	if err != nil {
		r.sink.Error(fmt.Sprintf("failed to deploy %q: %v", unit, err))
		return nil, &domain.DeployBackendError{Unit: unit, Err: err}
	}
	if receipt == nil || receipt.Address == "" {
		return nil, &domain.DeployBackendError{Unit: unit, Err: errors.New("backend reported no address")}
	}

	if args == nil {
		args = []any{}
	}
	record := &models.DeploymentRecord{
		Unit:        unit,
		Address:     receipt.Address,
		Args:        args,
		Deployer:    deployer.Address,
		ChainID:     receipt.ChainID,
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
		DeployedAt:  r.now(),
	}

	if err := r.repo.CreateDeployment(ctx, record); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Recorded by another writer since our lookup. Theirs wins.
			existing, getErr := r.repo.GetDeployment(ctx, unit)
			if getErr != nil {
				return nil, asStorageError("read", getErr)
			}
			r.log.Warn("unit recorded concurrently, keeping existing record", "unit", unit, "address", existing.Address)
			return &models.EnsureResult{Record: existing, Outcome: models.OutcomeReused}, nil
		}
		return nil, asStorageError("write", err)
	}

	r.sink.Info(fmt.Sprintf("deployed %q at %s", unit, record.Address))
	return &models.EnsureResult{Record: record.Clone(), Outcome: models.OutcomeDeployed}, nil
}

// resolveArgs turns declared arguments into concrete constructor values
func (r *ProvisioningRegistry) resolveArgs(ctx context.Context, def *models.Unit, addresses map[string]string) ([]any, error) {
	args := make([]any, 0, len(def.Args))
	for _, arg := range def.Args {
		switch arg.Kind {
		case models.ArgAccount:
			account, err := r.accounts.ResolveAccount(ctx, arg.Ref())
			if err != nil {
				return nil, fmt.Errorf("failed to resolve argument %s of %s: %w", arg, def.Name, err)
			}
			args = append(args, account.Address)
		case models.ArgUnit:
			addr, ok := addresses[arg.Ref()]
			if !ok {
				return nil, fmt.Errorf("argument %s of %s is not a declared prerequisite", arg, def.Name)
			}
			args = append(args, addr)
		default:
			args = append(args, arg.Value)
		}
	}
	return args, nil
}

// asStorageError classifies a repository failure as StorageUnavailable
func asStorageError(op string, err error) error {
	var storageErr *domain.StorageUnavailableError
	if errors.As(err, &storageErr) {
		return err
	}
	return &domain.StorageUnavailableError{Op: op, Err: err}
}
