package usecase

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/socotra-protocol/contracts/internal/domain/models"
)

// DeploymentRepository is the persisted state of deployed units, keyed by unit name
type DeploymentRepository interface {
	// GetDeployment returns domain.ErrNotFound when the unit has no record
	GetDeployment(ctx context.Context, unit string) (*models.DeploymentRecord, error)
	ListDeployments(ctx context.Context) ([]*models.DeploymentRecord, error)
	// CreateDeployment stores a new record and returns domain.ErrAlreadyExists
	// if the unit already has one
	CreateDeployment(ctx context.Context, record *models.DeploymentRecord) error
}

// DeploymentRepositoryResetter removes records. Only the reset use case needs it.
type DeploymentRepositoryResetter interface {
	DeleteDeployments(ctx context.Context, units []string) error
}

// DeployRequest is everything the deploy backend needs to deploy one unit
type DeployRequest struct {
	Unit     string
	Artifact string
	Deployer models.Account
	Args     []any
}

// DeployReceipt is what the deploy backend reports on success
type DeployReceipt struct {
	Address     string
	ChainID     uint64
	TxHash      string
	BlockNumber uint64
}

// DeployBackend performs deployments
type DeployBackend interface {
	Deploy(ctx context.Context, req DeployRequest) (*DeployReceipt, error)
}

// ContractBinder binds a deployed unit to a callable contract handle
type ContractBinder interface {
	BindContract(ctx context.Context, record *models.DeploymentRecord, artifact string) (*bind.BoundContract, error)
}

// CodeChecker reports whether contract code exists at an address
type CodeChecker interface {
	HasCode(ctx context.Context, address string) (bool, error)
}

// AccountResolver resolves named accounts such as "deployer"
type AccountResolver interface {
	ResolveAccount(ctx context.Context, name string) (models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// KeyStore hands out signing keys for named accounts
type KeyStore interface {
	PrivateKey(name string) (*ecdsa.PrivateKey, error)
}

// Artifact is a compiled contract
type Artifact struct {
	Name     string
	ABI      *abi.ABI
	Bytecode []byte
}

// ArtifactLoader loads compiled artifacts by contract name
type ArtifactLoader interface {
	LoadArtifact(ctx context.Context, name string) (*Artifact, error)
}

// ArtifactBuilder compiles the project's artifacts
type ArtifactBuilder interface {
	Build(ctx context.Context) error
}

// UnitCatalog lists the units that can be provisioned
type UnitCatalog interface {
	Units() map[string]*models.Unit
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata any
}

// ProgressSink receives progress events and the human readable deployment log.
// Implementations must not fail the caller.
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// DeploymentSelector handles interactive selection of deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, records []*models.DeploymentRecord, prompt string) (*models.DeploymentRecord, error)
}

// TagSelector handles interactive selection of tags to provision
type TagSelector interface {
	SelectTags(ctx context.Context, tags []string, title string) ([]string, error)
}
