package config

import (
	"time"

	"github.com/socotra-protocol/contracts/internal/domain/models"
)

// Store kinds for the persisted deployment state
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Backend kinds for the deploy backend
const (
	BackendRPC       = "rpc"
	BackendSimulated = "simulated"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string // per-network directory holding the persisted state

	// Context settings
	Network *Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration
	DryRun         bool

	// Deployment settings
	Store        string // "json" or "sqlite"
	Backend      string // "rpc" or "simulated"
	Build        bool   // run forge build before deploying
	ArtifactsDir string

	// Resolved configurations
	Accounts map[string]AccountConfig
	Manifest map[string]*models.Unit // units declared in deploy.yaml
}

// Network represents network configuration
type Network struct {
	Name    string `json:"name"`
	ChainID uint64 `json:"chainId"`
	RPCURL  string `json:"rpcUrl"`
}
