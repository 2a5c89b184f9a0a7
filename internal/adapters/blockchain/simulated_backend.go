package blockchain

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/config"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// SimulatedBackend assigns CREATE addresses without talking to a node.
// Used for dry rehearsals of a deploy run and in tests.
//
// Nonces live in memory, so each deployer's nonce is advanced past every
// address the persisted state already records. A later process never hands
// out an address that belongs to another unit.
type SimulatedBackend struct {
	chainID   uint64
	artifacts usecase.ArtifactLoader       // optional, validates constructor args when set
	records   usecase.DeploymentRepository // optional, addresses already taken
	log       *slog.Logger

	mu     sync.Mutex
	nonces map[common.Address]uint64
	code   map[common.Address]string // address -> artifact
	block  uint64
}

// NewSimulatedBackend creates a simulated backend for cfg.Network
func NewSimulatedBackend(
	cfg *config.RuntimeConfig,
	artifacts usecase.ArtifactLoader,
	records usecase.DeploymentRepository,
	log *slog.Logger,
) *SimulatedBackend {
	var chainID uint64
	if cfg.Network != nil {
		chainID = cfg.Network.ChainID
	}
	return &SimulatedBackend{
		chainID:   chainID,
		artifacts: artifacts,
		records:   records,
		log:       log.With("component", "SimulatedBackend"),
		nonces:    make(map[common.Address]uint64),
		code:      make(map[common.Address]string),
	}
}

// Deploy assigns the next CREATE address of the deployer
func (b *SimulatedBackend) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployReceipt, error) {
	if !common.IsHexAddress(req.Deployer.Address) {
		return nil, fmt.Errorf("%w: deployer %s has address %q", domain.ErrInvalidAddress, req.Deployer.Name, req.Deployer.Address)
	}

	if b.artifacts != nil {
		artifact, err := b.artifacts.LoadArtifact(ctx, req.Artifact)
		if err != nil {
			return nil, err
		}
		if _, err := packConstructorArgs(artifact.ABI, req.Args); err != nil {
			return nil, fmt.Errorf("invalid constructor arguments for %s: %w", req.Artifact, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from := common.HexToAddress(req.Deployer.Address)

	taken, err := b.recordedAddresses(ctx)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	nonce := b.nonces[from]
	address := crypto.CreateAddress(from, nonce)
	for taken[address] {
		nonce++
		address = crypto.CreateAddress(from, nonce)
	}

	b.nonces[from] = nonce + 1
	b.code[address] = req.Artifact
	b.block++

	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], nonce)
	txHash := crypto.Keccak256Hash(from.Bytes(), nonceBytes[:])

	b.log.Debug("simulated deployment", "unit", req.Unit, "address", address.Hex(), "nonce", nonce)
	return &usecase.DeployReceipt{
		Address:     address.Hex(),
		ChainID:     b.chainID,
		TxHash:      txHash.Hex(),
		BlockNumber: b.block,
	}, nil
}

// recordedAddresses returns the addresses the persisted state already holds
func (b *SimulatedBackend) recordedAddresses(ctx context.Context) (map[common.Address]bool, error) {
	if b.records == nil {
		return nil, nil
	}
	records, err := b.records.ListDeployments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read recorded deployments: %w", err)
	}
	taken := make(map[common.Address]bool, len(records))
	for _, record := range records {
		taken[common.HexToAddress(record.Address)] = true
	}
	return taken, nil
}

// CodeAt reports which artifact was deployed at address
func (b *SimulatedBackend) CodeAt(address string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	artifact, ok := b.code[common.HexToAddress(address)]
	return artifact, ok
}

var _ usecase.DeployBackend = (*SimulatedBackend)(nil)
