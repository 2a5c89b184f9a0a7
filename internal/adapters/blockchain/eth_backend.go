package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/socotra-protocol/contracts/internal/domain/config"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// EthBackend deploys artifacts over JSON-RPC using ethclient
type EthBackend struct {
	network   *config.Network
	artifacts usecase.ArtifactLoader
	keys      usecase.KeyStore
	timeout   time.Duration
	log       *slog.Logger

	mu      sync.Mutex
	client  *ethclient.Client
	chainID *big.Int
}

// NewEthBackend creates a new backend for cfg.Network. The connection is
// established on first use.
func NewEthBackend(cfg *config.RuntimeConfig, artifacts usecase.ArtifactLoader, keys usecase.KeyStore, log *slog.Logger) *EthBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &EthBackend{
		network:   cfg.Network,
		artifacts: artifacts,
		keys:      keys,
		timeout:   timeout,
		log:       log.With("component", "EthBackend"),
	}
}

// connect establishes connection to the blockchain and verifies the chain ID
func (b *EthBackend) connect(ctx context.Context) (*ethclient.Client, *big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		return b.client, b.chainID, nil
	}
	if b.network == nil || b.network.RPCURL == "" {
		return nil, nil, fmt.Errorf("no RPC URL configured")
	}

	client, err := ethclient.DialContext(ctx, b.network.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	// If chainID was 0, use the network's chain ID
	if b.network.ChainID != 0 && networkChainID.Uint64() != b.network.ChainID {
		client.Close()
		return nil, nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", b.network.ChainID, networkChainID.Uint64())
	}

	b.log.Debug("connected", "rpc", b.network.RPCURL, "chainId", networkChainID)
	b.client = client
	b.chainID = networkChainID
	return client, networkChainID, nil
}

// Deploy sends a create transaction for the artifact and waits until the
// contract code is on chain
func (b *EthBackend) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployReceipt, error) {
	client, chainID, err := b.connect(ctx)
	if err != nil {
		return nil, err
	}

	artifact, err := b.artifacts.LoadArtifact(ctx, req.Artifact)
	if err != nil {
		return nil, err
	}
	args, err := packConstructorArgs(artifact.ABI, req.Args)
	if err != nil {
		return nil, fmt.Errorf("invalid constructor arguments for %s: %w", req.Artifact, err)
	}

	key, err := b.keys.PrivateKey(req.Deployer.Name)
	if err != nil {
		return nil, err
	}
	from, err := signerAddress(key, req.Deployer)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce of %s: %w", from.Hex(), err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.Nonce = new(big.Int).SetUint64(nonce)

	b.log.Debug("sending deployment", "unit", req.Unit, "artifact", req.Artifact, "from", from.Hex(), "nonce", nonce)
	address, tx, _, err := bind.DeployContract(opts, *artifact.ABI, artifact.Bytecode, client, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment of %s: %w", req.Artifact, err)
	}

	if _, err := bind.WaitDeployed(ctx, client, tx); err != nil {
		return nil, fmt.Errorf("deployment of %s (tx %s) failed: %w", req.Artifact, tx.Hash().Hex(), err)
	}

	receipt := &usecase.DeployReceipt{
		Address: address.Hex(),
		ChainID: chainID.Uint64(),
		TxHash:  tx.Hash().Hex(),
	}
	if mined, err := client.TransactionReceipt(ctx, tx.Hash()); err == nil && mined.BlockNumber != nil {
		receipt.BlockNumber = mined.BlockNumber.Uint64()
	}
	return receipt, nil
}

// BindContract returns a callable handle for a recorded deployment
func (b *EthBackend) BindContract(ctx context.Context, record *models.DeploymentRecord, artifactName string) (*bind.BoundContract, error) {
	client, _, err := b.connect(ctx)
	if err != nil {
		return nil, err
	}
	artifact, err := b.artifacts.LoadArtifact(ctx, artifactName)
	if err != nil {
		return nil, err
	}
	address := common.HexToAddress(record.Address)
	return bind.NewBoundContract(address, *artifact.ABI, client, client, client), nil
}

// HasCode reports whether the address holds contract code at the latest block
func (b *EthBackend) HasCode(ctx context.Context, address string) (bool, error) {
	client, _, err := b.connect(ctx)
	if err != nil {
		return false, err
	}
	code, err := client.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return false, fmt.Errorf("failed to get code at %s: %w", address, err)
	}
	return len(code) > 0, nil
}

// Close releases the RPC connection
func (b *EthBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		b.client.Close()
		b.client = nil
	}
}

// signerAddress checks that the key belongs to the named account
func signerAddress(key *ecdsa.PrivateKey, account models.Account) (common.Address, error) {
	from := crypto.PubkeyToAddress(key.PublicKey)
	if account.Address != "" && !strings.EqualFold(account.Address, from.Hex()) {
		return common.Address{}, fmt.Errorf("key of account %s signs as %s, not %s", account.Name, from.Hex(), account.Address)
	}
	return from, nil
}

var (
	_ usecase.DeployBackend  = (*EthBackend)(nil)
	_ usecase.ContractBinder = (*EthBackend)(nil)
	_ usecase.CodeChecker    = (*EthBackend)(nil)
)
