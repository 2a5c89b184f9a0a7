package accounts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/config"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// DevChainID is the chain ID of local anvil and hardhat nodes
const DevChainID = 31337

// devAccounts are the first well-known anvil/hardhat accounts. They are only
// used on the dev chain when socotra.toml does not define the name.
var devAccounts = map[string]string{
	"deployer": "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"user":     "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
}

type entry struct {
	address common.Address
	key     *ecdsa.PrivateKey // nil for address-only accounts
}

// ConfigResolver resolves named accounts from the [accounts] tables of socotra.toml
type ConfigResolver struct {
	configs map[string]config.AccountConfig
	dev     bool

	once    sync.Once
	entries map[string]entry
	err     error
}

// NewConfigResolver creates a resolver over cfg.Accounts
func NewConfigResolver(cfg *config.RuntimeConfig) *ConfigResolver {
	return &ConfigResolver{
		configs: cfg.Accounts,
		dev:     cfg.Network != nil && cfg.Network.ChainID == DevChainID,
	}
}

func (r *ConfigResolver) load() (map[string]entry, error) {
	r.once.Do(func() {
		r.entries = make(map[string]entry)
		if r.dev {
			for name, key := range devAccounts {
				e, err := parseAccount(name, config.AccountConfig{PrivateKey: key})
				if err != nil {
					r.err = err
					return
				}
				r.entries[name] = e
			}
		}
		for name, cfg := range r.configs {
			e, err := parseAccount(name, cfg)
			if err != nil {
				r.err = err
				return
			}
			r.entries[name] = e
		}
	})
	return r.entries, r.err
}

func parseAccount(name string, cfg config.AccountConfig) (entry, error) {
	if cfg.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return entry{}, fmt.Errorf("account %s: invalid private key: %w", name, err)
		}
		address := crypto.PubkeyToAddress(key.PublicKey)
		if cfg.Address != "" && !strings.EqualFold(cfg.Address, address.Hex()) {
			return entry{}, fmt.Errorf("account %s: private key belongs to %s, not %s", name, address.Hex(), cfg.Address)
		}
		return entry{address: address, key: key}, nil
	}

	if !common.IsHexAddress(cfg.Address) {
		return entry{}, fmt.Errorf("account %s: %w: %q", name, domain.ErrInvalidAddress, cfg.Address)
	}
	return entry{address: common.HexToAddress(cfg.Address)}, nil
}

// ResolveAccount returns the address of a named account
func (r *ConfigResolver) ResolveAccount(ctx context.Context, name string) (models.Account, error) {
	entries, err := r.load()
	if err != nil {
		return models.Account{}, err
	}
	e, ok := entries[name]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, name)
	}
	return models.Account{Name: name, Address: e.address.Hex()}, nil
}

// ListAccounts returns all named accounts sorted by name
func (r *ConfigResolver) ListAccounts(ctx context.Context) ([]models.Account, error) {
	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	accounts := make([]models.Account, 0, len(names))
	for _, name := range names {
		accounts = append(accounts, models.Account{Name: name, Address: entries[name].address.Hex()})
	}
	return accounts, nil
}

// PrivateKey returns the signing key of a named account
func (r *ConfigResolver) PrivateKey(name string) (*ecdsa.PrivateKey, error) {
	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	e, ok := entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, name)
	}
	if e.key == nil {
		return nil, fmt.Errorf("account %s has no private key and cannot sign", name)
	}
	return e.key, nil
}

var (
	_ usecase.AccountResolver = (*ConfigResolver)(nil)
	_ usecase.KeyStore        = (*ConfigResolver)(nil)
)
