package accounts

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	anvilDeployer = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	anvilUser     = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func runtimeConfig(chainID uint64, accounts map[string]config.AccountConfig) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Network:  &config.Network{Name: "test", ChainID: chainID},
		Accounts: accounts,
	}
}

func TestConfigResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("dev chain provides default accounts", func(t *testing.T) {
		resolver := NewConfigResolver(runtimeConfig(DevChainID, nil))

		deployer, err := resolver.ResolveAccount(ctx, "deployer")
		require.NoError(t, err)
		assert.Equal(t, anvilDeployer, deployer.Address)

		user, err := resolver.ResolveAccount(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, anvilUser, user.Address)
	})

	t.Run("configured accounts override dev accounts", func(t *testing.T) {
		resolver := NewConfigResolver(runtimeConfig(DevChainID, map[string]config.AccountConfig{
			"deployer": {Address: anvilUser},
		}))

		deployer, err := resolver.ResolveAccount(ctx, "deployer")
		require.NoError(t, err)
		assert.Equal(t, anvilUser, deployer.Address)

		_, err = resolver.PrivateKey("deployer")
		assert.ErrorContains(t, err, "cannot sign")
	})

	t.Run("no dev accounts on other chains", func(t *testing.T) {
		resolver := NewConfigResolver(runtimeConfig(11155111, nil))

		_, err := resolver.ResolveAccount(ctx, "deployer")
		assert.ErrorIs(t, err, domain.ErrUnknownAccount)
	})

	t.Run("private key derives the address", func(t *testing.T) {
		resolver := NewConfigResolver(runtimeConfig(1, map[string]config.AccountConfig{
			"deployer": {PrivateKey: "0x" + devAccounts["deployer"]},
		}))

		deployer, err := resolver.ResolveAccount(ctx, "deployer")
		require.NoError(t, err)
		assert.Equal(t, anvilDeployer, deployer.Address)

		key, err := resolver.PrivateKey("deployer")
		require.NoError(t, err)
		assert.Equal(t, anvilDeployer, crypto.PubkeyToAddress(key.PublicKey).Hex())
	})

	t.Run("mismatched key and address", func(t *testing.T) {
		resolver := NewConfigResolver(runtimeConfig(1, map[string]config.AccountConfig{
			"deployer": {PrivateKey: devAccounts["deployer"], Address: anvilUser},
		}))

		_, err := resolver.ResolveAccount(ctx, "deployer")
		assert.ErrorContains(t, err, "private key belongs to")
	})

	t.Run("invalid address", func(t *testing.T) {
		resolver := NewConfigResolver(runtimeConfig(1, map[string]config.AccountConfig{
			"treasury": {Address: "not-an-address"},
		}))

		_, err := resolver.ListAccounts(ctx)
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})

	t.Run("lists accounts sorted by name", func(t *testing.T) {
		resolver := NewConfigResolver(runtimeConfig(DevChainID, map[string]config.AccountConfig{
			"admin": {Address: anvilUser},
		}))

		accounts, err := resolver.ListAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 3)
		assert.Equal(t, "admin", accounts[0].Name)
		assert.Equal(t, "deployer", accounts[1].Name)
		assert.Equal(t, "user", accounts[2].Name)
	})
}
