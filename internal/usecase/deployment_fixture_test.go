package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

func newDeploymentFixtures(f *registryFixture, catalog staticCatalog) *usecase.DeploymentFixtures {
	provision := usecase.NewProvisionTags(f.registry, catalog, f.sink, discardLogger())
	return usecase.NewDeploymentFixtures(provision, devAccounts(), catalog, nil)
}

func TestDeploymentFixtures_ProvisionOncePerRun(t *testing.T) {
	ctx := context.Background()
	catalog := socotraCatalog()
	f := newRegistry(catalog)
	fixtures := newDeploymentFixtures(f, catalog)

	first, err := fixtures.Fixture(ctx, "SocotraFactory")
	require.NoError(t, err)
	second, err := fixtures.Fixture(ctx, "SocotraFactory")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.backend.calls())

	record, ok := first.Deployment("SocotraFactory")
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress(record.Address), first.Address("SocotraFactory"))
	assert.Equal(t, common.Address{}, first.Address("VoteProxySigner"))

	account, err := first.Account("deployer")
	require.NoError(t, err)
	assert.Equal(t, deployerAddress, account.Address)

	_, err = first.Account("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownAccount)
}

func TestDeploymentFixtures_TagOrderDoesNotMatter(t *testing.T) {
	ctx := context.Background()
	catalog := socotraCatalog()
	fixtures := newDeploymentFixtures(newRegistry(catalog), catalog)

	a, err := fixtures.Fixture(ctx, "SocotraFactory", "VoteProxySigner")
	require.NoError(t, err)
	b, err := fixtures.Fixture(ctx, "VoteProxySigner", "SocotraFactory", "SocotraFactory")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, "SocotraFactory,VoteProxySigner", a.Tag)
	assert.Len(t, a.Deployments, 2)
}

func TestDeploymentFixtures_NewRunReusesPersistedState(t *testing.T) {
	ctx := context.Background()
	catalog := socotraCatalog()
	f := newRegistry(catalog)

	first, err := newDeploymentFixtures(f, catalog).Fixture(ctx, "SocotraFactory")
	require.NoError(t, err)

	// A fresh cache is a new run against the same persisted state
	second, err := newDeploymentFixtures(f, catalog).Fixture(ctx, "SocotraFactory")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Address("SocotraFactory"), second.Address("SocotraFactory"))
	assert.Equal(t, 1, f.backend.calls())
}

func TestDeploymentFixtures_FailureIsRetried(t *testing.T) {
	ctx := context.Background()
	catalog := socotraCatalog()
	f := newRegistry(catalog)
	fixtures := newDeploymentFixtures(f, catalog)
	f.backend.failures["SocotraFactory"] = errors.New("nonce too low")

	_, err := fixtures.Fixture(ctx, "SocotraFactory")
	var fixtureErr *domain.FixtureProvisionError
	require.ErrorAs(t, err, &fixtureErr)
	var backendErr *domain.DeployBackendError
	assert.ErrorAs(t, err, &backendErr)

	delete(f.backend.failures, "SocotraFactory")
	fixture, err := fixtures.Fixture(ctx, "SocotraFactory")
	require.NoError(t, err)
	assert.NotEqual(t, common.Address{}, fixture.Address("SocotraFactory"))
}

func TestFixture_ContractWithoutChainClient(t *testing.T) {
	ctx := context.Background()
	catalog := socotraCatalog()
	fixtures := newDeploymentFixtures(newRegistry(catalog), catalog)

	fixture, err := fixtures.Fixture(ctx, "SocotraFactory")
	require.NoError(t, err)

	_, err = fixture.Contract(ctx, "VoteProxySigner")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fixture.Contract(ctx, "SocotraFactory")
	assert.ErrorContains(t, err, "no chain client")
}
