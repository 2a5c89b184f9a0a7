package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

func sampleRecords() []*models.DeploymentRecord {
	return []*models.DeploymentRecord{
		{Unit: "SocotraFactory", Address: "0x0000000000000000000000000000000000000001", Deployer: deployerAddress},
		{Unit: "Legacy", Address: "0x0000000000000000000000000000000000000002", Deployer: deployerAddress},
	}
}

func TestListDeployments(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewListDeployments(newMemRepository(sampleRecords()...), socotraCatalog())

	t.Run("all", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{})
		require.NoError(t, err)

		require.Len(t, result.Deployments, 2)
		assert.Equal(t, "Legacy", result.Deployments[0].Unit)
		assert.Equal(t, "SocotraFactory", result.Deployments[1].Unit)
		assert.Equal(t, []string{"VoteProxySigner"}, result.Pending)
	})

	t.Run("by tag", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{Tag: "SocotraFactory"})
		require.NoError(t, err)

		require.Len(t, result.Deployments, 1)
		assert.Equal(t, "SocotraFactory", result.Deployments[0].Unit)
		assert.Empty(t, result.Pending)
	})

	t.Run("by unit substring", func(t *testing.T) {
		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{Unit: "proxy"})
		require.NoError(t, err)

		assert.Empty(t, result.Deployments)
		assert.Equal(t, []string{"VoteProxySigner"}, result.Pending)
	})

	t.Run("storage error", func(t *testing.T) {
		repo := newMemRepository()
		repo.getErr = errors.New("locked")

		_, err := usecase.NewListDeployments(repo, socotraCatalog()).Run(ctx, usecase.ListDeploymentsParams{})
		assert.ErrorContains(t, err, "locked")
	})
}

func TestShowDeployment(t *testing.T) {
	ctx := context.Background()

	t.Run("by unit", func(t *testing.T) {
		selector := &MockDeploymentSelector{}
		uc := usecase.NewShowDeployment(newMemRepository(sampleRecords()...), socotraCatalog(), selector)

		details, err := uc.Run(ctx, usecase.ShowDeploymentParams{Unit: "SocotraFactory"})
		require.NoError(t, err)
		assert.Equal(t, "0x0000000000000000000000000000000000000001", details.Record.Address)
		require.NotNil(t, details.Unit)
		assert.True(t, details.Unit.HasTag("SocotraFactory"))
		selector.AssertNotCalled(t, "SelectDeployment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("recorded outside the catalog", func(t *testing.T) {
		uc := usecase.NewShowDeployment(newMemRepository(sampleRecords()...), socotraCatalog(), &MockDeploymentSelector{})

		details, err := uc.Run(ctx, usecase.ShowDeploymentParams{Unit: "Legacy"})
		require.NoError(t, err)
		assert.Nil(t, details.Unit)
	})

	t.Run("not deployed", func(t *testing.T) {
		uc := usecase.NewShowDeployment(newMemRepository(), socotraCatalog(), &MockDeploymentSelector{})

		_, err := uc.Run(ctx, usecase.ShowDeploymentParams{Unit: "VoteProxySigner"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("interactive selection", func(t *testing.T) {
		records := sampleRecords()
		selector := &MockDeploymentSelector{}
		selector.On("SelectDeployment", mock.Anything, mock.Anything, "Select a deployment").
			Return(&models.DeploymentRecord{Unit: "Legacy", Address: "0x0000000000000000000000000000000000000002"}, nil)
		uc := usecase.NewShowDeployment(newMemRepository(records...), socotraCatalog(), selector)

		details, err := uc.Run(ctx, usecase.ShowDeploymentParams{})
		require.NoError(t, err)
		assert.Equal(t, "Legacy", details.Record.Unit)
		selector.AssertExpectations(t)
	})

	t.Run("nothing to select", func(t *testing.T) {
		uc := usecase.NewShowDeployment(newMemRepository(), socotraCatalog(), &MockDeploymentSelector{})

		_, err := uc.Run(ctx, usecase.ShowDeploymentParams{})
		assert.ErrorContains(t, err, "no deployments recorded")
	})
}

func TestResetRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("dry run keeps records", func(t *testing.T) {
		repo := newMemRepository(sampleRecords()...)

		result, err := usecase.NewResetRegistry(repo, repo).Run(ctx, usecase.ResetRegistryParams{DryRun: true})
		require.NoError(t, err)
		assert.Len(t, result.Deployments, 2)
		assert.True(t, repo.has("SocotraFactory"))
	})

	t.Run("selected units", func(t *testing.T) {
		repo := newMemRepository(sampleRecords()...)

		result, err := usecase.NewResetRegistry(repo, repo).Run(ctx, usecase.ResetRegistryParams{Units: []string{"Legacy", "Unknown"}})
		require.NoError(t, err)
		require.Len(t, result.Deployments, 1)
		assert.False(t, repo.has("Legacy"))
		assert.True(t, repo.has("SocotraFactory"))
	})

	t.Run("reset unit is deployed again", func(t *testing.T) {
		f := newRegistry(socotraCatalog())
		first, err := f.registry.EnsureUnit(ctx, "SocotraFactory")
		require.NoError(t, err)

		_, err = usecase.NewResetRegistry(f.repo, f.repo).Run(ctx, usecase.ResetRegistryParams{})
		require.NoError(t, err)

		second, err := f.registry.EnsureUnit(ctx, "SocotraFactory")
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeDeployed, second.Outcome)
		assert.NotEqual(t, first.Record.Address, second.Record.Address)
		assert.Equal(t, 2, f.backend.calls())
	})

	t.Run("delete failure", func(t *testing.T) {
		repo := newMemRepository(sampleRecords()...)
		repo.deleteErr = errors.New("read-only")

		_, err := usecase.NewResetRegistry(repo, repo).Run(ctx, usecase.ResetRegistryParams{})
		assert.ErrorContains(t, err, "read-only")
	})
}

func TestPruneRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("removes records without code", func(t *testing.T) {
		repo := newMemRepository(sampleRecords()...)
		checker := &MockCodeChecker{}
		checker.On("HasCode", mock.Anything, "0x0000000000000000000000000000000000000001").Return(true, nil)
		checker.On("HasCode", mock.Anything, "0x0000000000000000000000000000000000000002").Return(false, nil)

		result, err := usecase.NewPruneRegistry(repo, repo, checker, nil).Run(ctx, usecase.PruneRegistryParams{})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Checked)
		require.Len(t, result.Stale, 1)
		assert.Equal(t, "Legacy", result.Stale[0].Unit)
		assert.False(t, repo.has("Legacy"))
		assert.True(t, repo.has("SocotraFactory"))
		checker.AssertExpectations(t)
	})

	t.Run("dry run", func(t *testing.T) {
		repo := newMemRepository(sampleRecords()...)
		checker := &MockCodeChecker{}
		checker.On("HasCode", mock.Anything, mock.Anything).Return(false, nil)

		result, err := usecase.NewPruneRegistry(repo, repo, checker, &recordingSink{}).Run(ctx, usecase.PruneRegistryParams{DryRun: true})
		require.NoError(t, err)
		assert.Len(t, result.Stale, 2)
		assert.True(t, repo.has("Legacy"))
	})

	t.Run("chain error", func(t *testing.T) {
		repo := newMemRepository(sampleRecords()...)
		checker := &MockCodeChecker{}
		checker.On("HasCode", mock.Anything, mock.Anything).Return(false, errors.New("connection refused"))

		_, err := usecase.NewPruneRegistry(repo, repo, checker, nil).Run(ctx, usecase.PruneRegistryParams{})
		assert.ErrorContains(t, err, "connection refused")
		assert.True(t, repo.has("Legacy"))
	})

	t.Run("no checker", func(t *testing.T) {
		repo := newMemRepository()

		_, err := usecase.NewPruneRegistry(repo, repo, nil, nil).Run(ctx, usecase.PruneRegistryParams{})
		assert.ErrorContains(t, err, "--backend rpc")
	})
}

func TestListAccounts(t *testing.T) {
	catalog := catalogOf(
		&models.Unit{Name: "SocotraFactory"},
		&models.Unit{Name: "VoteProxySigner"},
		&models.Unit{Name: "Treasury", From: "user"},
	)

	result, err := usecase.NewListAccounts(devAccounts(), catalog).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Accounts, 2)
	assert.Equal(t, "deployer", result.Accounts[0].Name)
	assert.Equal(t, []string{"SocotraFactory", "VoteProxySigner"}, result.Accounts[0].Units)
	assert.Equal(t, "user", result.Accounts[1].Name)
	assert.Equal(t, []string{"Treasury"}, result.Accounts[1].Units)
}
