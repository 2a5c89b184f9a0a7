package deployments_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/socotra-protocol/contracts/internal/adapters/repository/deployments"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store interface {
	usecase.DeploymentRepository
	usecase.DeploymentRepositoryResetter
}

func newRecord(unit, address string) *models.DeploymentRecord {
	return &models.DeploymentRecord{
		Unit:        unit,
		Address:     address,
		Args:        []any{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
		Deployer:    "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		ChainID:     31337,
		TxHash:      "0xabc",
		BlockNumber: 7,
		DeployedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func repositories() map[string]func(t *testing.T, dir string) store {
	return map[string]func(t *testing.T, dir string) store{
		"json": func(t *testing.T, dir string) store {
			repo, err := deployments.NewFileRepository(dir)
			require.NoError(t, err)
			return repo
		},
		"sqlite": func(t *testing.T, dir string) store {
			repo, err := deployments.NewSQLiteRepository(dir)
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	}
}

func TestDeploymentRepositories(t *testing.T) {
	ctx := context.Background()

	for name, open := range repositories() {
		t.Run(name, func(t *testing.T) {
			t.Run("create and retrieve deployment", func(t *testing.T) {
				repo := open(t, t.TempDir())

				record := newRecord("SocotraFactory", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
				require.NoError(t, repo.CreateDeployment(ctx, record))

				retrieved, err := repo.GetDeployment(ctx, "SocotraFactory")
				require.NoError(t, err)
				assert.Equal(t, record.Address, retrieved.Address)
				assert.Equal(t, record.Args, retrieved.Args)
				assert.Equal(t, record.Deployer, retrieved.Deployer)
				assert.Equal(t, record.ChainID, retrieved.ChainID)
				assert.Equal(t, record.TxHash, retrieved.TxHash)
				assert.Equal(t, record.BlockNumber, retrieved.BlockNumber)
				assert.True(t, record.DeployedAt.Equal(retrieved.DeployedAt))
			})

			t.Run("missing unit is not found", func(t *testing.T) {
				repo := open(t, t.TempDir())

				_, err := repo.GetDeployment(ctx, "SocotraFactory")
				assert.ErrorIs(t, err, domain.ErrNotFound)
			})

			t.Run("records are never overwritten", func(t *testing.T) {
				repo := open(t, t.TempDir())

				require.NoError(t, repo.CreateDeployment(ctx, newRecord("SocotraFactory", "0x01")))
				err := repo.CreateDeployment(ctx, newRecord("SocotraFactory", "0x02"))
				assert.ErrorIs(t, err, domain.ErrAlreadyExists)

				retrieved, err := repo.GetDeployment(ctx, "SocotraFactory")
				require.NoError(t, err)
				assert.Equal(t, "0x01", retrieved.Address)
			})

			t.Run("empty args survive a reload", func(t *testing.T) {
				dir := t.TempDir()
				repo := open(t, dir)

				record := newRecord("SocotraFactory", "0x01")
				record.Args = []any{}
				require.NoError(t, repo.CreateDeployment(ctx, record))

				reopened := open(t, dir)
				retrieved, err := reopened.GetDeployment(ctx, "SocotraFactory")
				require.NoError(t, err)
				assert.NotNil(t, retrieved.Args)
				assert.Empty(t, retrieved.Args)
			})

			t.Run("persists across reopen", func(t *testing.T) {
				dir := t.TempDir()
				repo := open(t, dir)
				require.NoError(t, repo.CreateDeployment(ctx, newRecord("VoteProxySigner", "0x02")))
				require.NoError(t, repo.CreateDeployment(ctx, newRecord("SocotraFactory", "0x01")))

				reopened := open(t, dir)
				records, err := reopened.ListDeployments(ctx)
				require.NoError(t, err)
				require.Len(t, records, 2)
				assert.Equal(t, "SocotraFactory", records[0].Unit)
				assert.Equal(t, "VoteProxySigner", records[1].Unit)
			})

			t.Run("delete deployments", func(t *testing.T) {
				repo := open(t, t.TempDir())
				require.NoError(t, repo.CreateDeployment(ctx, newRecord("SocotraFactory", "0x01")))
				require.NoError(t, repo.CreateDeployment(ctx, newRecord("VoteProxySigner", "0x02")))

				require.NoError(t, repo.DeleteDeployments(ctx, []string{"VoteProxySigner", "Unknown"}))

				_, err := repo.GetDeployment(ctx, "VoteProxySigner")
				assert.ErrorIs(t, err, domain.ErrNotFound)
				_, err = repo.GetDeployment(ctx, "SocotraFactory")
				assert.NoError(t, err)
			})

			t.Run("returned records are copies", func(t *testing.T) {
				repo := open(t, t.TempDir())
				require.NoError(t, repo.CreateDeployment(ctx, newRecord("SocotraFactory", "0x01")))

				first, err := repo.GetDeployment(ctx, "SocotraFactory")
				require.NoError(t, err)
				first.Address = "0xmutated"

				second, err := repo.GetDeployment(ctx, "SocotraFactory")
				require.NoError(t, err)
				assert.Equal(t, "0x01", second.Address)
			})

			t.Run("concurrent creates keep exactly one record", func(t *testing.T) {
				repo := open(t, t.TempDir())

				var wg sync.WaitGroup
				errs := make([]error, 8)
				for i := range errs {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						errs[i] = repo.CreateDeployment(ctx, newRecord("SocotraFactory", "0x01"))
					}(i)
				}
				wg.Wait()

				succeeded := 0
				for _, err := range errs {
					if err == nil {
						succeeded++
					} else {
						assert.ErrorIs(t, err, domain.ErrAlreadyExists)
					}
				}
				assert.Equal(t, 1, succeeded)
			})
		})
	}
}

func TestDeploymentRepositories_SecondHandleOnSameState(t *testing.T) {
	ctx := context.Background()

	for name, open := range repositories() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			first := open(t, dir)
			second := open(t, dir)

			require.NoError(t, first.CreateDeployment(ctx, newRecord("SocotraFactory", "0x01")))
			require.NoError(t, second.CreateDeployment(ctx, newRecord("VoteProxySigner", "0x02")))

			err := second.CreateDeployment(ctx, newRecord("SocotraFactory", "0x03"))
			assert.ErrorIs(t, err, domain.ErrAlreadyExists)

			records, err := open(t, dir).ListDeployments(ctx)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "0x01", records[0].Address)
			assert.Equal(t, "0x02", records[1].Address)
		})
	}
}

func TestFileRepository_StorageFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt registry file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, deployments.DeploymentsFile), []byte("{not json"), 0644))

		_, err := deployments.NewFileRepository(dir)
		var storageErr *domain.StorageUnavailableError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "open", storageErr.Op)
	})

	t.Run("failed write leaves no record", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "localhost")
		repo, err := deployments.NewFileRepository(dir)
		require.NoError(t, err)

		// Replace the data directory with a file so the write fails
		require.NoError(t, os.RemoveAll(dir))
		require.NoError(t, os.WriteFile(dir, []byte("blocked"), 0644))

		err = repo.CreateDeployment(ctx, newRecord("SocotraFactory", "0x01"))
		var storageErr *domain.StorageUnavailableError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "write", storageErr.Op)

		_, err = repo.GetDeployment(ctx, "SocotraFactory")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
