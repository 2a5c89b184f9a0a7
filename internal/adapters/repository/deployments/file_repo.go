package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

const (
	DeploymentsFile = "deployments.json"
	SQLiteFile      = "deployments.db"
)

// FileRepository stores deployment records in a json file keyed by unit name.
//
// Writes re-read the file first, so records added by another process since
// this one opened the store are kept. The file is not locked: two processes
// writing at the same instant can still lose one of the writes.
type FileRepository struct {
	dataDir     string
	mu          sync.RWMutex
	deployments map[string]*models.DeploymentRecord
}

// NewFileRepository opens the registry in dataDir, creating the directory if needed
func NewFileRepository(dataDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, &domain.StorageUnavailableError{Op: "open", Path: dataDir, Err: err}
	}

	r := &FileRepository{
		dataDir:     dataDir,
		deployments: make(map[string]*models.DeploymentRecord),
	}

	if err := r.load(); err != nil {
		return nil, &domain.StorageUnavailableError{Op: "open", Path: r.path(), Err: err}
	}

	return r, nil
}

func (r *FileRepository) path() string {
	return filepath.Join(r.dataDir, DeploymentsFile)
}

// load reads the registry file into memory
func (r *FileRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	deployments, err := readRegistry(r.path())
	if err != nil {
		return err
	}
	r.deployments = deployments
	return nil
}

// refresh picks up records written by other processes. Must be called with r.mu held.
func (r *FileRepository) refresh() error {
	deployments, err := readRegistry(r.path())
	if err != nil {
		return &domain.StorageUnavailableError{Op: "write", Path: r.path(), Err: err}
	}
	r.deployments = deployments
	return nil
}

// readRegistry parses the registry file; a missing file is an empty registry
func readRegistry(path string) (map[string]*models.DeploymentRecord, error) {
	deployments := make(map[string]*models.DeploymentRecord)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return deployments, nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return deployments, nil
	}
	if err := json.Unmarshal(data, &deployments); err != nil {
		return nil, fmt.Errorf("corrupt registry file: %w", err)
	}
	if deployments == nil {
		deployments = make(map[string]*models.DeploymentRecord)
	}
	return deployments, nil
}

// save writes the registry atomically. Must be called with r.mu held.
func (r *FileRepository) save() error {
	data, err := json.MarshalIndent(r.deployments, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := r.path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	if err := os.Rename(tmpPath, r.path()); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// GetDeployment retrieves the record of a unit
func (r *FileRepository) GetDeployment(ctx context.Context, unit string) (*models.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.deployments[unit]
	if !exists {
		return nil, domain.ErrNotFound
	}

	// Clone to avoid mutations
	return record.Clone(), nil
}

// ListDeployments returns all records sorted by unit name
func (r *FileRepository) ListDeployments(ctx context.Context) ([]*models.DeploymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*models.DeploymentRecord, 0, len(r.deployments))
	for _, record := range r.deployments {
		records = append(records, record.Clone())
	}
	slices.SortFunc(records, func(a, b *models.DeploymentRecord) int {
		return strings.Compare(a.Unit, b.Unit)
	})
	return records, nil
}

// CreateDeployment stores a new record. Nothing is kept in memory if the
// file cannot be written.
func (r *FileRepository) CreateDeployment(ctx context.Context, record *models.DeploymentRecord) error {
	if record == nil || record.Unit == "" {
		return errors.New("deployment record must name a unit")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(); err != nil {
		return err
	}
	if _, exists := r.deployments[record.Unit]; exists {
		return fmt.Errorf("deployment %s: %w", record.Unit, domain.ErrAlreadyExists)
	}

	r.deployments[record.Unit] = record.Clone()
	if err := r.save(); err != nil {
		delete(r.deployments, record.Unit)
		return &domain.StorageUnavailableError{Op: "write", Path: r.path(), Err: err}
	}

	return nil
}

// DeleteDeployments removes the records of the given units. Unknown units are ignored.
func (r *FileRepository) DeleteDeployments(ctx context.Context, units []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.refresh(); err != nil {
		return err
	}
	removed := make(map[string]*models.DeploymentRecord, len(units))
	for _, unit := range units {
		if record, exists := r.deployments[unit]; exists {
			removed[unit] = record
			delete(r.deployments, unit)
		}
	}
	if len(removed) == 0 {
		return nil
	}

	if err := r.save(); err != nil {
		for unit, record := range removed {
			r.deployments[unit] = record
		}
		return &domain.StorageUnavailableError{Op: "write", Path: r.path(), Err: err}
	}
	return nil
}

var (
	_ usecase.DeploymentRepository         = (*FileRepository)(nil)
	_ usecase.DeploymentRepositoryResetter = (*FileRepository)(nil)
)
