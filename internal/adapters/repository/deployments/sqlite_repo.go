package deployments

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteRepository stores deployment records in a SQLite database.
// Uses WAL mode so list and show can read while a deploy run writes.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

// NewSQLiteRepository creates or opens deployments.db in dataDir
func NewSQLiteRepository(dataDir string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, &domain.StorageUnavailableError{Op: "open", Path: dataDir, Err: err}
	}
	path := filepath.Join(dataDir, SQLiteFile)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &domain.StorageUnavailableError{Op: "open", Path: path, Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &domain.StorageUnavailableError{Op: "open", Path: path, Err: err}
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, &domain.StorageUnavailableError{Op: "open", Path: path, Err: err}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, &domain.StorageUnavailableError{Op: "open", Path: path, Err: fmt.Errorf("failed to apply schema: %w", err)}
	}

	return &SQLiteRepository{db: db, path: path}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

const selectColumns = `SELECT unit, address, args, deployer, chain_id, tx_hash, block_number, deployed_at FROM deployments`

// GetDeployment retrieves the record of a unit
func (r *SQLiteRepository) GetDeployment(ctx context.Context, unit string) (*models.DeploymentRecord, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE unit = ?`, unit)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StorageUnavailableError{Op: "read", Path: r.path, Err: err}
	}
	return record, nil
}

// ListDeployments returns all records sorted by unit name
func (r *SQLiteRepository) ListDeployments(ctx context.Context) ([]*models.DeploymentRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY unit`)
	if err != nil {
		return nil, &domain.StorageUnavailableError{Op: "read", Path: r.path, Err: err}
	}
	defer rows.Close()

	records := []*models.DeploymentRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, &domain.StorageUnavailableError{Op: "read", Path: r.path, Err: err}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageUnavailableError{Op: "read", Path: r.path, Err: err}
	}
	return records, nil
}

// CreateDeployment inserts a new record
func (r *SQLiteRepository) CreateDeployment(ctx context.Context, record *models.DeploymentRecord) error {
	if record == nil || record.Unit == "" {
		return errors.New("deployment record must name a unit")
	}

	args := record.Args
	if args == nil {
		args = []any{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode args of %s: %w", record.Unit, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO deployments (unit, address, args, deployer, chain_id, tx_hash, block_number, deployed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Unit,
		record.Address,
		string(argsJSON),
		record.Deployer,
		record.ChainID,
		record.TxHash,
		record.BlockNumber,
		record.DeployedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("deployment %s: %w", record.Unit, domain.ErrAlreadyExists)
		}
		return &domain.StorageUnavailableError{Op: "write", Path: r.path, Err: err}
	}
	return nil
}

// DeleteDeployments removes the records of the given units in one transaction
func (r *SQLiteRepository) DeleteDeployments(ctx context.Context, units []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StorageUnavailableError{Op: "write", Path: r.path, Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, unit := range units {
		if _, err := tx.ExecContext(ctx, `DELETE FROM deployments WHERE unit = ?`, unit); err != nil {
			return &domain.StorageUnavailableError{Op: "write", Path: r.path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StorageUnavailableError{Op: "write", Path: r.path, Err: err}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.DeploymentRecord, error) {
	var (
		record     models.DeploymentRecord
		argsJSON   string
		deployedAt string
	)
	if err := row.Scan(
		&record.Unit,
		&record.Address,
		&argsJSON,
		&record.Deployer,
		&record.ChainID,
		&record.TxHash,
		&record.BlockNumber,
		&deployedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(argsJSON), &record.Args); err != nil {
		return nil, fmt.Errorf("corrupt args of %s: %w", record.Unit, err)
	}
	if record.Args == nil {
		record.Args = []any{}
	}
	t, err := time.Parse(time.RFC3339Nano, deployedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt timestamp of %s: %w", record.Unit, err)
	}
	record.DeployedAt = t

	return &record, nil
}

var (
	_ usecase.DeploymentRepository         = (*SQLiteRepository)(nil)
	_ usecase.DeploymentRepositoryResetter = (*SQLiteRepository)(nil)
)
