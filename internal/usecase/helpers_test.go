package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

const (
	deployerAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	userAddress     = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

// memRepository is an in-memory DeploymentRepository with failure injection
type memRepository struct {
	mu        sync.Mutex
	records   map[string]*models.DeploymentRecord
	getErr    error
	createErr error
	deleteErr error
	creates   int
}

func newMemRepository(records ...*models.DeploymentRecord) *memRepository {
	r := &memRepository{records: make(map[string]*models.DeploymentRecord)}
	for _, record := range records {
		r.records[record.Unit] = record
	}
	return r
}

func (r *memRepository) GetDeployment(ctx context.Context, unit string) (*models.DeploymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	record, ok := r.records[unit]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record.Clone(), nil
}

func (r *memRepository) ListDeployments(ctx context.Context) ([]*models.DeploymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	var out []*models.DeploymentRecord
	for _, record := range r.records {
		out = append(out, record.Clone())
	}
	slices.SortFunc(out, func(a, b *models.DeploymentRecord) int {
		return strings.Compare(a.Unit, b.Unit)
	})
	return out, nil
}

func (r *memRepository) CreateDeployment(ctx context.Context, record *models.DeploymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.records[record.Unit]; exists {
		return domain.ErrAlreadyExists
	}
	r.creates++
	r.records[record.Unit] = record.Clone()
	return nil
}

func (r *memRepository) DeleteDeployments(ctx context.Context, units []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for _, unit := range units {
		delete(r.records, unit)
	}
	return nil
}

func (r *memRepository) has(unit string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[unit]
	return ok
}

// fakeBackend hands out sequential addresses and records every request
type fakeBackend struct {
	mu       sync.Mutex
	requests []usecase.DeployRequest
	failures map[string]error
	gate     chan struct{} // when set, Deploy blocks until it is closed
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{failures: make(map[string]error)}
}

func (b *fakeBackend) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployReceipt, error) {
	if b.gate != nil {
		select {
		case <-b.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	if err := b.failures[req.Unit]; err != nil {
		return nil, err
	}
	return &usecase.DeployReceipt{
		Address:     fmt.Sprintf("0x%040x", len(b.requests)),
		ChainID:     31337,
		TxHash:      fmt.Sprintf("0x%064x", len(b.requests)),
		BlockNumber: uint64(len(b.requests)),
	}, nil
}

func (b *fakeBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *fakeBackend) deployed() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var units []string
	for _, req := range b.requests {
		if b.failures[req.Unit] == nil {
			units = append(units, req.Unit)
		}
	}
	return units
}

func (b *fakeBackend) request(unit string) (usecase.DeployRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, req := range b.requests {
		if req.Unit == unit {
			return req, true
		}
	}
	return usecase.DeployRequest{}, false
}

// staticAccounts resolves the dev deployer and user accounts
type staticAccounts map[string]string

func devAccounts() staticAccounts {
	return staticAccounts{"deployer": deployerAddress, "user": userAddress}
}

func (a staticAccounts) ResolveAccount(ctx context.Context, name string) (models.Account, error) {
	address, ok := a[name]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, name)
	}
	return models.Account{Name: name, Address: address}, nil
}

func (a staticAccounts) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	for name, address := range a {
		accounts = append(accounts, models.Account{Name: name, Address: address})
	}
	slices.SortFunc(accounts, func(x, y models.Account) int {
		return strings.Compare(x.Name, y.Name)
	})
	return accounts, nil
}

// staticCatalog is a fixed unit catalog
type staticCatalog map[string]*models.Unit

func catalogOf(units ...*models.Unit) staticCatalog {
	c := make(staticCatalog)
	for _, unit := range units {
		c[unit.Name] = unit
	}
	return c
}

func (c staticCatalog) Units() map[string]*models.Unit {
	return c
}

// socotraCatalog mirrors the built-in deploy scripts
func socotraCatalog() staticCatalog {
	return catalogOf(
		&models.Unit{Name: "SocotraFactory", Tags: []string{"SocotraFactory"}},
		&models.Unit{
			Name:        "VoteProxySigner",
			Args:        []models.Arg{models.AccountArg("deployer")},
			Tags:        []string{"VoteProxySigner"},
			LogDeployer: true,
		},
	)
}

// recordingSink records progress events and log lines
type recordingSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (s *recordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Info(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, message)
}

func (s *recordingSink) Error(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, message)
}

func (s *recordingSink) stages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stages []string
	for _, event := range s.events {
		stages = append(stages, event.Stage)
	}
	return stages
}

// MockDeploymentSelector is a mock implementation of DeploymentSelector
type MockDeploymentSelector struct {
	mock.Mock
}

func (m *MockDeploymentSelector) SelectDeployment(ctx context.Context, records []*models.DeploymentRecord, prompt string) (*models.DeploymentRecord, error) {
	args := m.Called(ctx, records, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentRecord), args.Error(1)
}

// MockCodeChecker is a mock implementation of CodeChecker
type MockCodeChecker struct {
	mock.Mock
}

func (m *MockCodeChecker) HasCode(ctx context.Context, address string) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
