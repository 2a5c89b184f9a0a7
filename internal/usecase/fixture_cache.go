package usecase

import (
	"context"
	"sync"

	"github.com/socotra-protocol/contracts/internal/domain"
)

// ProvisionFunc provisions the handles of a fixture
type ProvisionFunc[H any] func(ctx context.Context) (H, error)

// FixtureCache memoizes provisioned fixture handles by tag for the lifetime of
// one run. It is never persisted: durability is the provisioning registry's job,
// the cache only skips re-running provisioning within a run.
type FixtureCache[H any] struct {
	mu    sync.Mutex
	cells map[string]*fixtureCell[H]
}

// fixtureCell is a lazily initialized slot. The cell mutex is held while the
// provision function runs, so at most one attempt per tag is in flight.
type fixtureCell[H any] struct {
	mu      sync.Mutex
	ready   bool
	handles H
}

// NewFixtureCache creates an empty fixture cache
func NewFixtureCache[H any]() *FixtureCache[H] {
	return &FixtureCache[H]{
		cells: make(map[string]*fixtureCell[H]),
	}
}

// WithFixture returns the handles stored under tag, running provision to
// create them on the first call. Later calls return the very same handles
// without calling provision again. A failed provision is not memoized.
func (c *FixtureCache[H]) WithFixture(ctx context.Context, tag string, provision ProvisionFunc[H]) (H, error) {
	cell := c.cell(tag)

	cell.mu.Lock()
	defer cell.mu.Unlock()

	if cell.ready {
		return cell.handles, nil
	}

	handles, err := provision(ctx)
	if err != nil {
		var zero H
		return zero, &domain.FixtureProvisionError{Tag: tag, Err: err}
	}

	cell.handles = handles
	cell.ready = true
	return handles, nil
}

// Has reports whether handles are memoized for tag
func (c *FixtureCache[H]) Has(tag string) bool {
	c.mu.Lock()
	cell, ok := c.cells[tag]
	c.mu.Unlock()
	if !ok {
		return false
	}

	cell.mu.Lock()
	defer cell.mu.Unlock()
	return cell.ready
}

// Reset forgets every memoized fixture
func (c *FixtureCache[H]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cells = make(map[string]*fixtureCell[H])
}

func (c *FixtureCache[H]) cell(tag string) *fixtureCell[H] {
	c.mu.Lock()
	defer c.mu.Unlock()

	cell, ok := c.cells[tag]
	if !ok {
		cell = &fixtureCell[H]{}
		c.cells[tag] = cell
	}
	return cell
}
