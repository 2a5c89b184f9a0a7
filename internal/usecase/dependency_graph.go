package usecase

import (
	"slices"

	"github.com/samber/lo"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
)

// DependencyGraph orders units by their declared prerequisites
type DependencyGraph struct {
	units map[string]*models.Unit
}

// NewDependencyGraph creates a dependency graph over the unit catalog
func NewDependencyGraph(units map[string]*models.Unit) *DependencyGraph {
	if units == nil {
		units = make(map[string]*models.Unit)
	}
	return &DependencyGraph{units: units}
}

// visit states for the depth-first walk
const (
	unvisited = iota
	visiting
	visited
)

// Plan returns the given units and all of their transitive prerequisites in
// deployment order: every unit appears after the units it depends on, and
// each unit appears exactly once. Prerequisites are visited in declaration
// order so the result is deterministic.
//
// Unit names that are not part of the catalog are treated as leaves.
// A cycle anywhere in the closure is reported before anything is returned.
func (g *DependencyGraph) Plan(names ...string) ([]string, error) {
	state := make(map[string]int)
	var (
		order []string
		stack []string
	)

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			start := slices.Index(stack, name)
			cycle := append(slices.Clone(stack[start:]), name)
			return &domain.DependencyCycleError{Cycle: cycle}
		}

		state[name] = visiting
		stack = append(stack, name)

		if unit, ok := g.units[name]; ok {
			for _, dep := range unit.Deps {
				if _, exists := g.units[dep]; !exists {
					return &domain.MissingDependencyError{Unit: name, Dependency: dep}
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[name] = visited
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// TopologicalSort returns every unit in the catalog in deployment order.
// Roots are visited in lexical order for deterministic output.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	names := lo.Keys(g.units)
	slices.Sort(names)
	return g.Plan(names...)
}

// Validate checks the whole catalog for missing prerequisites and cycles
func (g *DependencyGraph) Validate() error {
	_, err := g.TopologicalSort()
	return err
}
