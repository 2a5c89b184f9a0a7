package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

func TestDependencyGraph_Plan(t *testing.T) {
	units := catalogOf(
		&models.Unit{Name: "App", Deps: []string{"Token", "Oracle"}},
		&models.Unit{Name: "Token", Deps: []string{"Registry"}},
		&models.Unit{Name: "Oracle", Deps: []string{"Registry"}},
		&models.Unit{Name: "Registry"},
	)
	graph := usecase.NewDependencyGraph(units)

	tests := []struct {
		name  string
		roots []string
		want  []string
	}{
		{name: "leaf", roots: []string{"Registry"}, want: []string{"Registry"}},
		{name: "chain", roots: []string{"Token"}, want: []string{"Registry", "Token"}},
		{name: "diamond appears once", roots: []string{"App"}, want: []string{"Registry", "Token", "Oracle", "App"}},
		{name: "shared closure", roots: []string{"Oracle", "Token"}, want: []string{"Registry", "Oracle", "Token"}},
		{name: "unknown unit is a leaf", roots: []string{"Other"}, want: []string{"Other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := graph.Plan(tt.roots...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan)
		})
	}
}

func TestDependencyGraph_TopologicalSort(t *testing.T) {
	graph := usecase.NewDependencyGraph(catalogOf(
		&models.Unit{Name: "B", Deps: []string{"C"}},
		&models.Unit{Name: "A"},
		&models.Unit{Name: "C"},
	))

	order, err := graph.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, order)
}

func TestDependencyGraph_Errors(t *testing.T) {
	t.Run("self cycle", func(t *testing.T) {
		graph := usecase.NewDependencyGraph(catalogOf(&models.Unit{Name: "A", Deps: []string{"A"}}))

		var cycleErr *domain.DependencyCycleError
		require.ErrorAs(t, graph.Validate(), &cycleErr)
		assert.Equal(t, []string{"A", "A"}, cycleErr.Cycle)
	})

	t.Run("long cycle", func(t *testing.T) {
		graph := usecase.NewDependencyGraph(catalogOf(
			&models.Unit{Name: "A", Deps: []string{"B"}},
			&models.Unit{Name: "B", Deps: []string{"C"}},
			&models.Unit{Name: "C", Deps: []string{"A"}},
		))

		_, err := graph.Plan("A")
		var cycleErr *domain.DependencyCycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"A", "B", "C", "A"}, cycleErr.Cycle)
	})

	t.Run("missing dependency", func(t *testing.T) {
		graph := usecase.NewDependencyGraph(catalogOf(&models.Unit{Name: "A", Deps: []string{"Ghost"}}))

		var missingErr *domain.MissingDependencyError
		require.ErrorAs(t, graph.Validate(), &missingErr)
		assert.Equal(t, "A", missingErr.Unit)
	})

	t.Run("nil catalog", func(t *testing.T) {
		order, err := usecase.NewDependencyGraph(nil).TopologicalSort()
		require.NoError(t, err)
		assert.Empty(t, order)
	})
}
