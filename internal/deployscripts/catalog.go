// Package deployscripts declares the units this project knows how to deploy.
package deployscripts

import (
	"maps"

	"github.com/socotra-protocol/contracts/internal/domain/config"
	"github.com/socotra-protocol/contracts/internal/domain/models"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// Built-in unit names
const (
	SocotraFactory  = "SocotraFactory"
	VoteProxySigner = "VoteProxySigner"
)

// BuiltinUnits returns the units shipped with the project
func BuiltinUnits() map[string]*models.Unit {
	return map[string]*models.Unit{
		SocotraFactory: {
			Name: SocotraFactory,
			Tags: []string{SocotraFactory},
		},
		VoteProxySigner: {
			Name:        VoteProxySigner,
			Args:        []models.Arg{models.AccountArg(models.DefaultDeployer)},
			Tags:        []string{VoteProxySigner},
			LogDeployer: true,
		},
	}
}

// Catalog is the merged set of built-in and manifest units
type Catalog struct {
	units map[string]*models.Unit
}

// NewCatalog merges the manifest from the runtime config over the built-in
// units. A manifest unit with the same name replaces the built-in one.
func NewCatalog(cfg *config.RuntimeConfig) *Catalog {
	return NewCatalogFromUnits(BuiltinUnits(), cfg.Manifest)
}

// NewCatalogFromUnits merges layers left to right, later layers win
func NewCatalogFromUnits(layers ...map[string]*models.Unit) *Catalog {
	units := make(map[string]*models.Unit)
	for _, layer := range layers {
		for name, unit := range layer {
			u := *unit
			u.Name = name
			units[name] = &u
		}
	}
	return &Catalog{units: units}
}

// Units returns a copy of the catalog
func (c *Catalog) Units() map[string]*models.Unit {
	return maps.Clone(c.units)
}

var _ usecase.UnitCatalog = (*Catalog)(nil)
