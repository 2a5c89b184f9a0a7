package models

import (
	"slices"
	"time"
)

// DeploymentRecord is the persisted proof that a unit has been deployed.
// Records are created once and never mutated afterwards.
type DeploymentRecord struct {
	Unit        string    `json:"unit"`
	Address     string    `json:"address"`
	Args        []any     `json:"args"`
	Deployer    string    `json:"deployer"`
	ChainID     uint64    `json:"chainId"`
	TxHash      string    `json:"txHash,omitempty"`
	BlockNumber uint64    `json:"blockNumber,omitempty"`
	DeployedAt  time.Time `json:"deployedAt"`
}

// Clone returns a copy of the record that shares no mutable state with the original
func (r *DeploymentRecord) Clone() *DeploymentRecord {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Args = slices.Clone(r.Args)
	return &clone
}

// LookupState is the state of a unit in the persisted registry
type LookupState int

const (
	LookupAbsent LookupState = iota
	LookupPresent
)

func (s LookupState) String() string {
	switch s {
	case LookupPresent:
		return "present"
	default:
		return "absent"
	}
}

// Lookup is the result of resolving a unit name against the registry.
// Record is only set when State is LookupPresent.
type Lookup struct {
	State  LookupState
	Record *DeploymentRecord
}

// Absent returns a lookup for a unit with no record
func Absent() Lookup {
	return Lookup{State: LookupAbsent}
}

// Present returns a lookup wrapping an existing record
func Present(record *DeploymentRecord) Lookup {
	return Lookup{State: LookupPresent, Record: record}
}

// Found reports whether the unit has a record
func (l Lookup) Found() bool {
	return l.State == LookupPresent && l.Record != nil
}

// EnsureOutcome describes what Ensure did for a unit
type EnsureOutcome string

const (
	OutcomeReused   EnsureOutcome = "reused"
	OutcomeDeployed EnsureOutcome = "deployed"
)

// EnsureResult is returned by the provisioning registry for every ensured unit
type EnsureResult struct {
	Record  *DeploymentRecord
	Outcome EnsureOutcome
}
