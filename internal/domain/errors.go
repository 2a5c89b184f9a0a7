package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnknownUnit is returned when a unit name is not part of the catalog
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrUnknownAccount is returned when a named account is not configured
	ErrUnknownAccount = errors.New("unknown named account")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")
)

// StorageUnavailableError is returned when the persisted deployment state
// cannot be read or written.
type StorageUnavailableError struct {
	Op   string // "read", "write", "open"
	Path string
	Err  error
}

func (e *StorageUnavailableError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("deployment storage unavailable (%s %s): %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("deployment storage unavailable (%s): %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

// DeployBackendError wraps a failure reported by the deploy backend.
// The unit is never recorded as deployed when this error is returned.
type DeployBackendError struct {
	Unit string
	Err  error
}

func (e *DeployBackendError) Error() string {
	return fmt.Sprintf("failed to deploy %s: %v", e.Unit, e.Err)
}

func (e *DeployBackendError) Unwrap() error {
	return e.Err
}

// DependencyCycleError indicates that the declared prerequisites form a cycle.
type DependencyCycleError struct {
	// Cycle lists the units forming the cycle, first unit repeated at the end.
	Cycle []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// MissingDependencyError is returned when a unit depends on a unit that is not declared.
type MissingDependencyError struct {
	Unit       string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("unit '%s' depends on non-existent unit '%s'", e.Unit, e.Dependency)
}

// FixtureProvisionError wraps an error returned by a fixture's provision function.
type FixtureProvisionError struct {
	Tag string
	Err error
}

func (e *FixtureProvisionError) Error() string {
	return fmt.Sprintf("fixture %q failed to provision: %v", e.Tag, e.Err)
}

func (e *FixtureProvisionError) Unwrap() error {
	return e.Err
}
