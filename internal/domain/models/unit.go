package models

import (
	"fmt"
	"strings"
)

// DefaultDeployer is the named account used when a unit does not declare one
const DefaultDeployer = "deployer"

// Unit is a named deployable artifact together with what it needs to be deployed.
type Unit struct {
	Name     string   `yaml:"-"`
	Artifact string   `yaml:"artifact,omitempty"` // defaults to Name
	From     string   `yaml:"from,omitempty"`     // named account, defaults to "deployer"
	Args     []Arg    `yaml:"args,omitempty"`
	Deps     []string `yaml:"deps,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`

	// LogDeployer logs the deployer address right before a fresh deployment
	LogDeployer bool `yaml:"log_deployer,omitempty"`
}

// ArtifactName returns the artifact to deploy for the unit
func (u *Unit) ArtifactName() string {
	if u.Artifact != "" {
		return u.Artifact
	}
	return u.Name
}

// DeployerName returns the named account that deploys the unit
func (u *Unit) DeployerName() string {
	if u.From != "" {
		return u.From
	}
	return DefaultDeployer
}

// HasTag reports whether the unit carries the given tag
func (u *Unit) HasTag(tag string) bool {
	for _, t := range u.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ArgKind identifies where a constructor argument value comes from
type ArgKind string

const (
	ArgLiteral ArgKind = "literal"
	ArgAccount ArgKind = "account"
	ArgUnit    ArgKind = "unit"
)

const (
	accountArgPrefix = "account:"
	unitArgPrefix    = "unit:"
)

// Arg is a constructor argument declaration.
// Account args resolve to a named account address, unit args to the address
// of a prerequisite unit.
type Arg struct {
	Kind  ArgKind
	Value any
}

// LiteralArg passes v unchanged
func LiteralArg(v any) Arg {
	return Arg{Kind: ArgLiteral, Value: v}
}

// AccountArg resolves to the address of the named account
func AccountArg(name string) Arg {
	return Arg{Kind: ArgAccount, Value: name}
}

// UnitArg resolves to the address of the named unit
func UnitArg(name string) Arg {
	return Arg{Kind: ArgUnit, Value: name}
}

// ParseArg parses the manifest notation: "account:<name>", "unit:<name>" or a literal
func ParseArg(v any) Arg {
	s, ok := v.(string)
	if !ok {
		return LiteralArg(v)
	}
	switch {
	case strings.HasPrefix(s, accountArgPrefix):
		return AccountArg(strings.TrimPrefix(s, accountArgPrefix))
	case strings.HasPrefix(s, unitArgPrefix):
		return UnitArg(strings.TrimPrefix(s, unitArgPrefix))
	default:
		return LiteralArg(s)
	}
}

// Ref returns the referenced account or unit name
func (a Arg) Ref() string {
	s, _ := a.Value.(string)
	return s
}

func (a Arg) String() string {
	switch a.Kind {
	case ArgAccount:
		return accountArgPrefix + a.Ref()
	case ArgUnit:
		return unitArgPrefix + a.Ref()
	default:
		return fmt.Sprintf("%v", a.Value)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler using the manifest notation
func (a *Arg) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*a = ParseArg(raw)
	return nil
}

// Account is a named account available to deployments
type Account struct {
	Name    string
	Address string
}
