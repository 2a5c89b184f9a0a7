package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/socotra-protocol/contracts/internal/domain/models"
)

// ProvisionTagsParams contains parameters for provisioning units by tag
type ProvisionTagsParams struct {
	Tags   []string // empty selects every unit
	DryRun bool     // only compute the plan
}

// ProvisionTagsResult contains the result of a provisioning run
type ProvisionTagsResult struct {
	RunID   string
	Tags    []string
	Plan    []string
	Steps   []PlanStep
	Results []*UnitResult
	DryRun  bool
}

// PlanStep describes one unit of the plan as it stood before the run
type PlanStep struct {
	Unit     string
	Artifact string
	Deps     []string
	Existing *models.DeploymentRecord // nil when the unit will be deployed
}

// Pending counts the plan steps without a record
func (r *ProvisionTagsResult) Pending() int {
	return lo.CountBy(r.Steps, func(s PlanStep) bool {
		return s.Existing == nil
	})
}

// UnitResult is the outcome of ensuring one unit of the plan
type UnitResult struct {
	Unit string
	*models.EnsureResult
}

// Deployed counts the units that were freshly deployed
func (r *ProvisionTagsResult) Deployed() int {
	return lo.CountBy(r.Results, func(u *UnitResult) bool {
		return u.Outcome == models.OutcomeDeployed
	})
}

// Records returns the records of the run keyed by unit name
func (r *ProvisionTagsResult) Records() map[string]*models.DeploymentRecord {
	return lo.SliceToMap(r.Results, func(u *UnitResult) (string, *models.DeploymentRecord) {
		return u.Unit, u.Record
	})
}

// ProvisionTags provisions every unit carrying one of the requested tags,
// together with their prerequisites, in dependency order.
type ProvisionTags struct {
	registry *ProvisioningRegistry
	catalog  UnitCatalog
	sink     ProgressSink
	log      *slog.Logger
}

// NewProvisionTags creates a new ProvisionTags use case
func NewProvisionTags(
	registry *ProvisioningRegistry,
	catalog UnitCatalog,
	sink ProgressSink,
	log *slog.Logger,
) *ProvisionTags {
	return &ProvisionTags{
		registry: registry,
		catalog:  catalog,
		sink:     sink,
		log:      log.With("component", "ProvisionTags"),
	}
}

// Run executes the provisioning
func (uc *ProvisionTags) Run(ctx context.Context, params ProvisionTagsParams) (*ProvisionTagsResult, error) {
	result := &ProvisionTagsResult{
		RunID:  uuid.New().String(),
		Tags:   params.Tags,
		DryRun: params.DryRun,
	}
	log := uc.log.With("run", result.RunID)

	// A broken catalog is a configuration error, report it before touching anything
	if err := uc.registry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid unit catalog: %w", err)
	}

	selected, err := uc.selectUnits(params.Tags)
	if err != nil {
		return nil, err
	}

	plan, err := uc.registry.Plan(selected...)
	if err != nil {
		return nil, fmt.Errorf("failed to create provisioning plan: %w", err)
	}
	result.Plan = plan

	if result.Steps, err = uc.describe(ctx, plan); err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:    "plan_created",
		Total:    len(plan),
		Metadata: result,
	})
	log.Debug("provisioning plan", "tags", params.Tags, "plan", plan)

	if params.DryRun {
		return result, nil
	}

	for i, name := range plan {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "unit_starting",
			Current: i + 1,
			Total:   len(plan),
			Message: name,
		})

		ensured, err := uc.registry.EnsureUnit(ctx, name)
		if err != nil {
			uc.sink.OnProgress(ctx, ProgressEvent{
				Stage:    "unit_failed",
				Current:  i + 1,
				Total:    len(plan),
				Message:  name,
				Metadata: err,
			})
			return result, err
		}

		unitResult := &UnitResult{Unit: name, EnsureResult: ensured}
		result.Results = append(result.Results, unitResult)

		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:    "unit_completed",
			Current:  i + 1,
			Total:    len(plan),
			Message:  name,
			Metadata: unitResult,
		})
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage: "provision_completed",
		Total: len(plan),
	})
	log.Debug("provisioning completed", "deployed", result.Deployed(), "total", len(plan))

	return result, nil
}

// describe resolves every planned unit so the plan shows what will be reused
func (uc *ProvisionTags) describe(ctx context.Context, plan []string) ([]PlanStep, error) {
	units := uc.catalog.Units()
	steps := make([]PlanStep, 0, len(plan))
	for _, name := range plan {
		step := PlanStep{Unit: name, Artifact: name}
		if def, ok := units[name]; ok {
			step.Artifact = def.ArtifactName()
			step.Deps = def.Deps
		}

		lookup, err := uc.registry.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		if lookup.Found() {
			step.Existing = lookup.Record
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// AvailableTags lists every tag declared in the catalog
func (uc *ProvisionTags) AvailableTags() []string {
	var tags []string
	for _, unit := range uc.catalog.Units() {
		tags = append(tags, unit.Tags...)
	}
	tags = lo.Uniq(tags)
	slices.Sort(tags)
	return tags
}

// selectUnits returns the names of units carrying any of the tags, sorted
func (uc *ProvisionTags) selectUnits(tags []string) ([]string, error) {
	units := uc.catalog.Units()

	if len(tags) == 0 {
		names := lo.Keys(units)
		slices.Sort(names)
		return names, nil
	}

	var selected []string
	for _, tag := range tags {
		matched := false
		for name, unit := range units {
			if unit.HasTag(tag) {
				selected = append(selected, name)
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("no units tagged %q", tag)
		}
	}

	selected = lo.Uniq(selected)
	slices.Sort(selected)
	return selected, nil
}
