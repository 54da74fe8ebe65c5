// Package api is the REST client for the orchestration backend. UI and
// command code depend on the Provider interface, never on the concrete
// client, so panels can be driven by fakes in tests.
package api

import (
	"context"

	"github.com/kivo360/omoictl/models"
)

// Provider is the capability set the console needs from the backend.
type Provider interface {
	// Spec-driven settings for a project.
	GetSpecDrivenSettings(ctx context.Context, projectID string) (models.SpecDrivenSettings, error)
	UpdateSpecDrivenSettings(ctx context.Context, projectID string, patch models.SpecDrivenSettingsPatch) (models.SpecDrivenSettings, error)
	ResetSpecDrivenSettings(ctx context.Context, projectID string) (models.SpecDrivenSettings, error)

	// Sandbox resources.
	ListSandboxResources(ctx context.Context) ([]models.SandboxResource, error)
	GetSandboxResource(ctx context.Context, sandboxID string) (models.SandboxResource, error)
	GetResourceSummary(ctx context.Context) (models.ResourceSummary, error)
	UpdateAllocation(ctx context.Context, sandboxID string, patch models.ResourceAllocationPatch) (models.SandboxResource, error)

	// Specs and agents, for phase and status displays.
	ListSpecs(ctx context.Context, projectID string) ([]models.Spec, error)
	GetSpec(ctx context.Context, specID string) (models.Spec, error)
	ListAgents(ctx context.Context) (models.AgentList, error)
}
