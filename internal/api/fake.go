package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/kivo360/omoictl/models"
)

// Fake is an in-memory Provider used by tests and by panel development. It
// applies patches the way the backend does and can be told to fail specific
// operations.
type Fake struct {
	mu sync.Mutex

	Settings  map[string]models.SpecDrivenSettings
	Sandboxes map[string]models.SandboxResource
	Specs     map[string]models.Spec
	Agents    models.AgentList
	Summary   models.ResourceSummary

	// FailNext maps an operation name ("update_settings", "get_settings",
	// "update_allocation", ...) to an error returned once on the next call.
	FailNext map[string]error

	// Calls records operation names in invocation order.
	Calls []string
}

var _ Provider = (*Fake)(nil)

// NewFake returns an empty fake provider.
func NewFake() *Fake {
	return &Fake{
		Settings:  make(map[string]models.SpecDrivenSettings),
		Sandboxes: make(map[string]models.SandboxResource),
		Specs:     make(map[string]models.Spec),
		FailNext:  make(map[string]error),
	}
}

func (f *Fake) begin(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, op)
	if err, ok := f.FailNext[op]; ok {
		delete(f.FailNext, op)
		return err
	}
	return nil
}

func (f *Fake) GetSpecDrivenSettings(_ context.Context, projectID string) (models.SpecDrivenSettings, error) {
	if err := f.begin("get_settings"); err != nil {
		return models.SpecDrivenSettings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.Settings[projectID]
	if !ok {
		return models.DefaultSpecDrivenSettings(), nil
	}
	return s, nil
}

func (f *Fake) UpdateSpecDrivenSettings(_ context.Context, projectID string, patch models.SpecDrivenSettingsPatch) (models.SpecDrivenSettings, error) {
	if err := f.begin("update_settings"); err != nil {
		return models.SpecDrivenSettings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.Settings[projectID]
	if !ok {
		s = models.DefaultSpecDrivenSettings()
	}
	if patch.BypassMode != nil {
		s.BypassMode = *patch.BypassMode
	}
	if patch.MinTestCoverage != nil {
		s.MinTestCoverage = *patch.MinTestCoverage
	}
	if patch.AutoProgression != nil {
		s.AutoProgression = *patch.AutoProgression
	}
	if patch.GuardianEnabled != nil {
		s.GuardianEnabled = *patch.GuardianEnabled
	}
	f.Settings[projectID] = s
	return s, nil
}

func (f *Fake) ResetSpecDrivenSettings(_ context.Context, projectID string) (models.SpecDrivenSettings, error) {
	if err := f.begin("reset_settings"); err != nil {
		return models.SpecDrivenSettings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.DefaultSpecDrivenSettings()
	f.Settings[projectID] = s
	return s, nil
}

func (f *Fake) ListSandboxResources(_ context.Context) ([]models.SandboxResource, error) {
	if err := f.begin("list_resources"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SandboxResource, 0, len(f.Sandboxes))
	for _, r := range f.Sandboxes {
		out = append(out, r)
	}
	return out, nil
}

func (f *Fake) GetSandboxResource(_ context.Context, sandboxID string) (models.SandboxResource, error) {
	if err := f.begin("get_resource"); err != nil {
		return models.SandboxResource{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Sandboxes[sandboxID]
	if !ok {
		return models.SandboxResource{}, &Error{Status: 404, Message: fmt.Sprintf("sandbox %s not found", sandboxID)}
	}
	return r, nil
}

func (f *Fake) GetResourceSummary(_ context.Context) (models.ResourceSummary, error) {
	if err := f.begin("resource_summary"); err != nil {
		return models.ResourceSummary{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Summary, nil
}

func (f *Fake) UpdateAllocation(_ context.Context, sandboxID string, patch models.ResourceAllocationPatch) (models.SandboxResource, error) {
	if err := f.begin("update_allocation"); err != nil {
		return models.SandboxResource{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Sandboxes[sandboxID]
	if !ok {
		return models.SandboxResource{}, &Error{Status: 404, Message: fmt.Sprintf("sandbox %s not found", sandboxID)}
	}
	if patch.CPUCores != nil {
		r.Allocation.CPUCores = *patch.CPUCores
	}
	if patch.MemoryGB != nil {
		r.Allocation.MemoryGB = *patch.MemoryGB
	}
	if patch.DiskGB != nil {
		r.Allocation.DiskGB = *patch.DiskGB
	}
	f.Sandboxes[sandboxID] = r
	return r, nil
}

func (f *Fake) ListSpecs(_ context.Context, projectID string) ([]models.Spec, error) {
	if err := f.begin("list_specs"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Spec, 0, len(f.Specs))
	for _, s := range f.Specs {
		if projectID == "" || s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Fake) GetSpec(_ context.Context, specID string) (models.Spec, error) {
	if err := f.begin("get_spec"); err != nil {
		return models.Spec{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.Specs[specID]
	if !ok {
		return models.Spec{}, &Error{Status: 404, Message: fmt.Sprintf("spec %s not found", specID)}
	}
	return s, nil
}

func (f *Fake) ListAgents(_ context.Context) (models.AgentList, error) {
	if err := f.begin("list_agents"); err != nil {
		return models.AgentList{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Agents, nil
}
