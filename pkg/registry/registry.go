// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"career-chat-workers/internal/common/validation"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes reg as indented JSON, creating parent directories.
func SaveRegistry(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Validate checks required fields, task type naming, statuses and
// uniqueness of IDs and task types.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range r.Activities {
		if a.ID == "" {
			return fmt.Errorf("activity missing required field: id")
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: displayName", a.ID)
		}
		if a.Category == "" {
			return fmt.Errorf("activity %s missing required field: category", a.ID)
		}
		if a.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: taskType", a.ID)
		}
		if err := validation.ValidateTaskType(a.TaskType); err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		taskTypes[a.TaskType] = true

		if a.ImplementationStatus != "" && !IsValidStatus(a.ImplementationStatus) {
			return fmt.Errorf("activity %s has unknown status %q", a.ID, a.ImplementationStatus)
		}
	}
	return nil
}

// Find returns the activity with the given task type.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// SetStatus updates an activity's implementation status and stamps LastUpdated.
func (r *ActivityRegistry) SetStatus(taskType, status string, now time.Time) error {
	if !IsValidStatus(status) {
		return fmt.Errorf("unknown status %q", status)
	}
	a, ok := r.Find(taskType)
	if !ok {
		return fmt.Errorf("activity with task type %s not found", taskType)
	}
	a.ImplementationStatus = status
	r.LastUpdated = now.UTC().Format(time.RFC3339)
	return nil
}

// TaskTypes returns every registered task type, sorted.
func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	sort.Strings(out)
	return out
}

// CrossCheck compares the registry against the task types a process
// actually serves. missing are served but unregistered; unserved are
// registered but not served.
func (r *ActivityRegistry) CrossCheck(served []string) (missing, unserved []string) {
	registered := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		registered[a.TaskType] = true
	}
	seen := make(map[string]bool, len(served))
	for _, t := range served {
		seen[t] = true
		if !registered[t] {
			missing = append(missing, t)
		}
	}
	for _, t := range r.TaskTypes() {
		if !seen[t] {
			unserved = append(unserved, t)
		}
	}
	sort.Strings(missing)
	return missing, unserved
}
