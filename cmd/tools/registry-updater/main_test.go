// cmd/tools/registry-updater/main_test.go
package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-chat-workers/pkg/registry"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRegistryUpdater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, registry.SaveRegistry(&registry.ActivityRegistry{
		Version: "1.0.0",
		Activities: []registry.Activity{{
			ID: "detect-bias", DisplayName: "Detect Bias", Category: "ai-conversation",
			TaskType: "detect-bias", ImplementationStatus: registry.StatusPlanned, Version: "1.0.0",
		}},
	}, path))

	out, err := run(t, "list", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "detect-bias")
	assert.Contains(t, out, "planned")

	out, err = run(t, "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 activities")

	_, err = run(t, "set-status", "detect-bias", "verified", "--path", path)
	require.NoError(t, err)
	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusVerified, reg.Activities[0].ImplementationStatus)

	_, err = run(t, "set-status", "detect-bias", "shipped", "--path", path)
	assert.Error(t, err)
}
