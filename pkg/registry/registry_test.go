package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"allocate-candidates-for-project",
		"allocate-candidates-for-role",
		"check-candidate-eligibility",
		"find-eligible-candidates",
		"reset-allocation-cursor",
	}, reg.TaskTypes())

	activity, ok := reg.Find("allocate-candidates-for-role")
	require.True(t, ok)
	assert.Equal(t, "object", activity.InputSchema["type"])
	assert.True(t, activity.Declares("NO_RECRUITERS_AVAILABLE"))
	assert.False(t, activity.Declares("PROJECT_NOT_FOUND"))

	_, ok = reg.Find("unknown")
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed", data: `{"activities": [`},
		{name: "missing task type", data: `{"activities": [{"id": "a"}]}`},
		{name: "duplicate task type", data: `{"activities": [{"id": "a", "taskType": "x"}, {"id": "b", "taskType": "x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "2", "activities": [{"id": "a", "taskType": "a"}]}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
