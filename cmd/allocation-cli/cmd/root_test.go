package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"recruiter-allocation/internal/allocation/cursor"
	"recruiter-allocation/internal/allocation/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestRegistryValidate_BuiltIn(t *testing.T) {
	out, err := run(t, "registry", "validate", "--file", "")
	require.NoError(t, err)

	var body struct {
		Valid     bool     `json:"valid"`
		TaskTypes []string `json:"taskTypes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.True(t, body.Valid)
	assert.Contains(t, body.TaskTypes, "allocate-candidates-for-role")
	assert.Len(t, body.TaskTypes, 5)
}

func TestRegistryValidate_File(t *testing.T) {
	dir := t.TempDir()

	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`{"activities":[{"id":"a","taskType":"x"},{"id":"b","taskType":"x"}]}`), 0o600))
	_, err := run(t, "registry", "validate", "--file", dup)
	assert.ErrorContains(t, err, "duplicate taskType")

	undeclared := filepath.Join(dir, "undeclared.json")
	require.NoError(t, os.WriteFile(undeclared, []byte(`{"activities":[{"id":"a","taskType":"x","inputSchema":{"type":"object"}}]}`), 0o600))
	_, err = run(t, "registry", "validate", "--file", undeclared)
	assert.ErrorContains(t, err, "does not declare INVALID_INPUT")

	ok := filepath.Join(dir, "ok.json")
	require.NoError(t, os.WriteFile(ok, []byte(`{"version":"2","activities":[{"id":"a","taskType":"x","inputSchema":{"type":"object"},"errorCodes":["INVALID_INPUT"]}]}`), 0o600))
	out, err := run(t, "registry", "validate", "--file", ok)
	require.NoError(t, err)
	assert.Contains(t, out, `"x"`)
}

func TestRegistryCheckInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		wantOut string
	}{
		{
			name:    "valid variables",
			args:    []string{"allocate-candidates-for-role", `{"projectId":"p1","roleId":"r1"}`},
			wantOut: `"valid":true`,
		},
		{
			name:    "missing role",
			args:    []string{"allocate-candidates-for-role", `{"projectId":"p1"}`},
			wantErr: "roleId",
			wantOut: `"REQUIRED"`,
		},
		{
			name:    "unknown task type",
			args:    []string{"no-such-task", `{}`},
			wantErr: "unknown task type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"registry", "check-input", "--file", ""}, tt.args...)...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantOut != "" {
				assert.Contains(t, out, tt.wantOut)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "allocation-cli version:")
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "known sentinel", err: fmt.Errorf("load: %w", matching.ErrRoleNotFound), want: `"code":"ROLE_NOT_FOUND"`},
		{name: "invalid cursor key", err: cursor.ErrInvalidKey, want: `"code":"INVALID_INPUT"`},
		{name: "plain failure", err: errors.New("config file missing"), want: `{"error":{"message":"config file missing"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
