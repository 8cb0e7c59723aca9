package allocatecandidatesforrole

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"recruiter-allocation/internal/allocation/cursor"
	"recruiter-allocation/internal/allocation/orchestrator"
	"recruiter-allocation/internal/common/logger"
	"recruiter-allocation/internal/common/validation"
	"recruiter-allocation/internal/models"
	"recruiter-allocation/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeAllocator struct {
	got    orchestrator.RoleRequest
	result *orchestrator.RoleResult
	err    error
}

func (f *fakeAllocator) AllocateForRole(_ context.Context, req orchestrator.RoleRequest) (*orchestrator.RoleResult, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeRecruiters struct {
	list []models.Recruiter
	err  error
}

func (f *fakeRecruiters) ActiveRecruiters(context.Context) ([]models.Recruiter, error) {
	return f.list, f.err
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, DefaultBatchSize: 25}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createTestValidator(t *testing.T) *validation.Validator {
	reg, err := registry.Default()
	require.NoError(t, err)
	v, err := validation.NewValidator(reg)
	require.NoError(t, err)
	return v
}

func intPtr(v int) *int { return &v }

var pool = []models.Recruiter{{ID: "rec-a"}, {ID: "rec-b"}}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	allocator := &fakeAllocator{result: &orchestrator.RoleResult{
		Considered:        3,
		Assigned:          2,
		SkippedDuplicates: 1,
		Errors:            []string{},
		Assignments:       []models.Assignment{{CandidateID: "c1", RecruiterID: "rec-a"}, {CandidateID: "c2", RecruiterID: "rec-b"}},
	}}
	h := NewHandler(createTestConfig(), allocator, &fakeRecruiters{list: pool}, createTestValidator(t), createTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{ProjectID: "p1", RoleID: "r1"})
	require.NoError(t, err)

	assert.Equal(t, 3, output.Considered)
	assert.Equal(t, 2, output.Assigned)
	assert.Equal(t, 1, output.SkippedDuplicates)
	assert.Len(t, output.Assignments, 2)

	assert.Equal(t, pool, allocator.got.Recruiters)
	assert.Equal(t, 25, allocator.got.BatchSize, "config default applies")
}

func TestHandler_Execute_BatchSizeAndTarget(t *testing.T) {
	allocator := &fakeAllocator{result: &orchestrator.RoleResult{}}
	h := NewHandler(createTestConfig(), allocator, &fakeRecruiters{list: pool}, createTestValidator(t), createTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{ProjectID: "p1", RoleID: "r1", CandidateID: "c7", BatchSize: intPtr(0)})
	require.NoError(t, err)

	assert.Equal(t, 0, allocator.got.BatchSize)
	assert.Equal(t, "c7", allocator.got.CandidateID)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name       string
		recruiters *fakeRecruiters
		allocErr   error
		input      *Input
		wantCode   string
	}{
		{
			name:       "no recruiters",
			recruiters: &fakeRecruiters{},
			allocErr:   cursor.ErrNoRecruitersAvailable,
			input:      &Input{ProjectID: "p1", RoleID: "r1"},
			wantCode:   "NO_RECRUITERS_AVAILABLE",
		},
		{
			name:       "recruiter query fails",
			recruiters: &fakeRecruiters{err: errors.New("connection refused")},
			input:      &Input{ProjectID: "p1", RoleID: "r1"},
			wantCode:   "QUERY_EXECUTION_FAILED",
		},
		{
			name:       "nil input",
			recruiters: &fakeRecruiters{list: pool},
			wantCode:   "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocator := &fakeAllocator{err: tt.allocErr}
			h := NewHandler(createTestConfig(), allocator, tt.recruiters, createTestValidator(t), logger.NewNoOpLogger())

			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, string(orchestrator.Classify(err, "p1", "r1", "").Code))
		})
	}
}

// ==========================
// Input Validation Tests
// ==========================

func TestInput_Validation(t *testing.T) {
	v := createTestValidator(t)

	var input Input
	require.NoError(t, v.Decode(TaskType, `{"projectId":"p1","roleId":"r1","batchSize":5}`, &input))
	require.NotNil(t, input.BatchSize)
	assert.Equal(t, 5, *input.BatchSize)

	assert.Error(t, v.Decode(TaskType, `{"roleId":"r1"}`, &input))
	assert.Error(t, v.Decode(TaskType, `{"projectId":"p1","roleId":"r1","batchSize":"ten"}`, &input))
}
