package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Conversion Tests
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{name: "validation", err: NewNoRecruitersAvailableError(nil), wantCode: "NO_RECRUITERS_AVAILABLE", wantRetries: 0},
		{name: "not found", err: NewRoleNotFoundError("p1", "r1", nil), wantCode: "ROLE_NOT_FOUND", wantRetries: 0},
		{name: "query failure", err: NewQueryExecutionFailedError("list candidates", stderrors.New("boom")), wantCode: "QUERY_EXECUTION_FAILED", wantRetries: 3},
		{name: "timeout", err: NewQueryTimeoutError("list candidates", nil), wantCode: "QUERY_TIMEOUT", wantRetries: 2},
		{name: "internal", err: NewInternalError(stderrors.New("nil map")), wantCode: "INTERNAL_ERROR", wantRetries: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	err := NewProjectNotFoundError("p1", nil).WithMetadata("projectId", "p1")
	vars := ConvertToBPMNError(err).ToErrorVariables()
	assert.Equal(t, "p1", vars["projectId"])
}

// ==========================
// Retry Policy Tests
// ==========================

func TestShouldRetry(t *testing.T) {
	retryable := NewDatabaseConnectionFailedError(stderrors.New("refused"))

	assert.True(t, ShouldRetry(retryable, 3))
	assert.False(t, ShouldRetry(retryable, 1), "last attempt escalates")
	assert.False(t, ShouldRetry(NewInvalidInputError("roleId"), 3))
}

func TestRemainingRetries(t *testing.T) {
	assert.Equal(t, int32(2), RemainingRetries(3, 3))
	assert.Equal(t, int32(3), RemainingRetries(10, 3))
	assert.Equal(t, int32(0), RemainingRetries(0, 3))
}

func TestNormalize(t *testing.T) {
	stdErr := NewCandidateNotFoundError("c1", nil)
	wrapped := fmt.Errorf("check: %w", stdErr)
	assert.Same(t, stdErr, Normalize(wrapped))

	plain := stderrors.New("unexpected")
	normalized := Normalize(plain)
	assert.Equal(t, ErrCodeInternal, normalized.Code)
	assert.ErrorIs(t, normalized, plain)
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeQueryExecutionFailed:     "DATABASE",
		ErrCodeDatabaseConnectionFailed: "DATABASE",
		ErrCodeCursorUpdateFailed:       "ALLOCATION",
		ErrCodeNoRecruitersAvailable:    "ALLOCATION",
		ErrCodeRoleNotFound:             "NOT_FOUND",
		ErrCodeInvalidInput:             "VALIDATION",
		ErrCodeInternal:                 "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), code)
	}
	require.True(t, IsRetryableErrorCode(ErrCodeCursorUpdateFailed))
}
