package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"recruiter-allocation/internal/allocation/cursor"
	"recruiter-allocation/internal/allocation/matching"
	apperrors "recruiter-allocation/internal/common/errors"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  apperrors.ErrorCode
		retryable bool
	}{
		{name: "no recruiters", err: cursor.ErrNoRecruitersAvailable, wantCode: apperrors.ErrCodeNoRecruitersAvailable},
		{name: "unknown role", err: fmt.Errorf("%w: role-9", matching.ErrRoleNotFound), wantCode: apperrors.ErrCodeRoleNotFound},
		{name: "unknown project", err: fmt.Errorf("%w: p-9", ErrProjectNotFound), wantCode: apperrors.ErrCodeProjectNotFound},
		{name: "unknown candidate", err: matching.ErrCandidateNotFound, wantCode: apperrors.ErrCodeCandidateNotFound},
		{name: "bad input", err: fmt.Errorf("%w: roleId", ErrInvalidInput), wantCode: apperrors.ErrCodeInvalidInput},
		{name: "bad cursor key", err: cursor.ErrInvalidKey, wantCode: apperrors.ErrCodeInvalidInput},
		{name: "query failure", err: fmt.Errorf("%w: timeout", matching.ErrQueryFailed), wantCode: apperrors.ErrCodeQueryExecutionFailed, retryable: true},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: apperrors.ErrCodeQueryTimeout, retryable: true},
		{name: "unclassified", err: errors.New("driver: bad connection"), wantCode: apperrors.ErrCodeQueryExecutionFailed, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, "project-1", "role-1", "cand-1")
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, Classify(nil, "", "", ""))

	existing := apperrors.NewCursorUpdateFailedError(errors.New("lock"))
	assert.Same(t, existing, Classify(fmt.Errorf("reset: %w", existing), "", "", ""))
}
