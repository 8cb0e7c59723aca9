package orchestrator

import (
	"context"
	"errors"

	"recruiter-allocation/internal/allocation/cursor"
	"recruiter-allocation/internal/allocation/matching"
	apperrors "recruiter-allocation/internal/common/errors"
)

// Classify maps an allocation error onto the standard error codes reported
// to the workflow engine. Unknown errors are treated as retryable query
// failures because every run starts with storage reads.
func Classify(err error, projectID, roleID, candidateID string) *apperrors.StandardError {
	var stdErr *apperrors.StandardError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &stdErr):
		return stdErr
	case errors.Is(err, ErrInvalidInput), errors.Is(err, cursor.ErrInvalidKey):
		return apperrors.NewInvalidInputError(err.Error()).WithCause(err)
	case errors.Is(err, cursor.ErrNoRecruitersAvailable):
		return apperrors.NewNoRecruitersAvailableError(err)
	case errors.Is(err, matching.ErrRoleNotFound):
		return apperrors.NewRoleNotFoundError(projectID, roleID, err)
	case errors.Is(err, ErrProjectNotFound):
		return apperrors.NewProjectNotFoundError(projectID, err)
	case errors.Is(err, matching.ErrCandidateNotFound):
		return apperrors.NewCandidateNotFoundError(candidateID, err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewQueryTimeoutError("allocation", err)
	case errors.Is(err, matching.ErrScoringFailed):
		return apperrors.NewInternalError(err)
	default:
		return apperrors.NewQueryExecutionFailedError("allocation", err)
	}
}
