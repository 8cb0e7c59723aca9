// Package cursor keeps the persistent round-robin position used to hand
// candidates to recruiters fairly. One cursor exists per (project, role).
//
// The position is never cached in memory: every advance is a single atomic
// read-modify-write against shared storage so that concurrent allocation
// runs, in this process or another, each observe a distinct index.
package cursor

import (
	"context"
	"errors"
	"fmt"

	"recruiter-allocation/internal/models"
)

var (
	ErrNoRecruitersAvailable = errors.New("NO_RECRUITERS_AVAILABLE")
	ErrInvalidKey            = errors.New("INVALID_CURSOR_KEY")
)

// Store advances and resets cursors.
type Store interface {
	// Next advances the cursor for (projectID, roleID) and returns the new
	// index in [0, poolSize). A missing cursor starts at 0, so the first
	// call returns 1 % poolSize.
	Next(ctx context.Context, projectID, roleID string, poolSize int) (int, error)
	// Reset forces the cursor back to 0. It is idempotent.
	Reset(ctx context.Context, projectID, roleID string) error
}

// NextRecruiter picks the next recruiter for (projectID, roleID) from an
// ordered list. The list itself is not persisted, only the index.
func NextRecruiter(ctx context.Context, store Store, projectID, roleID string, recruiters []models.Recruiter) (models.Recruiter, error) {
	if len(recruiters) == 0 {
		return models.Recruiter{}, ErrNoRecruitersAvailable
	}

	idx, err := store.Next(ctx, projectID, roleID, len(recruiters))
	if err != nil {
		return models.Recruiter{}, err
	}
	if idx < 0 || idx >= len(recruiters) {
		return models.Recruiter{}, fmt.Errorf("cursor for %s/%s returned index %d outside pool of %d",
			projectID, roleID, idx, len(recruiters))
	}
	return recruiters[idx], nil
}

func validateKey(projectID, roleID string) error {
	if projectID == "" || roleID == "" {
		return fmt.Errorf("%w: projectId and roleId are required", ErrInvalidKey)
	}
	return nil
}

// advance wraps last into the pool. A stored index from a larger pool is
// folded back into range.
func advance(last, poolSize int) int {
	next := (last + 1) % poolSize
	if next < 0 {
		next += poolSize
	}
	return next
}
