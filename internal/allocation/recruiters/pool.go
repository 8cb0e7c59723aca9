// Package recruiters reads the active recruiter pool.
package recruiters

import (
	"context"
	"database/sql"
	"fmt"

	"recruiter-allocation/internal/models"
)

const activeRecruitersQuery = `
	SELECT r.id, r.name, COALESCE(r.email, ''), COUNT(a.id) AS open_workload
	FROM recruiters r
	LEFT JOIN candidate_assignments a
		ON a.recruiter_id = r.id AND a.closed_at IS NULL
	WHERE r.active = TRUE
	GROUP BY r.id, r.name, r.email
	ORDER BY r.id ASC`

// Pool lists recruiters in a stable order so the allocation cursor indexes
// the same recruiter for the same position between runs.
type Pool struct {
	db *sql.DB
}

func NewPool(db *sql.DB) *Pool {
	return &Pool{db: db}
}

// ActiveRecruiters returns active recruiters ordered by ID, each with its
// count of open assignments.
func (p *Pool) ActiveRecruiters(ctx context.Context) ([]models.Recruiter, error) {
	rows, err := p.db.QueryContext(ctx, activeRecruitersQuery)
	if err != nil {
		return nil, fmt.Errorf("query recruiters: %w", err)
	}
	defer rows.Close()

	var out []models.Recruiter
	for rows.Next() {
		var r models.Recruiter
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.CurrentOpenWorkload); err != nil {
			return nil, fmt.Errorf("scan recruiter: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recruiters: %w", err)
	}
	return out, nil
}
