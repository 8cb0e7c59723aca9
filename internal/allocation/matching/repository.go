package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recruiter-allocation/internal/models"

	"github.com/lib/pq"
)

const (
	roleQuery = `
		SELECT id, project_id, min_experience, max_experience, skills, technical_skills
		FROM project_roles
		WHERE id = $1 AND project_id = $2`

	roleQualificationsQuery = `
		SELECT q.id, q.name, COALESCE(q.short_name, ''), COALESCE(q.field, ''), COALESCE(q.level, ''), rq.mandatory
		FROM role_qualifications rq
		LEFT JOIN qualifications q ON q.id = rq.qualification_id
		WHERE rq.role_id = $1
		ORDER BY rq.qualification_id`

	aliasesQuery = `
		SELECT qualification_id, alias
		FROM qualification_aliases
		WHERE qualification_id = ANY($1)
		ORDER BY qualification_id, alias`

	equivalenciesQuery = `
		SELECT e.qualification_id, q.id, q.name, COALESCE(q.short_name, '')
		FROM qualification_equivalencies e
		JOIN qualifications q ON q.id = e.equivalent_qualification_id
		WHERE e.qualification_id = ANY($1)
		ORDER BY e.qualification_id, q.id`

	// Candidates without a pipeline row for this (project, role) and not
	// committed on any project. $3 narrows to one candidate when non-empty.
	// Existing assignments are left to the candidate_assignments unique
	// constraint so reruns surface them as duplicates.
	candidatesQuery = `
		SELECT c.id, c.total_experience_years, c.skills
		FROM candidates c
		WHERE ($3 = '' OR c.id = $3)
		  AND NOT EXISTS (
			SELECT 1 FROM candidate_pipelines p
			WHERE p.candidate_id = c.id AND p.project_id = $1 AND p.role_id = $2)
		  AND NOT EXISTS (
			SELECT 1 FROM candidate_pipelines p
			WHERE p.candidate_id = c.id AND p.status = ANY($4))
		ORDER BY c.id`

	candidateQuery = `
		SELECT c.id, c.total_experience_years, c.skills
		FROM candidates c
		WHERE c.id = $1`

	candidateQualificationsQuery = `
		SELECT cq.candidate_id, q.id, COALESCE(q.name, ''), COALESCE(q.short_name, ''), COALESCE(q.field, ''), COALESCE(q.level, '')
		FROM candidate_qualifications cq
		LEFT JOIN qualifications q ON q.id = cq.qualification_id
		WHERE cq.candidate_id = ANY($1)
		ORDER BY cq.candidate_id, cq.qualification_id`

	employmentQuery = `
		SELECT candidate_id, start_date, end_date
		FROM candidate_employments
		WHERE candidate_id = ANY($1)
		ORDER BY candidate_id, start_date`

	projectExistsQuery = `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`

	openRolesQuery = `
		SELECT id
		FROM project_roles
		WHERE project_id = $1 AND status = $2
		ORDER BY id`
)

// Repository reads candidate and role snapshots from Postgres. It satisfies
// RoleSource and CandidateSource.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LoadRole returns the role with its required qualifications, their aliases
// and declared equivalencies.
func (r *Repository) LoadRole(ctx context.Context, projectID, roleID string) (*models.RoleRequirement, error) {
	var (
		role         models.RoleRequirement
		minExp       sql.NullInt64
		maxExp       sql.NullInt64
		skills, tech pq.StringArray
	)
	err := r.db.QueryRowContext(ctx, roleQuery, roleID, projectID).
		Scan(&role.ID, &role.ProjectID, &minExp, &maxExp, &skills, &tech)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: role %s in project %s", ErrRoleNotFound, roleID, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load role %s: %v", ErrQueryFailed, roleID, err)
	}
	role.MinExperience = nullIntPtr(minExp)
	role.MaxExperience = nullIntPtr(maxExp)
	role.Skills = []string(skills)
	role.TechnicalSkills = []string(tech)

	rows, err := r.db.QueryContext(ctx, roleQualificationsQuery, roleID)
	if err != nil {
		return nil, fmt.Errorf("%w: role qualifications %s: %v", ErrQueryFailed, roleID, err)
	}
	defer rows.Close()

	byID := make(map[string]*models.Qualification)
	var ids []string
	for rows.Next() {
		var (
			id, name                sql.NullString
			shortName, field, level string
			mandatory               bool
		)
		if err := rows.Scan(&id, &name, &shortName, &field, &level, &mandatory); err != nil {
			return nil, fmt.Errorf("%w: scan role qualification: %v", ErrQueryFailed, err)
		}
		req := models.RequiredQualification{Mandatory: mandatory}
		// A dangling catalog reference stays nil and is reported by the engine.
		if id.Valid {
			q := &models.Qualification{ID: id.String, Name: name.String, ShortName: shortName, Field: field, Level: level}
			req.Qualification = q
			byID[q.ID] = q
			ids = append(ids, q.ID)
		}
		role.RequiredQualifications = append(role.RequiredQualifications, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: role qualifications %s: %v", ErrQueryFailed, roleID, err)
	}

	if len(ids) > 0 {
		if err := r.loadCatalogDetails(ctx, ids, byID); err != nil {
			return nil, err
		}
	}
	return &role, nil
}

func (r *Repository) loadCatalogDetails(ctx context.Context, ids []string, byID map[string]*models.Qualification) error {
	aliasRows, err := r.db.QueryContext(ctx, aliasesQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: qualification aliases: %v", ErrQueryFailed, err)
	}
	defer aliasRows.Close()
	for aliasRows.Next() {
		var qid, alias string
		if err := aliasRows.Scan(&qid, &alias); err != nil {
			return fmt.Errorf("%w: scan alias: %v", ErrQueryFailed, err)
		}
		if q, ok := byID[qid]; ok {
			q.Aliases = append(q.Aliases, alias)
		}
	}
	if err := aliasRows.Err(); err != nil {
		return fmt.Errorf("%w: qualification aliases: %v", ErrQueryFailed, err)
	}

	eqRows, err := r.db.QueryContext(ctx, equivalenciesQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: qualification equivalencies: %v", ErrQueryFailed, err)
	}
	defer eqRows.Close()
	for eqRows.Next() {
		var qid string
		var eq models.Qualification
		if err := eqRows.Scan(&qid, &eq.ID, &eq.Name, &eq.ShortName); err != nil {
			return fmt.Errorf("%w: scan equivalency: %v", ErrQueryFailed, err)
		}
		if q, ok := byID[qid]; ok {
			q.Equivalencies = append(q.Equivalencies, eq)
		}
	}
	if err := eqRows.Err(); err != nil {
		return fmt.Errorf("%w: qualification equivalencies: %v", ErrQueryFailed, err)
	}
	return nil
}

// ListCandidates returns the candidate universe for a role in id order.
func (r *Repository) ListCandidates(ctx context.Context, projectID, roleID, candidateID string) ([]*models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, candidatesQuery,
		projectID, roleID, candidateID, pq.Array(models.CommittedCandidateStatuses))
	if err != nil {
		return nil, fmt.Errorf("%w: list candidates for %s/%s: %v", ErrQueryFailed, projectID, roleID, err)
	}
	candidates, err := scanCandidates(rows)
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// LoadCandidate returns one candidate regardless of pipeline state.
func (r *Repository) LoadCandidate(ctx context.Context, candidateID string) (*models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, candidateQuery, candidateID)
	if err != nil {
		return nil, fmt.Errorf("%w: load candidate %s: %v", ErrQueryFailed, candidateID, err)
	}
	candidates, err := scanCandidates(rows)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, candidateID)
	}
	if err := r.hydrate(ctx, candidates); err != nil {
		return nil, err
	}
	return candidates[0], nil
}

func scanCandidates(rows *sql.Rows) ([]*models.Candidate, error) {
	defer rows.Close()

	var out []*models.Candidate
	for rows.Next() {
		var (
			c      models.Candidate
			total  sql.NullInt64
			skills pq.StringArray
		)
		if err := rows.Scan(&c.ID, &total, &skills); err != nil {
			return nil, fmt.Errorf("%w: scan candidate: %v", ErrQueryFailed, err)
		}
		c.TotalExperienceYears = nullIntPtr(total)
		c.Skills = []string(skills)
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate candidates: %v", ErrQueryFailed, err)
	}
	return out, nil
}

// hydrate attaches qualifications and employment in two batched queries.
func (r *Repository) hydrate(ctx context.Context, candidates []*models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	byID := make(map[string]*models.Candidate, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	qRows, err := r.db.QueryContext(ctx, candidateQualificationsQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: candidate qualifications: %v", ErrQueryFailed, err)
	}
	defer qRows.Close()
	for qRows.Next() {
		var (
			candidateID                   string
			qid                           sql.NullString
			name, shortName, field, level string
		)
		if err := qRows.Scan(&candidateID, &qid, &name, &shortName, &field, &level); err != nil {
			return fmt.Errorf("%w: scan candidate qualification: %v", ErrQueryFailed, err)
		}
		held := models.CandidateQualification{}
		if qid.Valid {
			held.Qualification = &models.Qualification{ID: qid.String, Name: name, ShortName: shortName, Field: field, Level: level}
		}
		if c, ok := byID[candidateID]; ok {
			c.Qualifications = append(c.Qualifications, held)
		}
	}
	if err := qRows.Err(); err != nil {
		return fmt.Errorf("%w: candidate qualifications: %v", ErrQueryFailed, err)
	}

	eRows, err := r.db.QueryContext(ctx, employmentQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: candidate employment: %v", ErrQueryFailed, err)
	}
	defer eRows.Close()
	for eRows.Next() {
		var (
			candidateID string
			interval    models.EmploymentInterval
			end         sql.NullTime
		)
		if err := eRows.Scan(&candidateID, &interval.Start, &end); err != nil {
			return fmt.Errorf("%w: scan employment: %v", ErrQueryFailed, err)
		}
		if end.Valid {
			t := end.Time
			interval.End = &t
		}
		if c, ok := byID[candidateID]; ok {
			c.Employment = append(c.Employment, interval)
		}
	}
	if err := eRows.Err(); err != nil {
		return fmt.Errorf("%w: candidate employment: %v", ErrQueryFailed, err)
	}
	return nil
}

func (r *Repository) ProjectExists(ctx context.Context, projectID string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, projectExistsQuery, projectID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: project %s: %v", ErrQueryFailed, projectID, err)
	}
	return exists, nil
}

// ListOpenRoles returns the ids of a project's open roles in id order.
func (r *Repository) ListOpenRoles(ctx context.Context, projectID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, openRolesQuery, projectID, models.RoleStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("%w: open roles for %s: %v", ErrQueryFailed, projectID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan role id: %v", ErrQueryFailed, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: open roles for %s: %v", ErrQueryFailed, projectID, err)
	}
	return ids, nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
