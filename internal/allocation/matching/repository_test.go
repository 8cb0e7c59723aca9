package matching

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"recruiter-allocation/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

// ==========================
// Role Tests
// ==========================

func TestRepository_LoadRole(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM project_roles").
		WithArgs("role-1", "project-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "min_experience", "max_experience", "skills", "technical_skills"}).
			AddRow("role-1", "project-1", 2, nil, `{"patient care",triage}`, "{}"))
	mock.ExpectQuery("FROM role_qualifications").
		WithArgs("role-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "short_name", "field", "level", "mandatory"}).
			AddRow("q-bsn", "Bachelor of Science in Nursing", "BSc Nursing", "nursing", "bachelor", true).
			AddRow(nil, nil, "", "", "", false))
	mock.ExpectQuery("FROM qualification_aliases").
		WillReturnRows(sqlmock.NewRows([]string{"qualification_id", "alias"}).
			AddRow("q-bsn", "BSN"))
	mock.ExpectQuery("FROM qualification_equivalencies").
		WillReturnRows(sqlmock.NewRows([]string{"qualification_id", "id", "name", "short_name"}).
			AddRow("q-bsn", "q-bn", "Bachelor of Nursing", "BN"))

	role, err := repo.LoadRole(context.Background(), "project-1", "role-1")
	require.NoError(t, err)

	require.NotNil(t, role.MinExperience)
	assert.Equal(t, 2, *role.MinExperience)
	assert.Nil(t, role.MaxExperience)
	assert.Equal(t, []string{"patient care", "triage"}, role.Skills)
	assert.Empty(t, role.TechnicalSkills)

	require.Len(t, role.RequiredQualifications, 2)
	bsn := role.RequiredQualifications[0]
	assert.True(t, bsn.Mandatory)
	require.NotNil(t, bsn.Qualification)
	assert.Equal(t, "BSc Nursing", bsn.Qualification.ShortName)
	assert.Equal(t, []string{"BSN"}, bsn.Qualification.Aliases)
	assert.Equal(t, []models.Qualification{{ID: "q-bn", Name: "Bachelor of Nursing", ShortName: "BN"}}, bsn.Qualification.Equivalencies)

	// dangling catalog reference
	assert.Nil(t, role.RequiredQualifications[1].Qualification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LoadRole_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM project_roles").WillReturnError(sql.ErrNoRows)

	_, err := repo.LoadRole(context.Background(), "project-1", "missing")
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LoadRole_QueryFailure(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM project_roles").WillReturnError(sql.ErrConnDone)

	_, err := repo.LoadRole(context.Background(), "project-1", "role-1")
	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.NotErrorIs(t, err, ErrRoleNotFound)
}

// ==========================
// Candidate Tests
// ==========================

func TestRepository_ListCandidates(t *testing.T) {
	repo, mock := newRepo(t)
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM candidates c").
		WithArgs("project-1", "role-1", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_experience_years", "skills"}).
			AddRow("cand-1", 5, "{sql}").
			AddRow("cand-2", nil, "{}"))
	mock.ExpectQuery("FROM candidate_qualifications").
		WillReturnRows(sqlmock.NewRows([]string{"candidate_id", "id", "name", "short_name", "field", "level"}).
			AddRow("cand-1", "q-bsn", "Bachelor of Science in Nursing", "BSc Nursing", "nursing", "bachelor").
			AddRow("cand-2", nil, "", "", "", ""))
	mock.ExpectQuery("FROM candidate_employments").
		WillReturnRows(sqlmock.NewRows([]string{"candidate_id", "start_date", "end_date"}).
			AddRow("cand-2", start, end).
			AddRow("cand-2", end, nil))

	got, err := repo.ListCandidates(context.Background(), "project-1", "role-1", "")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "cand-1", got[0].ID)
	require.NotNil(t, got[0].TotalExperienceYears)
	assert.Equal(t, 5, *got[0].TotalExperienceYears)
	assert.Equal(t, []string{"sql"}, got[0].Skills)
	require.Len(t, got[0].Qualifications, 1)
	assert.Equal(t, "q-bsn", got[0].Qualifications[0].Qualification.ID)

	assert.Nil(t, got[1].TotalExperienceYears)
	require.Len(t, got[1].Qualifications, 1)
	assert.Nil(t, got[1].Qualifications[0].Qualification)
	require.Len(t, got[1].Employment, 2)
	require.NotNil(t, got[1].Employment[0].End)
	assert.True(t, end.Equal(*got[1].Employment[0].End))
	assert.Nil(t, got[1].Employment[1].End)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListCandidates_EmptySkipsHydration(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM candidates c").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_experience_years", "skills"}))

	got, err := repo.ListCandidates(context.Background(), "project-1", "role-1", "cand-9")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListCandidates_KeepsAssignedCandidates(t *testing.T) {
	matcher := sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		if strings.Contains(actual, "candidate_assignments") {
			return fmt.Errorf("candidate universe must not filter on assignments: %s", actual)
		}
		return sqlmock.QueryMatcherRegexp.Match(expected, actual)
	})
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery("FROM candidates c").
		WithArgs("project-1", "role-1", "cand-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_experience_years", "skills"}).
			AddRow("cand-1", 3, "{}"))
	mock.ExpectQuery("FROM candidate_qualifications").
		WillReturnRows(sqlmock.NewRows([]string{"candidate_id", "id", "name", "short_name", "field", "level"}))
	mock.ExpectQuery("FROM candidate_employments").
		WillReturnRows(sqlmock.NewRows([]string{"candidate_id", "start_date", "end_date"}))

	got, err := repo.ListCandidates(context.Background(), "project-1", "role-1", "cand-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cand-1", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LoadCandidate_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM candidates c").
		WithArgs("cand-404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_experience_years", "skills"}))

	_, err := repo.LoadCandidate(context.Background(), "cand-404")
	assert.ErrorIs(t, err, ErrCandidateNotFound)
}

// ==========================
// Project Tests
// ==========================

func TestRepository_ProjectExistsAndOpenRoles(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM projects").
		WithArgs("project-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("FROM project_roles").
		WithArgs("project-1", models.RoleStatusOpen).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("role-1").AddRow("role-2"))

	exists, err := repo.ProjectExists(context.Background(), "project-1")
	require.NoError(t, err)
	assert.True(t, exists)

	roles, err := repo.ListOpenRoles(context.Background(), "project-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"role-1", "role-2"}, roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}
