package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/internal/repository"
	appErrors "github.com/csi-informatics/results-api/pkg/errors"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

type mockScoreRepo struct {
	records        []models.ScoreRecord
	fetchErr       error
	updateScoreErr error
	scoreWrites    int
	statusWrites   int
}

func (m *mockScoreRepo) FetchAll(ctx context.Context) ([]models.ScoreRecord, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]models.ScoreRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *mockScoreRepo) Find(ctx context.Context, indexNumber, course string) (*models.ScoreRecord, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if r := m.locate(indexNumber, course); r != nil {
		record := *r
		return &record, nil
	}
	return nil, repository.ErrRowNotFound
}

func (m *mockScoreRepo) UpdateScore(ctx context.Context, indexNumber, course string, ca, score float64) error {
	if m.updateScoreErr != nil {
		return m.updateScoreErr
	}
	record := m.locate(indexNumber, course)
	if record == nil {
		return repository.ErrRowNotFound
	}
	if record.Status.Locked() {
		return repository.ErrRowLocked
	}
	record.CA = ca
	record.Score = score
	record.Status = models.StatusPending
	m.scoreWrites++
	return nil
}

func (m *mockScoreRepo) UpdateStatus(ctx context.Context, indexNumber, course string, status models.ScoreStatus) error {
	record := m.locate(indexNumber, course)
	if record == nil {
		return repository.ErrRowNotFound
	}
	record.Status = status
	m.statusWrites++
	return nil
}

func (m *mockScoreRepo) ForLecturer(username string, records []models.ScoreRecord) []models.ScoreRecord {
	out := make([]models.ScoreRecord, 0)
	for _, record := range records {
		if sheets.Fold(record.Lecturer) == sheets.Fold(username) {
			out = append(out, record)
		}
	}
	return out
}

func (m *mockScoreRepo) locate(indexNumber, course string) *models.ScoreRecord {
	for i := range m.records {
		if strings.TrimSpace(m.records[i].IndexNumber) == strings.TrimSpace(indexNumber) &&
			strings.TrimSpace(m.records[i].Course) == strings.TrimSpace(course) {
			return &m.records[i]
		}
	}
	return nil
}

func seededScoreRepo() *mockScoreRepo {
	return &mockScoreRepo{records: []models.ScoreRecord{
		{IndexNumber: "S1", StudentName: "Ama Mensah", Course: "CS601", CourseTitle: "Advanced Algorithms", AcademicYear: "2024/2025", Lecturer: "jdoe", Status: models.StatusEditable},
		{IndexNumber: "S1", StudentName: "Ama Mensah", Course: "CS605", CourseTitle: "Distributed Systems", AcademicYear: "2024/2025", Lecturer: "Dr.Smith", CA: 30, Score: 50, Status: models.StatusPending},
		{IndexNumber: "S2", StudentName: "Kwame Osei", Course: "CS601", CourseTitle: "Advanced Algorithms", AcademicYear: "2024/2025", Lecturer: "jdoe", CA: 35, Score: 55, Status: models.StatusApproved},
	}}
}

func lecturerClaims(username string) *models.JWTClaims {
	return &models.JWTClaims{Username: username, Role: models.RoleLecturer}
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{Username: "admin", Role: models.RoleAdmin}
}

func newScoreService(repo scoreRepo) *ScoreService {
	return NewScoreService(repo, validator.New(), zap.NewNop())
}

func TestListScopesLecturerToAssignedRecords(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	records, err := svc.List(context.Background(), lecturerClaims("JDOE"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, "jdoe", record.Lecturer)
	}

	all, err := svc.List(context.Background(), adminClaims())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetRefusesForeignRecord(t *testing.T) {
	svc := newScoreService(seededScoreRepo())

	_, err := svc.Get(context.Background(), lecturerClaims("jdoe"), "S1", "CS605")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	record, err := svc.Get(context.Background(), adminClaims(), "S1", "CS605")
	require.NoError(t, err)
	assert.Equal(t, "Dr.Smith", record.Lecturer)
}

func TestSubmitHappyPathLandsPending(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	record, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S1", Course: "CS601", CA: 35.55, Score: 55,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Equal(t, 35.6, record.CA)
	assert.Equal(t, 55.0, record.Score)
	assert.Equal(t, 1, repo.scoreWrites)
}

func TestSubmitAcceptsFullBudget(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	record, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S1", Course: "CS601", CA: 40, Score: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Equal(t, 40.0, record.CA)
	assert.Equal(t, 60.0, record.Score)
	assert.Equal(t, 1, repo.scoreWrites)
}

func TestSubmitRejectsExamAboveMax(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	_, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S1", Course: "CS601", CA: 40, Score: 61,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.scoreWrites)
}

func TestSubmitRejectsOverBudgetTotal(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	_, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S1", Course: "CS601", CA: 40.5, Score: 60,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.scoreWrites)
}

func TestSubmitRejectsZeroComponents(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	for _, req := range []SubmitScoreRequest{
		{IndexNumber: "S1", Course: "CS601", CA: 0, Score: 50},
		{IndexNumber: "S1", Course: "CS601", CA: 30, Score: 0},
		{IndexNumber: "S1", Course: "CS601", CA: 0.04, Score: 50},
	} {
		_, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Zero(t, repo.scoreWrites)
}

func TestSubmitRefusesApprovedRecord(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	_, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S2", Course: "CS601", CA: 20, Score: 40,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScoreLocked.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.scoreWrites)
}

func TestSubmitRefusesForeignRecord(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	_, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S1", Course: "CS605", CA: 20, Score: 40,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmitUnknownRecord(t *testing.T) {
	svc := newScoreService(seededScoreRepo())

	_, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S9", Course: "CS601", CA: 20, Score: 40,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRecordNotFound.Code, appErrors.FromError(err).Code)
}

func TestApproveIsIdempotent(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	record, err := svc.Approve(context.Background(), StatusActionRequest{IndexNumber: "S1", Course: "CS605"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, record.Status)
	assert.Equal(t, 1, repo.statusWrites)

	record, err = svc.Approve(context.Background(), StatusActionRequest{IndexNumber: "S1", Course: "CS605"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, record.Status)
	assert.Equal(t, 1, repo.statusWrites)
}

func TestUnlockReopensApprovedRecord(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)

	record, err := svc.Unlock(context.Background(), StatusActionRequest{IndexNumber: "S2", Course: "CS601"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusEditable, record.Status)

	// the unlocked row accepts submissions again and lands back in Pending
	resubmitted, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S2", Course: "CS601", CA: 38, Score: 58,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, resubmitted.Status)
}

// Exercises the full lifecycle on one row: submit, approve, refused
// resubmit, unlock, resubmit.
func TestScoreLifecycleEndToEnd(t *testing.T) {
	repo := seededScoreRepo()
	svc := newScoreService(repo)
	key := StatusActionRequest{IndexNumber: "S1", Course: "CS601"}

	record, err := svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S1", Course: "CS601", CA: 30, Score: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, record.Status)

	record, err = svc.Approve(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, record.Status)

	_, err = svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S1", Course: "CS601", CA: 31, Score: 51,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScoreLocked.Code, appErrors.FromError(err).Code)

	record, err = svc.Unlock(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEditable, record.Status)

	record, err = svc.Submit(context.Background(), lecturerClaims("jdoe"), SubmitScoreRequest{
		IndexNumber: "S1", Course: "CS601", CA: 31, Score: 51,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Equal(t, 31.0, record.CA)
	assert.Equal(t, 51.0, record.Score)
}

func TestListUpstreamFailure(t *testing.T) {
	svc := newScoreService(&mockScoreRepo{fetchErr: errors.New("quota exceeded")})

	_, err := svc.List(context.Background(), adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}
