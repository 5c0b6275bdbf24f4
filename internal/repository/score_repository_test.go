package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

func scoresStore() *sheets.MemoryStore {
	return sheets.NewMemoryStore(
		[]string{"IndexNumber", "StudentName", "Course", "Course Title", "Academic Year", "Lecturer", "Score", "Ca", "Status"},
		[]string{"S1", "Ama Mensah", "CS601", "Advanced Algorithms", "2024/2025", "jdoe", "", "", "Editable"},
		[]string{"S1", "Ama Mensah", "CS605", "Distributed Systems", "2024/2025", "Dr.Smith", "50.0", "30.0", "Pending"},
		[]string{"S2", "Kofi Boateng", "CS601", "Advanced Algorithms", "2024/2025", "JDOE", "55.0", "38.0", "Approved"},
	)
}

func TestScoreRepositoryFetchAll(t *testing.T) {
	repo := NewScoreRepository(scoresStore())

	records, err := repo.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "S1", records[0].IndexNumber)
	assert.Equal(t, "Advanced Algorithms", records[0].CourseTitle)
	assert.Equal(t, models.StatusEditable, records[0].Status)
	assert.Equal(t, 30.0, records[1].CA)
	assert.Equal(t, 50.0, records[1].Score)
}

func TestScoreRepositoryFind(t *testing.T) {
	repo := NewScoreRepository(scoresStore())

	record, err := repo.Find(context.Background(), "S1", "CS605")
	require.NoError(t, err)
	assert.Equal(t, "Dr.Smith", record.Lecturer)

	_, err = repo.Find(context.Background(), "S9", "CS601")
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestScoreRepositoryUpdateScoreForcesPending(t *testing.T) {
	store := scoresStore()
	repo := NewScoreRepository(store)

	require.NoError(t, repo.UpdateScore(context.Background(), "S1", "CS601", 35.5, 50.2))

	record, err := repo.Find(context.Background(), "S1", "CS601")
	require.NoError(t, err)
	assert.Equal(t, 35.5, record.CA)
	assert.Equal(t, 50.2, record.Score)
	assert.Equal(t, models.StatusPending, record.Status)

	// one cell per column touched: score, ca, status
	assert.Len(t, store.Updates, 3)
}

func TestScoreRepositoryUpdateScoreRefusesApprovedRow(t *testing.T) {
	store := scoresStore()
	repo := NewScoreRepository(store)

	err := repo.UpdateScore(context.Background(), "S2", "CS601", 10, 10)
	assert.ErrorIs(t, err, ErrRowLocked)
	assert.Empty(t, store.Updates)
}

func TestScoreRepositoryUpdateScoreUnknownKeyIsNoOp(t *testing.T) {
	store := scoresStore()
	repo := NewScoreRepository(store)

	err := repo.UpdateScore(context.Background(), "S1", "CS999", 10, 10)
	assert.ErrorIs(t, err, ErrRowNotFound)
	assert.Empty(t, store.Updates)
}

func TestScoreRepositoryUpdateScoreSkipsMissingColumns(t *testing.T) {
	store := sheets.NewMemoryStore(
		[]string{"IndexNumber", "Course", "Lecturer", "Status"},
		[]string{"S1", "CS601", "jdoe", "Editable"},
	)
	repo := NewScoreRepository(store)

	require.NoError(t, repo.UpdateScore(context.Background(), "S1", "CS601", 35.5, 50.2))
	// only the status column exists to receive a write besides the keys
	require.Len(t, store.Updates, 1)
	assert.Equal(t, "Pending", store.Updates[0].Value)
}

func TestScoreRepositoryUpdateStatus(t *testing.T) {
	repo := NewScoreRepository(scoresStore())

	require.NoError(t, repo.UpdateStatus(context.Background(), "S1", "CS605", models.StatusApproved))
	record, err := repo.Find(context.Background(), "S1", "CS605")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, record.Status)

	// untouched neighbours keep their values
	assert.Equal(t, 30.0, record.CA)
	assert.Equal(t, 50.0, record.Score)

	err = repo.UpdateStatus(context.Background(), "S9", "CS601", models.StatusEditable)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestScoreRepositoryForLecturerIsCaseInsensitive(t *testing.T) {
	repo := NewScoreRepository(scoresStore())
	records, err := repo.FetchAll(context.Background())
	require.NoError(t, err)

	upper := repo.ForLecturer("JDOE", records)
	lower := repo.ForLecturer("jdoe", records)
	assert.Equal(t, upper, lower)
	require.Len(t, upper, 2)
	assert.Equal(t, "S1", upper[0].IndexNumber)
	assert.Equal(t, "S2", upper[1].IndexNumber)

	assert.Empty(t, repo.ForLecturer("nobody", records))
}
