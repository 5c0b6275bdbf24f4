package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

func usersStore() *sheets.MemoryStore {
	return sheets.NewMemoryStore(
		[]string{"Username", "Password", "Role", "Email"},
		[]string{"jdoe", "secret", "User", "jdoe@example.edu"},
		[]string{"Dr.Smith", "hunter2", "User", ""},
		[]string{"coordinator", "adminpass", "Admin", "coord@example.edu"},
	)
}

func TestUserRepositoryList(t *testing.T) {
	repo := NewUserRepository(usersStore())

	lecturers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, lecturers, 3)
	assert.Equal(t, models.RoleLecturer, lecturers[0].Role)
	assert.Equal(t, models.RoleAdmin, lecturers[2].Role)
	assert.Equal(t, "jdoe@example.edu", lecturers[0].Email)
}

func TestUserRepositoryEmailByUsername(t *testing.T) {
	repo := NewUserRepository(usersStore())

	email, err := repo.EmailByUsername(context.Background(), "  JDOE ")
	require.NoError(t, err)
	assert.Equal(t, "jdoe@example.edu", email)

	email, err = repo.EmailByUsername(context.Background(), "dr.smith")
	require.NoError(t, err)
	assert.Empty(t, email)

	_, err = repo.EmailByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrRowNotFound)
}
