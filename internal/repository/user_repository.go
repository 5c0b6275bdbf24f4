package repository

import (
	"context"
	"fmt"

	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

// Normalized column names of the Lecturers sheet.
const (
	colUsername = "Username"
	colPassword = "Password"
	colRole     = "Role"
	colEmail    = "Email"
)

// UserRepository reads the externally managed Lecturers sheet. The sheet
// is never written by this system.
type UserRepository struct {
	store sheets.Store
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(store sheets.Store) *UserRepository {
	return &UserRepository{store: store}
}

// List returns every lecturer row in sheet order.
func (r *UserRepository) List(ctx context.Context) ([]models.Lecturer, error) {
	table, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch lecturers: %w", err)
	}
	lecturers := make([]models.Lecturer, len(table.Rows))
	for i, row := range table.Rows {
		lecturers[i] = models.Lecturer{
			Username: row.Get(colUsername),
			Password: row.Get(colPassword),
			Role:     models.UserRole(row.Get(colRole)),
			Email:    row.Get(colEmail),
		}
	}
	return lecturers, nil
}

// EmailByUsername resolves a lecturer's email address, matching the
// username case-insensitively. Returns ErrRowNotFound when no lecturer
// row matches; a matching row with an empty email returns "".
func (r *UserRepository) EmailByUsername(ctx context.Context, username string) (string, error) {
	lecturers, err := r.List(ctx)
	if err != nil {
		return "", err
	}
	want := sheets.Fold(username)
	for _, lecturer := range lecturers {
		if sheets.Fold(lecturer.Username) == want {
			return lecturer.Email, nil
		}
	}
	return "", ErrRowNotFound
}
