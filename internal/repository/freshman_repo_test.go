// Package repository_test provides unit tests for the data access layer.
// Tests use pgxmock v4 for database mocking and follow table-driven patterns
// with the Arrange-Act-Assert structure.
package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JoelEager/packet/internal/apierr"
	"github.com/JoelEager/packet/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshmanRepository_FindByUsername(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		mockSetup   func(pgxmock.PgxPoolIface)
		expectError error
	}{
		{
			name:     "existing freshman",
			username: "newkid",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"rit_username", "name", "onfloor"}).
					AddRow("newkid", "New Kid", true)

				mock.ExpectQuery(`SELECT rit_username, name, onfloor FROM freshman`).
					WithArgs("newkid").
					WillReturnRows(rows)
			},
		},
		{
			name:     "unknown username maps to not found",
			username: "ghost",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT rit_username, name, onfloor FROM freshman`).
					WithArgs("ghost").
					WillReturnRows(pgxmock.NewRows([]string{"rit_username", "name", "onfloor"}))
			},
			expectError: apierr.ErrBadUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)
			repo := repository.NewFreshmanRepository(mock)

			// Act
			freshman, err := repo.FindByUsername(context.Background(), tt.username)

			// Assert
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.username, freshman.RITUsername)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFreshmanRepository_SearchByName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"rit_username", "name", "onfloor"}).
		AddRow("jsmith", "John Smith", true).
		AddRow("asmith", "Anne Smithson", false)

	mock.ExpectQuery(`FROM freshman`).
		WithArgs("Smith").
		WillReturnRows(rows)

	repo := repository.NewFreshmanRepository(mock)

	results, err := repo.SearchByName(context.Background(), "Smith")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "John Smith", results[0].Name)
	assert.False(t, results[1].OnFloor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFreshmanRepository_SearchByName_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM freshman`).
		WithArgs("Zz").
		WillReturnRows(pgxmock.NewRows([]string{"rit_username", "name", "onfloor"}))

	repo := repository.NewFreshmanRepository(mock)

	results, err := repo.SearchByName(context.Background(), "Zz")

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFreshmanRepository_HasOpenPacket(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("newkid", now).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := repository.NewFreshmanRepository(mock)

	open, err := repo.HasOpenPacket(context.Background(), "newkid", now)

	require.NoError(t, err)
	assert.True(t, open)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFreshmanRepository_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM freshman`).
		WithArgs("Smith").
		WillReturnError(errors.New("connection refused"))

	repo := repository.NewFreshmanRepository(mock)

	_, err = repo.SearchByName(context.Background(), "Smith")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
