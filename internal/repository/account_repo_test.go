// Package repository_test provides unit tests for the data access layer.
// This file covers account lookups for login and the member directory.
package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/JoelEager/packet/internal/apierr"
	"github.com/JoelEager/packet/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_FindByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM accounts`).
		WithArgs("chair").
		WillReturnRows(pgxmock.NewRows([]string{"username", "name", "member", "password_hash", "created_at"}).
			AddRow("chair", "Chair Person", true, "$2a$12$hash", created))

	repo := repository.NewAccountRepository(mock)

	account, err := repo.FindByUsername(context.Background(), "chair")

	require.NoError(t, err)
	assert.Equal(t, "Chair Person", account.Name)
	assert.True(t, account.Member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_LookupName(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		mockSetup   func(pgxmock.PgxPoolIface)
		wantName    string
		expectError error
	}{
		{
			name:     "known member",
			username: "chair",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT name FROM accounts`).
					WithArgs("chair").
					WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Chair Person"))
			},
			wantName: "Chair Person",
		},
		{
			name:     "unknown member maps to not found",
			username: "nobody",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT name FROM accounts`).
					WithArgs("nobody").
					WillReturnRows(pgxmock.NewRows([]string{"name"}))
			},
			expectError: apierr.ErrBadMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)
			repo := repository.NewAccountRepository(mock)

			name, err := repo.LookupName(context.Background(), tt.username)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantName, name)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
