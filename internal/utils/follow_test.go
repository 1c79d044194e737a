package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestIsFollowing(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	tests := []struct {
		name           string
		followerID     string
		followingID    string
		mockRows       *sqlmock.Rows
		mockErr        error
		expectedResult bool
		expectedError  bool
	}{
		{
			name:           "edge exists",
			followerID:     "alice",
			followingID:    "bob",
			mockRows:       sqlmock.NewRows([]string{"count"}).AddRow(1),
			expectedResult: true,
		},
		{
			name:           "no edge",
			followerID:     "alice",
			followingID:    "bob",
			mockRows:       sqlmock.NewRows([]string{"count"}).AddRow(0),
			expectedResult: false,
		},
		{
			name:           "query fails",
			followerID:     "alice",
			followingID:    "bob",
			mockErr:        errors.New("connection reset"),
			expectedResult: false,
			expectedError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
				WithArgs(tt.followerID, tt.followingID)
			if tt.mockErr != nil {
				exp.WillReturnError(tt.mockErr)
			} else {
				exp.WillReturnRows(tt.mockRows)
			}

			result, err := IsFollowing(context.Background(), db, tt.followerID, tt.followingID)

			assert.Equal(t, tt.expectedResult, result)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
