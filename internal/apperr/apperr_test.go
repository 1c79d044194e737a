package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{"validation", Validation("Email already registered"), http.StatusBadRequest, "Email already registered"},
		{"invalid argument", InvalidArgument("You can't follow yourself"), http.StatusBadRequest, "You can't follow yourself"},
		{"invalid credential", InvalidCredential("Invalid password"), http.StatusBadRequest, "Invalid password"},
		{"not found", NotFound("User not found"), http.StatusNotFound, "User not found"},
		{"unauthorized", Unauthorized("Invalid token"), http.StatusUnauthorized, "Invalid token"},
		{"forbidden", Forbidden("Not your post"), http.StatusForbidden, "Not your post"},
		{"wrapped", fmt.Errorf("toggle: %w", NotFound("Post not found")), http.StatusNotFound, "Post not found"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, InternalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, Status(tt.err))
			assert.Equal(t, tt.expectedMsg, Message(tt.err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindValidation, "Invalid post", cause)

	assert.True(t, Is(err, KindValidation))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Invalid post", Message(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.Wrap(&pgconn.PgError{Code: "23505"}, "insert user")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
}
