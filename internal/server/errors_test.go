package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/placement-advisor/internal/placement"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"username taken", &ErrUsernameTaken{Username: "x"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"password mismatch", &ErrPasswordMismatch{}, http.StatusUnauthorized},
		{"forbidden", &ErrForbidden{Role: "admin"}, http.StatusForbidden},
		{"not found", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "limit", Message: "must be a number"}, http.StatusBadRequest},
		{"encoding", &placement.EncodingError{Field: "gender", Value: "x"}, http.StatusBadRequest},
		{"wrapped", fmt.Errorf("register: %w", &ErrUsernameTaken{Username: "x"}), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "username already registered: priya", (&ErrUsernameTaken{Username: "priya"}).Error())
	assert.Equal(t, "invalid username or password", (&ErrInvalidCredentials{}).Error())
	assert.Equal(t, "validation error: limit - must be a number", (&ErrValidation{Field: "limit", Message: "must be a number"}).Error())
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "internal server error", publicMessage(errors.New("pq: connection refused")))
	assert.Equal(t, "current password is incorrect", publicMessage(&ErrPasswordMismatch{}))
}
