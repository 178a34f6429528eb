//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request RegisterRequest
		wantTag string
	}{
		{
			name:    "valid request",
			request: RegisterRequest{Username: "student1", Password: "password123", ConfirmPassword: "password123"},
		},
		{
			name:    "username too short",
			request: RegisterRequest{Username: "abc", Password: "password123", ConfirmPassword: "password123"},
			wantTag: "min",
		},
		{
			name:    "username too long",
			request: RegisterRequest{Username: strings.Repeat("u", 31), Password: "password123", ConfirmPassword: "password123"},
			wantTag: "max",
		},
		{
			name:    "password too short",
			request: RegisterRequest{Username: "student1", Password: "short", ConfirmPassword: "short"},
			wantTag: "min",
		},
		{
			name:    "passwords differ",
			request: RegisterRequest{Username: "student1", Password: "password123", ConfirmPassword: "password124"},
			wantTag: "eqfield",
		},
		{
			name:    "missing username",
			request: RegisterRequest{Password: "password123", ConfirmPassword: "password123"},
			wantTag: "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			var validationErrors validator.ValidationErrors
			require.ErrorAs(t, err, &validationErrors)
			assert.Equal(t, tt.wantTag, validationErrors[0].Tag())
		})
	}
}

func TestRegisterRequest_NormalizeTrimsUsername(t *testing.T) {
	req := RegisterRequest{Username: "   ab   ", Password: "password123", ConfirmPassword: "password123"}
	req.Normalize()
	assert.Equal(t, "ab", req.Username)
	assert.Error(t, req.Validate())
}

func TestLoginRequest_Validation(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Username: "student1", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Username: "student1"}).Validate())
	assert.Error(t, (&LoginRequest{Password: "x"}).Validate())
}

func TestUpdatePasswordRequest_Validation(t *testing.T) {
	assert.NoError(t, (&UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}).Validate())
	assert.Error(t, (&UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "short"}).Validate())
	assert.Error(t, (&UpdatePasswordRequest{CurrentPassword: "same-password", NewPassword: "same-password"}).Validate())
	assert.Error(t, (&UpdatePasswordRequest{NewPassword: "new-password"}).Validate())
}

func TestLoginResponse_JSON(t *testing.T) {
	resp := LoginResponse{
		User:  &User{ID: uuid.New(), Username: "student1", Role: "user", CreatedAt: time.Now()},
		Token: "jwt",
	}
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "jwt", decoded["token"])
	user := decoded["user"].(map[string]any)
	assert.Equal(t, "student1", user["username"])
	assert.Equal(t, "user", user["role"])
}
