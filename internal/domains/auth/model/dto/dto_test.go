package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travel/infras/jwt"
	"travel/internal/domains/auth/model/dto"
	"travel/shared/constant"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	tests := []struct {
		name string
		role string
		want string
	}{
		{name: "defaults to guest", role: "", want: constant.RoleGuest},
		{name: "host kept", role: constant.RoleHost, want: constant.RoleHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.RegisterRequest{
				Username:  "ana",
				FirstName: "Ana",
				LastName:  "Silva",
				Email:     "ana@example.com",
				Password:  "plain-text",
				Role:      tt.role,
			}

			user := req.ToUserModel("hashed")

			assert.NotEmpty(t, user.ID)
			assert.Equal(t, "hashed", user.Password)
			assert.Equal(t, tt.want, user.Role)
			assert.True(t, user.Active)
			assert.Equal(t, user.ID, user.CreatedBy)
			assert.Equal(t, user.CreatedAt, user.UpdatedAt)
		})
	}
}

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, "access", response.AccessToken)
	assert.Equal(t, "refresh", response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	var response dto.RefreshTokenResponse
	response.FromTokenPair(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"})

	assert.Equal(t, "new-access", response.AccessToken)
	assert.Equal(t, "new-refresh", response.RefreshToken)
}
