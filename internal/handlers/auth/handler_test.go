package auth_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "travel/infras/otel/mocks"
	"travel/internal/domains/auth/mocks"
	"travel/internal/domains/auth/model/dto"
	userDto "travel/internal/domains/user/model/dto"
	"travel/internal/handlers/auth"
	"travel/shared/failure"
)

func newRouter(t *testing.T) (*chi.Mux, *mocks.MockAuthService) {
	service := mocks.NewMockAuthService(gomock.NewController(t))

	handler := auth.New(service, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, service
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, service := newRouter(t)

		service.EXPECT().Register(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req dto.RegisterRequest) (userDto.UserResponse, error) {
				assert.Equal(t, "host", req.Role)

				return userDto.UserResponse{ID: "u-1", Username: req.Username}, nil
			})

		rec := post(router, "/auth/register", `{"username":"ana","email":"ana@example.com","password":"s3cret-pass","role":"host"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/v1/users/u-1", rec.Header().Get("Location"))
		assert.Contains(t, rec.Body.String(), `"username":"ana"`)
	})

	t.Run("admin cannot self register", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := post(router, "/auth/register", `{"username":"root","email":"root@example.com","password":"s3cret-pass","role":"admin"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("taken", func(t *testing.T) {
		router, service := newRouter(t)

		service.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(userDto.UserResponse{}, failure.Conflict("A user with that email already exists"))

		rec := post(router, "/auth/register", `{"username":"ana","email":"ana@example.com","password":"s3cret-pass"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "A user with that email already exists")
	})
}

func TestHandler_Login(t *testing.T) {
	t.Run("tokens", func(t *testing.T) {
		router, service := newRouter(t)

		service.EXPECT().Login(gomock.Any(), dto.LoginRequest{Email: "ana@example.com", Password: "s3cret-pass"}).
			Return(dto.LoginResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}, nil)

		rec := post(router, "/auth/login", `{"email":"ana@example.com","password":"s3cret-pass"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"access_token":"access"`)
	})

	t.Run("rejected", func(t *testing.T) {
		router, service := newRouter(t)

		service.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(dto.LoginResponse{}, failure.Unauthorized("invalid email or password"))

		rec := post(router, "/auth/login", `{"email":"ana@example.com","password":"wrong-pass"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandler_ChangePassword(t *testing.T) {
	router, service := newRouter(t)

	service.EXPECT().ChangePassword(gomock.Any(), gomock.Any()).Return(nil)

	rec := post(router, "/auth/change-password", `{"current_password":"old-password","new_password":"new-password"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password changed successfully")
}
