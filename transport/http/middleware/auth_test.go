package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"travel/config"
	"travel/infras/jwt"
	jwtMocks "travel/infras/jwt/mocks"
	otelMocks "travel/infras/otel/mocks"
	"travel/permissions"
	"travel/shared"
	"travel/shared/constant"
	"travel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const testPermissions = `{
	"skip": false,
	"endpoints": [
		{"path": "/v1/listings", "method": "GET", "permissions": [], "skip": true},
		{"path": "/v1/listings", "method": "POST", "permissions": ["admin", "host"], "skip": false},
		{"path": "/v1/bookings/mybookings", "method": "GET", "permissions": [], "skip": false}
	]
}`

type recorded struct {
	userID string
	role   string
	called bool
}

func newRouter(t *testing.T, jwtService jwt.JWT) (*chi.Mux, *recorded) {
	data, err := permissions.Parse([]byte(testPermissions))
	assert.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	auth := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), data, cfg)
	seen := &recorded{}

	handler := func(w http.ResponseWriter, r *http.Request) {
		seen.called = true
		seen.userID = shared.UserFromContext(r.Context())
		seen.role = shared.RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(auth.APIKey, auth.Auth, auth.RBAC)
		r.Get("/listings", handler)
		r.Post("/listings", handler)
		r.Get("/bookings/mybookings", handler)
	})

	return router, seen
}

func serve(router http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestAuth_PublicRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)

	t.Run("anonymous", func(t *testing.T) {
		router, seen := newRouter(t, jwtService)

		rec := serve(router, http.MethodGet, "/v1/listings", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, seen.called)
		assert.Empty(t, seen.userID)
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		router, seen := newRouter(t, jwtService)
		jwtService.EXPECT().ValidateToken("bad", jwt.AccessToken).Return(nil, jwt.ErrInvalidToken)

		rec := serve(router, http.MethodGet, "/v1/listings", map[string]string{constant.RequestHeaderAuthorization: "Bearer bad"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, seen.userID)
	})

	t.Run("valid token identifies the caller", func(t *testing.T) {
		router, seen := newRouter(t, jwtService)
		jwtService.EXPECT().ValidateToken("good", jwt.AccessToken).
			Return(&jwt.Claims{UserID: "guest-1", Role: constant.RoleGuest}, nil)

		rec := serve(router, http.MethodGet, "/v1/listings", map[string]string{constant.RequestHeaderAuthorization: "Bearer good"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "guest-1", seen.userID)
	})
}

func TestAuth_ProtectedRoute(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		setup    func(jwtService *jwtMocks.MockJWT)
		wantCode int
		wantBody string
	}{
		{
			name:     "missing header",
			setup:    func(*jwtMocks.MockJWT) {},
			wantCode: http.StatusUnauthorized,
			wantBody: "Authentication credentials were not provided",
		},
		{
			name:     "not a bearer token",
			header:   "Token abc",
			setup:    func(*jwtMocks.MockJWT) {},
			wantCode: http.StatusUnauthorized,
			wantBody: "Invalid authorization header format",
		},
		{
			name:   "expired",
			header: "Bearer old",
			setup: func(jwtService *jwtMocks.MockJWT) {
				jwtService.EXPECT().ValidateToken("old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
			wantBody: "Token has expired",
		},
		{
			name:   "claims without a role",
			header: "Bearer norole",
			setup: func(jwtService *jwtMocks.MockJWT) {
				jwtService.EXPECT().ValidateToken("norole", jwt.AccessToken).Return(&jwt.Claims{UserID: "u-1"}, nil)
			},
			wantCode: http.StatusUnauthorized,
			wantBody: "Invalid token claims",
		},
		{
			name:   "any authenticated role",
			header: "Bearer good",
			setup: func(jwtService *jwtMocks.MockJWT) {
				jwtService.EXPECT().ValidateToken("good", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "guest-1", Role: constant.RoleGuest}, nil)
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := jwtMocks.NewMockJWT(gomock.NewController(t))
			tt.setup(jwtService)

			router, _ := newRouter(t, jwtService)

			headers := map[string]string{}
			if tt.header != "" {
				headers[constant.RequestHeaderAuthorization] = tt.header
			}

			rec := serve(router, http.MethodGet, "/v1/bookings/mybookings", headers)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{name: "host", role: constant.RoleHost, wantCode: http.StatusOK},
		{name: "admin", role: constant.RoleAdmin, wantCode: http.StatusOK},
		{name: "guest", role: constant.RoleGuest, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := jwtMocks.NewMockJWT(gomock.NewController(t))
			jwtService.EXPECT().ValidateToken("token", jwt.AccessToken).
				Return(&jwt.Claims{UserID: "u-1", Role: tt.role}, nil)

			router, _ := newRouter(t, jwtService)

			rec := serve(router, http.MethodPost, "/v1/listings", map[string]string{constant.RequestHeaderAuthorization: "Bearer token"})

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAPIKey(t *testing.T) {
	jwtService := jwtMocks.NewMockJWT(gomock.NewController(t))

	t.Run("matching key acts as the system admin", func(t *testing.T) {
		router, seen := newRouter(t, jwtService)

		rec := serve(router, http.MethodPost, "/v1/listings", map[string]string{constant.RequestHeaderAPIKey: "internal-key"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, constant.SystemUser, seen.userID)
		assert.Equal(t, constant.RoleAdmin, seen.role)
	})

	t.Run("wrong key", func(t *testing.T) {
		router, seen := newRouter(t, jwtService)

		rec := serve(router, http.MethodPost, "/v1/listings", map[string]string{constant.RequestHeaderAPIKey: "guess"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, seen.called)
	})
}
