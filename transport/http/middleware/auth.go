package middleware

import (
	"context"
	"errors"
	"net/http"

	"travel/config"
	"travel/infras/jwt"
	"travel/infras/otel"
	"travel/permissions"
	"travel/shared/constant"
	"travel/shared/failure"
	"travel/transport/http/response"
)

type SkipAuthKey string

const skipAuth = SkipAuthKey("skip")

const (
	msgMissingHeader = "Authentication credentials were not provided"
	msgHeaderFormat  = "Invalid authorization header format"
	msgTokenExpired  = "Token has expired"
	msgTokenInvalid  = "Invalid token"
	msgClaimsInvalid = "Invalid token claims"
)

// Auth authenticates requests.
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role authorizes authenticated requests by role.
type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

func skipped(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuth).(bool)

	return skip
}

func (m *authRoleImpl) permissionFor(request *http.Request) permissions.Permission {
	if m.permission == nil {
		return permissions.Permission{}
	}

	return m.permission.FindPermissions(routePattern(request), request.Method)
}

// Auth puts the caller identity from a bearer access token on the context.
// Public routes accept anonymous callers; a token sent to them is still honoured when valid.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		if skipped(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		public := m.permissionFor(request).Skip || (m.permission != nil && m.permission.Skip)

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.route":      routePattern(request),
			"http.method":     request.Method,
			"auth.public":     public,
		})

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == constant.Empty {
			scope.End()

			if public {
				next.ServeHTTP(writer, request)

				return
			}

			response.WithError(writer, failure.Unauthorized(msgMissingHeader))

			return
		}

		claims, err := m.authenticate(authHeader)
		if err != nil {
			scope.TraceError(err)
			scope.End()

			if public {
				next.ServeHTTP(writer, request)

				return
			}

			response.WithError(writer, err)

			return
		}

		ctx = context.WithValue(request.Context(), constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.ID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (m *authRoleImpl) authenticate(authHeader string) (*jwt.Claims, error) {
	tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
	if err != nil {
		return nil, failure.Unauthorized(msgHeaderFormat) // nolint:wrapcheck
	}

	claims, err := m.jwtService.ValidateToken(tokenString, jwt.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			return nil, failure.Unauthorized(msgTokenExpired) // nolint:wrapcheck
		case errors.Is(err, jwt.ErrInvalidClaim):
			return nil, failure.Unauthorized(msgClaimsInvalid) // nolint:wrapcheck
		default:
			return nil, failure.Unauthorized(msgTokenInvalid) // nolint:wrapcheck
		}
	}

	if claims.UserID == constant.Empty || claims.Role == constant.Empty {
		return nil, failure.Unauthorized(msgClaimsInvalid) // nolint:wrapcheck
	}

	return claims, nil
}

// RBAC rejects callers whose role is not listed for the route. Routes without roles only need a caller.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if skipped(ctx) || m.permission == nil || m.permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		permission := m.permissionFor(request)
		userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !permission.Allows(userRole) {
			scope.SetAttributes(map[string]any{
				"user_role":     userRole,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			scope.TraceError(failure.ForbiddenError)

			response.WithError(writer, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey lets internal callers holding APP_API_KEY act as the system admin without a token.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == constant.Empty {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == constant.Empty || apiKey != m.cfg.App.APIKey {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		ctx = context.WithValue(request.Context(), skipAuth, true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.SystemUser)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
