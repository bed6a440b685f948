package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/domain/repositories"
)

// userContextKey is the echo context key for the authenticated user
const userContextKey = "user"

// AuthMiddleware resolves the caller from an API key. Session handling lives
// in an external collaborator; the service only needs identity and spend cap.
type AuthMiddleware struct {
	userRepo repositories.UserRepository
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(userRepo repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{userRepo: userRepo}
}

// Authenticate validates the API key and adds the user to the echo context.
// The key is read from the X-API-Key header or a bearer Authorization header.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := extractAPIKey(c.Request())
		if key == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing API key")
		}

		user, err := m.userRepo.FindByAPIKey(c.Request().Context(), key)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid API key")
		}
		if !user.IsActive {
			return echo.NewHTTPError(http.StatusForbidden, "account disabled")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// CurrentUser returns the authenticated user set by Authenticate, or nil.
func CurrentUser(c echo.Context) *entities.User {
	user, _ := c.Get(userContextKey).(*entities.User)
	return user
}

// SetCurrentUser injects a user into the context; exported for handler tests.
func SetCurrentUser(c echo.Context, user *entities.User) {
	c.Set(userContextKey, user)
}

func extractAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}
