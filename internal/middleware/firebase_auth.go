package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"buzzline/internal/models"
	"buzzline/internal/store"
)

const userContextKey = "authUser"

// FirebaseAuth creates an Echo middleware that verifies the bearer ID token
// and resolves it to the caller's user document, attaching the identity to
// the request context.
func FirebaseAuth(authClient *auth.Client, st store.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Authorization header is missing")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusForbidden, "Authorization header must be in Bearer format")
			}

			ctx := c.Request().Context()
			token, err := authClient.VerifyIDToken(ctx, tokenParts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("Invalid or expired ID token: %v", err))
			}

			// Resolve the Firebase UID to the user document for handle and image.
			users, err := st.Query(ctx, store.Users, []store.Filter{{Field: "user_id", Value: token.UID}}, "")
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			if len(users) == 0 {
				return echo.NewHTTPError(http.StatusForbidden, "No user found for this token")
			}

			SetUser(c, models.AuthUser{
				Handle:   users[0].ID,
				ImageURL: users[0].Data.String("image_url"),
			})
			return next(c)
		}
	}
}

// SetUser stashes the authenticated identity in the echo context.
func SetUser(c echo.Context, user models.AuthUser) {
	c.Set(userContextKey, user)
}

// UserFrom returns the authenticated identity attached by FirebaseAuth.
func UserFrom(c echo.Context) models.AuthUser {
	user, _ := c.Get(userContextKey).(models.AuthUser)
	return user
}
