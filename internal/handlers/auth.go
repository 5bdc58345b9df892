package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"buzzline/internal/store"
	"buzzline/pkg/firebase"

	"buzzline/internal/models"
)

const noImageFile = "no-image.png"

// Identity exchanges email+password credentials with the identity provider.
type Identity interface {
	SignUp(ctx context.Context, email, password string) (token, uid string, err error)
	SignIn(ctx context.Context, email, password string) (token string, err error)
}

// AuthHandler handles signup and login
type AuthHandler struct {
	store    store.Store
	identity Identity
	bucket   string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(st store.Store, identity Identity, bucket string) *AuthHandler {
	return &AuthHandler{store: st, identity: identity, bucket: bucket}
}

// Signup creates a new account and its user document, keyed by handle
func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	existing, err := h.store.Get(ctx, store.Users, req.Handle)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if existing.Exists {
		return echo.NewHTTPError(http.StatusBadRequest, "This handle is already taken")
	}

	token, uid, err := h.identity.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, firebase.ErrEmailExists) {
			return echo.NewHTTPError(http.StatusBadRequest, "Email is already in use")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.store.Set(ctx, store.Users, req.Handle, store.Document{
		"user_id":    uid,
		"email":      req.Email,
		"image_url":  firebase.PublicURL(h.bucket, noImageFile),
		"created_at": time.Now().UTC(),
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token})
}

// Login exchanges email+password for an ID token
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.identity.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, firebase.ErrInvalidCredentials) || errors.Is(err, firebase.ErrEmailNotFound) {
			return echo.NewHTTPError(http.StatusForbidden, "Wrong credentials, please try again")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
