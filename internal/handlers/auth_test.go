package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzzline/internal/store"
	"buzzline/pkg/firebase"
)

// identityStub is a stub for the Identity credential exchange.
type identityStub struct {
	signUpFn func(ctx context.Context, email, password string) (string, string, error)
	signInFn func(ctx context.Context, email, password string) (string, error)
}

func (s *identityStub) SignUp(ctx context.Context, email, password string) (string, string, error) {
	return s.signUpFn(ctx, email, password)
}

func (s *identityStub) SignIn(ctx context.Context, email, password string) (string, error) {
	return s.signInFn(ctx, email, password)
}

func okIdentity() *identityStub {
	return &identityStub{
		signUpFn: func(context.Context, string, string) (string, string, error) {
			return "id-token", "uid-1", nil
		},
		signInFn: func(context.Context, string, string) (string, error) {
			return "id-token", nil
		},
	}
}

func TestSignup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	body := `{"handle":"alice","email":"alice@example.com","password":"secret1","confirm_password":"secret1"}`

	t.Run("creates the account and user document", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		h := NewAuthHandler(st, okIdentity(), "buzzline.appspot.com")

		c, rec := newTestContext(t, http.MethodPost, "/signup", body)
		require.NoError(t, h.Signup(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "id-token", resp["token"])

		snap, err := st.Get(ctx, store.Users, "alice")
		require.NoError(t, err)
		require.True(t, snap.Exists)
		assert.Equal(t, "uid-1", snap.Data.String("user_id"))
		assert.Equal(t, "alice@example.com", snap.Data.String("email"))
		assert.Contains(t, snap.Data.String("image_url"), "no-image.png")
	})

	t.Run("taken handle is rejected", func(t *testing.T) {
		t.Parallel()
		st := store.NewMemory()
		require.NoError(t, st.Set(ctx, store.Users, "alice",
			store.Document{"user_id": "uid-0", "email": "other@example.com"}))
		h := NewAuthHandler(st, okIdentity(), "buzzline.appspot.com")

		c, _ := newTestContext(t, http.MethodPost, "/signup", body)
		err := h.Signup(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})

	t.Run("used email is rejected", func(t *testing.T) {
		t.Parallel()
		identity := okIdentity()
		identity.signUpFn = func(context.Context, string, string) (string, string, error) {
			return "", "", firebase.ErrEmailExists
		}
		h := NewAuthHandler(store.NewMemory(), identity, "buzzline.appspot.com")

		c, _ := newTestContext(t, http.MethodPost, "/signup", body)
		err := h.Signup(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})

	t.Run("mismatched password confirmation is rejected", func(t *testing.T) {
		t.Parallel()
		h := NewAuthHandler(store.NewMemory(), okIdentity(), "buzzline.appspot.com")

		c, _ := newTestContext(t, http.MethodPost, "/signup",
			`{"handle":"alice","email":"alice@example.com","password":"secret1","confirm_password":"different"}`)
		err := h.Signup(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("returns a token for valid credentials", func(t *testing.T) {
		t.Parallel()
		h := NewAuthHandler(store.NewMemory(), okIdentity(), "buzzline.appspot.com")

		c, rec := newTestContext(t, http.MethodPost, "/login",
			`{"email":"alice@example.com","password":"secret1"}`)
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "id-token", resp["token"])
	})

	t.Run("wrong credentials are 403", func(t *testing.T) {
		t.Parallel()
		identity := okIdentity()
		identity.signInFn = func(context.Context, string, string) (string, error) {
			return "", firebase.ErrInvalidCredentials
		}
		h := NewAuthHandler(store.NewMemory(), identity, "buzzline.appspot.com")

		c, _ := newTestContext(t, http.MethodPost, "/login",
			`{"email":"alice@example.com","password":"wrong"}`)
		err := h.Login(c)
		assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
	})

	t.Run("malformed email is 400", func(t *testing.T) {
		t.Parallel()
		h := NewAuthHandler(store.NewMemory(), okIdentity(), "buzzline.appspot.com")

		c, _ := newTestContext(t, http.MethodPost, "/login",
			`{"email":"not-an-email","password":"secret1"}`)
		err := h.Login(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})
}
