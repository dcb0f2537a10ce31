package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaplinkhq/snaplink/internal/database"
	"github.com/snaplinkhq/snaplink/internal/models"
	"github.com/snaplinkhq/snaplink/internal/repository"
)

const testSecret = "test-secret"

func newUserRepo(t *testing.T, name string) repository.UserRepository {
	t.Helper()
	db, err := database.OpenSQLite("file:" + name + "?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, database.SQLite))
	return repository.NewSQLUserRepository(db)
}

func signToken(t *testing.T, userID int64, isAdmin bool, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      userID,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func doRequest(h http.HandlerFunc, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRequireNoToken(t *testing.T) {
	auth := NewAuth(testSecret, newUserRepo(t, "mwnotoken"))
	next := func(w http.ResponseWriter, r *http.Request) { t.Fatal("handler must not run") }

	rec := doRequest(auth.Require(next), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token", errorBody(t, rec))
}

func TestRequireBadToken(t *testing.T) {
	auth := NewAuth(testSecret, newUserRepo(t, "mwbadtoken"))
	next := func(w http.ResponseWriter, r *http.Request) { t.Fatal("handler must not run") }

	rec := doRequest(auth.Require(next), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid", errorBody(t, rec))
}

func TestRequireExpiredToken(t *testing.T) {
	users := newUserRepo(t, "mwexpired")
	user, err := users.Create(context.Background(), "a@example.com", "hash", false)
	require.NoError(t, err)

	auth := NewAuth(testSecret, users)
	next := func(w http.ResponseWriter, r *http.Request) { t.Fatal("handler must not run") }

	rec := doRequest(auth.Require(next), signToken(t, user.ID, false, -time.Hour))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid", errorBody(t, rec))
}

func TestRequireDeletedUser(t *testing.T) {
	users := newUserRepo(t, "mwdeleted")
	user, err := users.Create(context.Background(), "a@example.com", "hash", false)
	require.NoError(t, err)
	token := signToken(t, user.ID, false, time.Hour)
	require.NoError(t, users.Delete(context.Background(), user.ID))

	auth := NewAuth(testSecret, users)
	next := func(w http.ResponseWriter, r *http.Request) { t.Fatal("handler must not run") }

	rec := doRequest(auth.Require(next), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid", errorBody(t, rec))
}

func TestRequireAttachesUser(t *testing.T) {
	users := newUserRepo(t, "mwok")
	user, err := users.Create(context.Background(), "a@example.com", "hash", false)
	require.NoError(t, err)

	auth := NewAuth(testSecret, users)
	var seen *models.User
	next := func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		seen, ok = UserFrom(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
	}

	rec := doRequest(auth.Require(next), signToken(t, user.ID, false, time.Hour))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
	assert.Equal(t, "a@example.com", seen.Email)
}

func TestRequireAdmin(t *testing.T) {
	users := newUserRepo(t, "mwadmin")
	auth := NewAuth(testSecret, users)

	called := false
	next := func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}

	rec := doRequest(auth.RequireAdmin(next), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token", errorBody(t, rec))

	rec = doRequest(auth.RequireAdmin(next), signToken(t, 1, false, time.Hour))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", errorBody(t, rec))
	assert.False(t, called)

	// The admin claim is trusted as signed; no user row is required.
	rec = doRequest(auth.RequireAdmin(next), signToken(t, 1, true, time.Hour))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:52412"
	assert.Equal(t, "192.0.2.10", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	assert.Equal(t, "198.51.100.7", ClientIP(req))
}
