package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/snaplinkhq/snaplink/internal/models"
	"github.com/snaplinkhq/snaplink/internal/repository"
)

type ctxKey int

const userKey ctxKey = iota

var errNoToken = errors.New("missing bearer token")

// Auth validates bearer tokens on protected routes.
type Auth struct {
	secret []byte
	users  repository.UserRepository
}

func NewAuth(secret string, users repository.UserRepository) *Auth {
	return &Auth{secret: []byte(secret), users: users}
}

// Require rejects requests without a valid token or whose embedded user id
// no longer resolves to an account, and attaches the resolved user to the
// request context otherwise.
func (a *Auth) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parseBearer(r)
		if err != nil {
			if errors.Is(err, errNoToken) {
				sendAuthError(w, http.StatusUnauthorized, "No token")
			} else {
				sendAuthError(w, http.StatusUnauthorized, "Invalid")
			}
			return
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			sendAuthError(w, http.StatusUnauthorized, "Invalid")
			return
		}
		user, err := a.users.GetByID(r.Context(), int64(sub))
		if err != nil {
			sendAuthError(w, http.StatusUnauthorized, "Invalid")
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin gates admin routes on the token's is_admin claim. The claim
// is trusted as signed rather than re-read from the store, so a demotion
// takes effect only when the token expires (at most the 7-day lifetime).
func (a *Auth) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parseBearer(r)
		if err != nil {
			if errors.Is(err, errNoToken) {
				sendAuthError(w, http.StatusUnauthorized, "No token")
			} else {
				sendAuthError(w, http.StatusUnauthorized, "Invalid")
			}
			return
		}
		if isAdmin, _ := claims["is_admin"].(bool); !isAdmin {
			sendAuthError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next(w, r)
	}
}

func (a *Auth) parseBearer(r *http.Request) (jwt.MapClaims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errNoToken
	}
	split := strings.Split(header, " ")
	if len(split) != 2 || !strings.EqualFold(split[0], "Bearer") {
		return nil, errNoToken
	}
	token, err := jwt.Parse(split[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// UserFrom returns the authenticated user attached by Require.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// WithUser is a test hook for handlers that expect an authenticated context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func sendAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
