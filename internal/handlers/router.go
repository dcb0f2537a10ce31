package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/snaplinkhq/snaplink/internal/middleware"
)

// NewRouter wires all routes. Process-wide middleware (logging, CORS, rate
// limiting) is attached by the caller so tests can exercise the bare router.
func NewRouter(auth *middleware.Auth, ah *AuthHandler, lh *LinkHandler, rh *RedirectHandler, adh *AdminHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		sendOkJsonResponse(w, responseMap{"ok": true})
	}).Methods(http.MethodGet)
	r.HandleFunc("/r/{alias}", rh.Resolve).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", ah.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", ah.Login).Methods(http.MethodPost)

	api.HandleFunc("/shorten", auth.Require(lh.Shorten)).Methods(http.MethodPost)
	api.HandleFunc("/links", auth.Require(lh.List)).Methods(http.MethodGet)
	api.HandleFunc("/links/{id}/analytics", auth.Require(lh.Analytics)).Methods(http.MethodGet)
	api.HandleFunc("/links/{id}", auth.Require(lh.Delete)).Methods(http.MethodDelete)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/users", auth.RequireAdmin(adh.ListUsers)).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/promote", auth.RequireAdmin(adh.Promote)).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/demote", auth.RequireAdmin(adh.Demote)).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", auth.RequireAdmin(adh.DeleteUser)).Methods(http.MethodDelete)

	return r
}
