package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/snaplinkhq/snaplink/internal/repository"
)

type AdminHandler struct {
	users repository.UserRepository
	log   *logrus.Logger
}

func NewAdminHandler(users repository.UserRepository, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{users: users, log: log}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("user listing failed")
		sendInternalServerError(w)
		return
	}
	sendOkJsonResponse(w, responseMap{"users": users})
}

// Promote and Demote are idempotent; setting the flag to its current value
// is not an error.
func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, true)
}

func (h *AdminHandler) Demote(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, false)
}

func (h *AdminHandler) setAdmin(w http.ResponseWriter, r *http.Request, admin bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		sendErrorMsg(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := h.users.SetAdmin(r.Context(), id, admin); err != nil {
		h.log.WithError(err).Error("admin flag update failed")
		sendInternalServerError(w)
		return
	}
	sendOkJsonResponse(w, responseMap{"ok": true})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		sendErrorMsg(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		h.log.WithError(err).Error("user delete failed")
		sendInternalServerError(w)
		return
	}
	sendOkJsonResponse(w, responseMap{"ok": true})
}
