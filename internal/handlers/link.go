package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/snaplinkhq/snaplink/internal/alias"
	"github.com/snaplinkhq/snaplink/internal/middleware"
	"github.com/snaplinkhq/snaplink/internal/repository"
)

const (
	// maxClickRows bounds the analytics listing.
	maxClickRows = 1000
	// createAttempts bounds regeneration when a generated alias loses the
	// unique-constraint race.
	createAttempts = 3

	AliasTakenMsg    = "Alias taken"
	NotFoundMsg      = "Not found"
	AliasMismatchMsg = "Alias does not match"
)

type fieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

type LinkHandler struct {
	links  repository.LinkRepository
	clicks repository.ClickRepository
	log    *logrus.Logger
}

func NewLinkHandler(links repository.LinkRepository, clicks repository.ClickRepository, log *logrus.Logger) *LinkHandler {
	return &LinkHandler{links: links, clicks: clicks, log: log}
}

func (h *LinkHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	type shortenRequest struct {
		LongURL string `json:"longUrl"`
		Alias   string `json:"alias"`
		HasQR   bool   `json:"hasQR"`
	}
	req := new(shortenRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		sendErrorMsg(w, http.StatusBadRequest, BadJsonMsg)
		return
	}

	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		sendInternalServerError(w)
		return
	}

	if !govalidator.IsRequestURL(req.LongURL) {
		sendJsonResponse(w, http.StatusBadRequest, responseMap{
			"errors": []fieldError{{Msg: "Invalid URL", Param: "longUrl"}},
		})
		return
	}

	name := strings.TrimSpace(req.Alias)
	if name != "" {
		link, err := h.links.Create(r.Context(), name, req.LongURL, user.ID, req.HasQR)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				sendErrorMsg(w, http.StatusBadRequest, AliasTakenMsg)
				return
			}
			h.log.WithError(err).Error("link insert failed")
			sendInternalServerError(w)
			return
		}
		sendOkJsonResponse(w, responseMap{"link": link})
		return
	}

	for i := 0; i < createAttempts; i++ {
		link, err := h.links.Create(r.Context(), alias.Generate(alias.DefaultLength), req.LongURL, user.ID, req.HasQR)
		if err == nil {
			sendOkJsonResponse(w, responseMap{"link": link})
			return
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			h.log.WithError(err).Error("link insert failed")
			sendInternalServerError(w)
			return
		}
		// collision on a generated alias, draw again
	}
	sendInternalServerError(w)
}

func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		sendInternalServerError(w)
		return
	}
	links, err := h.links.ListByOwner(r.Context(), user.ID)
	if err != nil {
		h.log.WithError(err).Error("link listing failed")
		sendInternalServerError(w)
		return
	}
	sendOkJsonResponse(w, responseMap{"links": links})
}

func (h *LinkHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		sendInternalServerError(w)
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		sendErrorMsg(w, http.StatusNotFound, NotFoundMsg)
		return
	}

	// An unowned link answers exactly like a nonexistent one.
	if _, err := h.links.GetOwned(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			sendErrorMsg(w, http.StatusNotFound, NotFoundMsg)
			return
		}
		h.log.WithError(err).Error("link lookup failed")
		sendInternalServerError(w)
		return
	}

	clicks, err := h.clicks.ListByLink(r.Context(), id, maxClickRows)
	if err != nil {
		h.log.WithError(err).Error("click listing failed")
		sendInternalServerError(w)
		return
	}
	sendOkJsonResponse(w, responseMap{"clicks": clicks})
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	type deleteRequest struct {
		Alias string `json:"alias"`
	}
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		sendInternalServerError(w)
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		sendErrorMsg(w, http.StatusNotFound, NotFoundMsg)
		return
	}
	req := new(deleteRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		sendErrorMsg(w, http.StatusBadRequest, BadJsonMsg)
		return
	}

	link, err := h.links.GetOwned(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			sendErrorMsg(w, http.StatusNotFound, NotFoundMsg)
			return
		}
		h.log.WithError(err).Error("link lookup failed")
		sendInternalServerError(w)
		return
	}
	if link.Alias != req.Alias {
		sendErrorMsg(w, http.StatusBadRequest, AliasMismatchMsg)
		return
	}

	if err := h.links.Delete(r.Context(), link.ID); err != nil {
		h.log.WithError(err).Error("link delete failed")
		sendInternalServerError(w)
		return
	}
	sendOkJsonResponse(w, responseMap{"success": true})
}
