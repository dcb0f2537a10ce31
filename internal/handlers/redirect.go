package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/snaplinkhq/snaplink/internal/middleware"
	"github.com/snaplinkhq/snaplink/internal/repository"
)

type RedirectHandler struct {
	links  repository.LinkRepository
	clicks repository.ClickRepository
	log    *logrus.Logger
}

func NewRedirectHandler(links repository.LinkRepository, clicks repository.ClickRepository, log *logrus.Logger) *RedirectHandler {
	return &RedirectHandler{links: links, clicks: clicks, log: log}
}

// Resolve looks up the alias and issues the redirect. The click row is
// written before responding, but a recording failure never turns a working
// redirect into an error; it is logged and the user is sent on their way.
func (h *RedirectHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["alias"]

	link, err := h.links.GetByAlias(r.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		h.log.WithError(err).Error("alias lookup failed")
		http.Error(w, serverError, http.StatusInternalServerError)
		return
	}

	referrer := headerOrNil(r, "Referer")
	userAgent := headerOrNil(r, "User-Agent")
	var ip *string
	if addr := middleware.ClientIP(r); addr != "" {
		ip = &addr
	}
	if err := h.clicks.Record(r.Context(), link.ID, referrer, userAgent, ip); err != nil {
		h.log.WithError(err).WithField("alias", name).Error("click recording failed")
	}

	http.Redirect(w, r, link.LongURL, http.StatusFound)
}

func headerOrNil(r *http.Request, key string) *string {
	if v := r.Header.Get(key); v != "" {
		return &v
	}
	return nil
}
