package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/snaplinkhq/snaplink/internal/models"
	"github.com/snaplinkhq/snaplink/internal/repository"
)

const (
	tokenExpiry = 7 * 24 * time.Hour

	MissingFieldsMsg = "Missing"
	EmailExistsMsg   = "Email exists"
	InvalidCredsMsg  = "Invalid"
	BadJsonMsg       = "bad json request"
	InvalidEmailMsg  = "invalid email"
)

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	users  repository.UserRepository
	secret []byte
	log    *logrus.Logger
}

func NewAuthHandler(users repository.UserRepository, jwtSecret string, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{users: users, secret: []byte(jwtSecret), log: log}
}

func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := new(authRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		sendErrorMsg(w, http.StatusBadRequest, BadJsonMsg)
		return
	}
	if req.Email == "" || req.Password == "" {
		sendErrorMsg(w, http.StatusBadRequest, MissingFieldsMsg)
		return
	}
	if !govalidator.IsEmail(req.Email) {
		sendErrorMsg(w, http.StatusBadRequest, InvalidEmailMsg)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		sendInternalServerError(w)
		return
	}

	// Duplicate emails surface from the unique constraint rather than a
	// separate existence check, so two racing registrations cannot both win.
	user, err := a.users.Create(r.Context(), req.Email, string(hashed), false)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			sendErrorMsg(w, http.StatusBadRequest, EmailExistsMsg)
			return
		}
		a.log.WithError(err).Error("signup failed")
		sendInternalServerError(w)
		return
	}

	token, err := a.generateToken(user)
	if err != nil {
		a.log.WithError(err).Error("token signing failed")
		sendInternalServerError(w)
		return
	}
	sendOkJsonResponse(w, responseMap{"token": token, "user": user})
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := new(authRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		sendErrorMsg(w, http.StatusBadRequest, BadJsonMsg)
		return
	}

	// Unknown email and wrong password produce the same response on purpose.
	user, err := a.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			sendErrorMsg(w, http.StatusBadRequest, InvalidCredsMsg)
			return
		}
		a.log.WithError(err).Error("login lookup failed")
		sendInternalServerError(w)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		sendErrorMsg(w, http.StatusBadRequest, InvalidCredsMsg)
		return
	}

	token, err := a.generateToken(user)
	if err != nil {
		a.log.WithError(err).Error("token signing failed")
		sendInternalServerError(w)
		return
	}
	sendOkJsonResponse(w, responseMap{"token": token, "user": user})
}

func (a *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(tokenExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}
