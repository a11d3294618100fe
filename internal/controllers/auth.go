package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rgorski/brief-analyzer/internal/models"
)

// AuthController handles signup/signin flows.
type AuthController struct {
	userService    *models.UserService
	sessionService *models.SessionService
	cookieName     string
	secureCookies  bool
	log            logrus.FieldLogger
}

func NewAuthController(
	us *models.UserService,
	ss *models.SessionService,
	cookieName string,
	secureCookies bool,
	log logrus.FieldLogger,
) *AuthController {
	return &AuthController{
		userService:    us,
		sessionService: ss,
		cookieName:     cookieName,
		secureCookies:  secureCookies,
		log:            log,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// PostSignUp creates a new user and starts a session for it.
func (ac *AuthController) PostSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ac.userService.Create(r.Context(), req.Email, strings.TrimSpace(req.Password))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidEmail),
			errors.Is(err, models.ErrPasswordTooShort):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, models.ErrEmailAlreadyExists):
			respondError(w, http.StatusConflict, err.Error())
		default:
			ac.log.Errorf("failed to create user: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	if err := ac.startSession(w, r, user.ID); err != nil {
		return
	}

	respondJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

// PostSignIn authenticates a user and starts a session.
func (ac *AuthController) PostSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ac.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		ac.log.Errorf("failed to authenticate user: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	if err := ac.startSession(w, r, user.ID); err != nil {
		return
	}

	respondJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}

// PostLogout ends the current session, if any.
func (ac *AuthController) PostLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(ac.cookieName)
	if err == nil {
		if derr := ac.sessionService.Delete(r.Context(), cookie.Value); derr != nil && !errors.Is(derr, models.ErrSessionNotFound) {
			ac.log.Errorf("failed to delete session: %v", derr)
		}
	}

	ac.deleteCookie(w)
	respondJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

func (ac *AuthController) startSession(w http.ResponseWriter, r *http.Request, userID string) error {
	session, err := ac.sessionService.Create(r.Context(), userID)
	if err != nil {
		ac.log.Errorf("failed to create session: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return err
	}
	ac.setCookie(w, session.Token, session.ExpiresAt)
	return nil
}

// setCookie sets the session cookie.
func (ac *AuthController) setCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   ac.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// deleteCookie removes the session cookie.
func (ac *AuthController) deleteCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ac.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
