package controllers

import (
	"log/slog"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/google/uuid"

	"github.com/blogem/usermgmt/authenticator"
	"github.com/blogem/usermgmt/middleware"
)

const stateKey = "state"

// AuthController handles the OpenID Connect login flow
type AuthController struct {
	provider authenticator.Provider
	logger   *slog.Logger
}

// NewAuthController creates a login controller for provider
func NewAuthController(provider authenticator.Provider, logger *slog.Logger) *AuthController {
	return &AuthController{provider: provider, logger: logger}
}

// Login initiates the authentication process
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	// Save the state in the session to validate in callback
	sess := session.GetSession(r)
	sess.Set(stateKey, state)

	http.Redirect(w, r, ac.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles the redirect back from the provider
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)

	storedState, _ := sess.Get(stateKey).(string)
	if storedState == "" {
		http.Error(w, "State not found in session", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != storedState {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	token, err := ac.provider.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		ac.logger.WarnContext(r.Context(), "code exchange failed", slog.Any("error", err))
		http.Error(w, "Failed to exchange authorization code for a token", http.StatusUnauthorized)
		return
	}

	claims, err := ac.provider.GetClaims(r.Context(), token)
	if err != nil {
		ac.logger.WarnContext(r.Context(), "id token verification failed", slog.Any("error", err))
		http.Error(w, "Failed to verify ID Token", http.StatusUnauthorized)
		return
	}
	if claims.Subject() == "" {
		http.Error(w, "ID Token has no subject", http.StatusUnauthorized)
		return
	}

	sess.Set(middleware.SessionSubjectKey, claims.Subject())
	sess.Set(middleware.SessionNameKey, claims.DisplayName())
	sess.Delete(stateKey)

	ac.logger.InfoContext(r.Context(), "operator signed in", slog.String("operator", claims.DisplayName()))

	redirect := "/"
	if target, ok := sess.Get(middleware.SessionRedirectKey).(string); ok && target != "" {
		redirect = target
		sess.Delete(middleware.SessionRedirectKey)
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// Logout clears the login from the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete(middleware.SessionSubjectKey)
	sess.Delete(middleware.SessionNameKey)

	setFlash(r, "success", "You have been signed out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
