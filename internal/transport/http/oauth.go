package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie = "oauth_state"
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleOAuth handles the Google sign-in handshake. The exchanged profile is
// handed to AuthService.GoogleSignIn for find-or-create.
type GoogleOAuth struct {
	cfg *oauth2.Config
}

func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

type googleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (g *GoogleOAuth) authURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

func (g *GoogleOAuth) exchange(ctx context.Context, code string) (googleProfile, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return googleProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := g.cfg.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return googleProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleProfile{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return googleProfile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	return profile, nil
}

func (h *Handler) handleGoogleRedirect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.authURL(state), http.StatusFound)
}

func (h *Handler) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "oauth state mismatch"})
		return
	}

	profile, err := h.google.exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Warn("google exchange failed", zap.Error(err))
		h.writeJSON(w, http.StatusBadGateway, map[string]string{"error": "google sign-in failed"})
		return
	}

	user, err := h.auth.GoogleSignIn(r.Context(), profile.ID, profile.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !h.startSession(w, r, user) {
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
