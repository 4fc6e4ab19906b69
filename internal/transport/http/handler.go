package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

const sessionCookie = "trivia_session"

// Handler wires the core services to the JSON API. Services are composed
// here, at the request layer; the current user travels as an explicit
// parameter, never as process-global state.
type Handler struct {
	trivia   *app.TriviaService
	auth     *app.AuthService
	reset    *app.PasswordResetService
	users    app.UserRepository
	sessions app.SessionStore
	google   *GoogleOAuth
	logger   *zap.Logger
}

func NewHandler(
	trivia *app.TriviaService,
	auth *app.AuthService,
	reset *app.PasswordResetService,
	users app.UserRepository,
	sessions app.SessionStore,
	google *GoogleOAuth,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		trivia:   trivia,
		auth:     auth,
		reset:    reset,
		users:    users,
		sessions: sessions,
		google:   google,
		logger:   logger,
	}
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /logout", h.handleLogout)
	mux.HandleFunc("POST /password/forgot", h.handleForgotPassword)
	mux.HandleFunc("POST /password/reset", h.handleResetPassword)

	if h.google != nil {
		mux.HandleFunc("GET /auth/google", h.handleGoogleRedirect)
		mux.HandleFunc("GET /auth/google/callback", h.handleGoogleCallback)
	}

	mux.HandleFunc("GET /clue", h.withUser(h.handleGetClue))
	mux.HandleFunc("POST /response", h.withUser(h.handleRecordResponse))
	mux.HandleFunc("GET /stats", h.withUser(h.handleStats))
	mux.HandleFunc("GET /preferences", h.withUser(h.handleGetPreferences))
	mux.HandleFunc("POST /preferences", h.withUser(h.handleUpdatePreferences))
	mux.HandleFunc("POST /preferences/difficulty", h.withUser(h.handleSetDifficulty))
	mux.HandleFunc("POST /history/reset", h.withUser(h.handleResetHistory))
	mux.HandleFunc("GET /ws/stats", h.withUser(h.handleStatsStream))
}

// withUser resolves the session cookie into the current user and hands it to
// the wrapped handler. Anonymous requests get 401.
func (h *Handler) withUser(next func(http.ResponseWriter, *http.Request, domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			h.writeError(w, domain.ErrSessionNotFound)
			return
		}
		userID, err := h.sessions.Lookup(r.Context(), cookie.Value)
		if err != nil {
			h.writeError(w, err)
			return
		}
		user, err := h.users.FindByID(r.Context(), userID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		next(w, r, user)
	}
}

// ---- auth ----

type registerRequest struct {
	Username string `json:"username"`
	Alias    string `json:"alias"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.auth.Register(r.Context(), req.Username, req.Alias, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !h.startSession(w, r, user) {
		return
	}
	h.writeJSON(w, http.StatusCreated, userView(user))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !h.startSession(w, r, user) {
		return
	}
	h.writeJSON(w, http.StatusOK, userView(user))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("delete session", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

type forgotPasswordRequest struct {
	Username string `json:"username"`
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.reset.IssueToken(r.Context(), req.Username); err != nil {
		// Unknown accounts get the same answer as known ones so the endpoint
		// cannot be used to probe usernames.
		if errors.Is(err, domain.ErrUserNotFound) {
			h.logger.Info("reset requested for unknown username")
			w.WriteHeader(http.StatusAccepted)
			return
		}
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.reset.CompleteReset(r.Context(), req.Token, req.Password); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- core ----

func (h *Handler) handleGetClue(w http.ResponseWriter, r *http.Request, user domain.User) {
	clue, err := h.trivia.GetClueForUser(r.Context(), user)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, clue)
}

type responseRequest struct {
	domain.Clue
	Correct bool `json:"correct"`
}

func (h *Handler) handleRecordResponse(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req responseRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.trivia.RecordResponse(r.Context(), user, req.Clue, req.Correct); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request, user domain.User) {
	windows, err := parseWindows(r.URL.Query().Get("windows"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	rates, err := h.trivia.GetAccuracy(r.Context(), user, windows)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"alias": user.Alias,
		"total": len(user.Responses),
		"rates": rates,
	})
}

func parseWindows(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	windows := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, domain.ErrValidation
		}
		windows = append(windows, n)
	}
	return windows, nil
}

func (h *Handler) handleGetPreferences(w http.ResponseWriter, r *http.Request, user domain.User) {
	eligible, err := h.trivia.EligibleClueCount(r.Context(), user)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"categories":    user.Preferences.Categories,
		"difficulty":    user.Preferences.Level(),
		"eligibleClues": eligible,
	})
}

type preferencesRequest struct {
	Add        string `json:"add,omitempty"`
	Remove     string `json:"remove,omitempty"`
	Difficulty *int   `json:"difficulty,omitempty"`
}

func (h *Handler) handleUpdatePreferences(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req preferencesRequest
	if !h.decode(w, r, &req) {
		return
	}
	prefs, err := h.trivia.UpdatePreferences(r.Context(), user, req.Add, req.Remove, req.Difficulty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"categories": prefs.Categories,
		"difficulty": prefs.Level(),
	})
}

type difficultyRequest struct {
	Difficulty int `json:"difficulty"`
}

func (h *Handler) handleSetDifficulty(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req difficultyRequest
	if !h.decode(w, r, &req) {
		return
	}
	prefs, err := h.trivia.UpdatePreferences(r.Context(), user, "", "", &req.Difficulty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"difficulty": prefs.Level()})
}

type resetHistoryRequest struct {
	Confirm string `json:"confirm"`
}

func (h *Handler) handleResetHistory(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req resetHistoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.trivia.ResetHistory(r.Context(), user, req.Confirm); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- helpers ----

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user domain.User) bool {
	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func userView(user domain.User) map[string]any {
	return map[string]any{
		"id":    user.ID,
		"alias": user.Alias,
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNoMatchingClue):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrTokenExpired):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
