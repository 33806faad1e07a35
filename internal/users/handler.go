package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/jitendra20661/cbct-fyp/internal/http/middleware"
	"github.com/jitendra20661/cbct-fyp/internal/observability/metrics"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// Handler handles HTTP requests for user accounts and sessions
type Handler struct {
	repo    Repository
	tokens  *TokenIssuer
	metrics *metrics.APIMetrics
	logger  *logging.Logger
}

// NewHandler creates a new users handler
func NewHandler(repo Repository, tokens *TokenIssuer, m *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, tokens: tokens, metrics: m, logger: logger}
}

// Login handles POST /user/login requests
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Email or password cannot be empty")
		return
	}

	user, hash, err := h.repo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.metrics.ObserveLogin("rejected")
			writeMessage(w, http.StatusBadRequest, "Invalid email or password")
			return
		}
		h.logger.Error("login lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Error logging in")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		h.metrics.ObserveLogin("rejected")
		writeMessage(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("token issue failed", "error", err, "user_id", user.ID)
		writeMessage(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	h.metrics.ObserveLogin("success")
	h.logger.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, AuthResponse{User: *user, Token: token})
}

// Signup handles POST /user/signup requests
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing fields")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password hash failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Error signing up")
		return
	}

	user, err := h.repo.Create(r.Context(), req.Username, req.Email, string(hash), req.Phone)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			writeMessage(w, http.StatusBadRequest, "Email already registered")
			return
		}
		h.logger.Error("signup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Error signing up")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("token issue failed", "error", err, "user_id", user.ID)
		writeMessage(w, http.StatusInternalServerError, "Error signing up")
		return
	}

	h.metrics.ObserveSignup()
	h.logger.Info("user signed up", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, AuthResponse{User: *user, Token: token})
}

// Profile handles GET /user/profile requests (bearer auth)
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.repo.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.logger.Error("profile lookup failed", "error", err, "user_id", userID)
		writeMessage(w, http.StatusInternalServerError, "Error fetching profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
