package categories

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jitendra20661/cbct-fyp/internal/http/middleware"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// Handler handles HTTP requests for categories
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new categories handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /categories and GET /api/categories requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create handles POST /api/categories requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName), errors.Is(err, ErrDuplicateName):
			writeMessage(w, http.StatusBadRequest, "Error creating category: "+err.Error())
		default:
			h.logger.Error("failed to create category", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Error creating category")
		}
		return
	}

	admin, _ := middleware.AdminSubjectFromContext(r.Context())
	h.logger.Info("category created", "id", c.ID, "name", c.Name, "admin", admin)
	writeJSON(w, http.StatusCreated, c)
}

// Delete handles DELETE /api/categories/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "missing category id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			writeMessage(w, http.StatusNotFound, "Category not found")
			return
		}
		h.logger.Error("failed to delete category", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Error deleting category")
		return
	}

	admin, _ := middleware.AdminSubjectFromContext(r.Context())
	h.logger.Info("category deleted", "id", id, "admin", admin)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
