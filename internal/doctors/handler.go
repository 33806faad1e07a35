package doctors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jitendra20661/cbct-fyp/internal/categories"
	"github.com/jitendra20661/cbct-fyp/internal/http/middleware"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// maxImageSize caps multipart upload memory usage.
const maxImageSize = 10 << 20

type categoryGetter interface {
	GetByID(ctx context.Context, id string) (*categories.Category, error)
}

// Handler handles HTTP requests for doctors
type Handler struct {
	repo       Repository
	categories categoryGetter
	images     ImageStore
	logger     *logging.Logger
}

// NewHandler creates a new doctors handler
func NewHandler(repo Repository, categoryRepo categoryGetter, images ImageStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, categories: categoryRepo, images: images, logger: logger}
}

// List handles GET /api/doctors requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Error fetching doctors")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListByCategory handles GET /doctor_by_category?category=<name> requests.
// The match is case-insensitive; an empty query returns all doctors.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	list, err := h.repo.ListByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to list doctors by category", "error", err, "category", category)
		writeMessage(w, http.StatusInternalServerError, "Error fetching doctors")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /doctors/{id} and GET /api/doctors/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "missing doctor id")
		return
	}

	d, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			writeMessage(w, http.StatusNotFound, "Doctor not found")
			return
		}
		h.logger.Error("failed to fetch doctor", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Error fetching doctor")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Create handles POST /api/doctors requests. The body is a multipart form with
// doctor fields plus an optional "image" file stored via the image store.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req, err := parseDoctorForm(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Error creating doctor: "+err.Error())
		return
	}

	categoryName := ""
	if h.categories != nil {
		if c, err := h.categories.GetByID(r.Context(), req.CategoryID); err == nil {
			categoryName = c.Name
		}
	}

	imageURL := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		contentType := header.Header.Get("Content-Type")
		imageURL, err = h.images.Save(r.Context(), header.Filename, contentType, file)
		if err != nil {
			h.logger.Error("image upload failed", "error", err, "filename", header.Filename)
			writeMessage(w, http.StatusInternalServerError, "Error uploading image")
			return
		}
	}

	d, err := h.repo.Create(r.Context(), req, categoryName, imageURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName), errors.Is(err, ErrMissingCategory), errors.Is(err, ErrInvalidRating):
			writeMessage(w, http.StatusBadRequest, "Error creating doctor: "+err.Error())
		default:
			h.logger.Error("failed to create doctor", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Error creating doctor")
		}
		return
	}

	admin, _ := middleware.AdminSubjectFromContext(r.Context())
	h.logger.Info("doctor created", "id", d.ID, "name", d.Name, "category", d.Category, "admin", admin)
	writeJSON(w, http.StatusCreated, d)
}

// Delete handles DELETE /api/doctors/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "missing doctor id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			writeMessage(w, http.StatusNotFound, "Doctor not found")
			return
		}
		h.logger.Error("failed to delete doctor", "error", err, "id", id)
		writeMessage(w, http.StatusInternalServerError, "Error deleting doctor")
		return
	}

	admin, _ := middleware.AdminSubjectFromContext(r.Context())
	h.logger.Info("doctor deleted", "id", id, "admin", admin)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Doctor deleted successfully"})
}

func parseDoctorForm(r *http.Request) (*CreateDoctorRequest, error) {
	req := &CreateDoctorRequest{
		Name:          r.FormValue("name"),
		CategoryID:    r.FormValue("category"),
		Location:      r.FormValue("location"),
		Qualification: r.FormValue("qualification"),
		ClinicAddress: r.FormValue("clinicAddress"),
		Phone:         r.FormValue("phone"),
		Email:         r.FormValue("email"),
	}

	if v := r.FormValue("rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, ErrInvalidRating
		}
		req.Rating = rating
	}
	if v := r.FormValue("experience"); v != "" {
		experience, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("experience must be a number")
		}
		req.Experience = experience
	}
	if v := r.FormValue("specialization"); v != "" {
		for _, s := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				req.Specialization = append(req.Specialization, trimmed)
			}
		}
	}
	if v := r.FormValue("availability"); v != "" {
		var availability Availability
		if err := json.Unmarshal([]byte(v), &availability); err != nil {
			return nil, errors.New("availability must be a JSON object of date to slots")
		}
		req.Availability = availability
	}

	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
