package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jitendra20661/cbct-fyp/internal/doctors"
	"github.com/jitendra20661/cbct-fyp/internal/http/middleware"
	"github.com/jitendra20661/cbct-fyp/internal/observability/metrics"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

type doctorDirectory interface {
	GetByID(ctx context.Context, id string) (*doctors.Doctor, error)
	IncrementBookings(ctx context.Context, id string) error
}

// Handler handles HTTP requests for appointments
type Handler struct {
	repo    Repository
	doctors doctorDirectory
	metrics *metrics.APIMetrics
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(repo Repository, doctorRepo doctorDirectory, m *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, doctors: doctorRepo, metrics: m, logger: logger}
}

// List handles GET /appointments requests (bearer auth)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	list, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "user_id", userID)
		writeMessage(w, http.StatusInternalServerError, "Error fetching appointments")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Book handles POST /appointments requests (bearer auth)
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.metrics.ObserveBooking("invalid")
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	doctor, err := h.doctors.GetByID(r.Context(), req.DoctorID)
	if err != nil {
		if errors.Is(err, doctors.ErrDoctorNotFound) {
			h.metrics.ObserveBooking("doctor_missing")
			writeMessage(w, http.StatusNotFound, "Doctor not found")
			return
		}
		h.logger.Error("doctor lookup failed", "error", err, "doctor_id", req.DoctorID)
		writeMessage(w, http.StatusInternalServerError, "Error booking appointment")
		return
	}

	// The availability map is advisory; booking against an unlisted slot is
	// rejected only when the doctor publishes availability at all.
	if len(doctor.Availability) > 0 && !doctor.Availability.HasSlot(req.Date, req.TimeSlot) {
		h.metrics.ObserveBooking("unavailable")
		writeMessage(w, http.StatusBadRequest, "Slot not available")
		return
	}

	appt := &Appointment{
		UserID:     userID,
		DoctorID:   doctor.ID,
		DoctorName: doctor.Name,
		Category:   doctor.Category,
		Date:       req.Date,
		TimeSlot:   req.TimeSlot,
	}
	if err := h.repo.Create(r.Context(), appt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			h.metrics.ObserveBooking("conflict")
			writeMessage(w, http.StatusConflict, "Slot already booked")
			return
		}
		h.logger.Error("failed to create appointment", "error", err, "user_id", userID)
		writeMessage(w, http.StatusInternalServerError, "Error booking appointment")
		return
	}

	if err := h.doctors.IncrementBookings(r.Context(), doctor.ID); err != nil {
		// The booking itself succeeded; a stale counter is tolerable.
		h.logger.Warn("failed to bump doctor booking count", "error", err, "doctor_id", doctor.ID)
	}

	h.metrics.ObserveBooking("created")
	h.metrics.ObserveBookingLatency(time.Since(start).Seconds())
	h.logger.Info("appointment booked",
		"id", appt.ID,
		"user_id", userID,
		"doctor_id", doctor.ID,
		"date", appt.Date,
		"slot", appt.TimeSlot,
	)
	writeJSON(w, http.StatusCreated, appt)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
