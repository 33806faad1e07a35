package payments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jitendra20661/cbct-fyp/internal/appointments"
	"github.com/jitendra20661/cbct-fyp/internal/http/middleware"
	"github.com/jitendra20661/cbct-fyp/internal/observability/metrics"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// PaymentResponse is returned by POST /payments/{appointmentID}.
type PaymentResponse struct {
	Success     bool                      `json:"success"`
	Reference   string                    `json:"reference,omitempty"`
	Appointment *appointments.Appointment `json:"appointment,omitempty"`
}

// Handler handles HTTP requests for appointment deposit payments
type Handler struct {
	provider    Provider
	repo        appointments.Repository
	amountCents int
	metrics     *metrics.APIMetrics
	logger      *logging.Logger
}

// NewHandler creates a new payments handler
func NewHandler(provider Provider, repo appointments.Repository, amountCents int, m *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{provider: provider, repo: repo, amountCents: amountCents, metrics: m, logger: logger}
}

// Initiate handles POST /payments/{appointmentID} requests (bearer auth).
// On provider approval the appointment's payment status transitions to Paid;
// on decline it transitions to Failed and a payment failure is surfaced.
func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		writeMessage(w, http.StatusBadRequest, "missing appointment id")
		return
	}

	appt, err := h.repo.GetForUser(r.Context(), userID, appointmentID)
	if err != nil {
		if errors.Is(err, appointments.ErrAppointmentNotFound) {
			writeMessage(w, http.StatusNotFound, "Appointment not found")
			return
		}
		h.logger.Error("appointment lookup failed", "error", err, "appointment_id", appointmentID)
		writeMessage(w, http.StatusInternalServerError, "Error processing payment")
		return
	}
	if appt.PaymentStatus == appointments.PaymentPaid {
		writeMessage(w, http.StatusBadRequest, "Appointment already paid")
		return
	}

	result, err := h.provider.Charge(r.Context(), ChargeRequest{
		AppointmentID: appt.ID,
		UserID:        userID,
		AmountCents:   h.amountCents,
	})
	if err != nil || result == nil || !result.Success {
		if _, statusErr := h.repo.SetPaymentStatus(r.Context(), userID, appt.ID, appointments.PaymentFailed); statusErr != nil {
			h.logger.Error("failed to mark payment failed", "error", statusErr, "appointment_id", appt.ID)
		}
		h.metrics.ObservePayment("failed")
		h.logger.Warn("payment declined", "error", err, "appointment_id", appt.ID)
		writeMessage(w, http.StatusPaymentRequired, "Payment failed")
		return
	}

	updated, err := h.repo.SetPaymentStatus(r.Context(), userID, appt.ID, appointments.PaymentPaid)
	if err != nil {
		h.logger.Error("failed to mark payment paid", "error", err, "appointment_id", appt.ID)
		writeMessage(w, http.StatusInternalServerError, "Error processing payment")
		return
	}

	h.metrics.ObservePayment("paid")
	h.logger.Info("payment settled", "appointment_id", appt.ID, "reference", result.Reference)
	writeJSON(w, http.StatusOK, PaymentResponse{
		Success:     true,
		Reference:   result.Reference,
		Appointment: updated,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
