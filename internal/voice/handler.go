package voice

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jitendra20661/cbct-fyp/internal/appointments"
	"github.com/jitendra20661/cbct-fyp/internal/http/middleware"
	"github.com/jitendra20661/cbct-fyp/internal/observability/metrics"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// CallResponse is returned when a call job is accepted.
type CallResponse struct {
	Started bool   `json:"started"`
	CallID  string `json:"callId"`
}

// QuickCallRequest is the payload for an anonymous triage call.
type QuickCallRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Handler handles HTTP and websocket requests for AI voice calls
type Handler struct {
	queue        Queue
	tracker      *Tracker
	appointments appointments.Repository
	metrics      *metrics.APIMetrics
	logger       *logging.Logger
	upgrader     websocket.Upgrader
}

// NewHandler creates a new voice handler
func NewHandler(queue Queue, tracker *Tracker, repo appointments.Repository, m *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		queue:        queue,
		tracker:      tracker,
		appointments: repo,
		metrics:      m,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// StartCall handles POST /ai/call/{appointmentID} requests (bearer auth).
// The appointment must belong to the authenticated user.
func (h *Handler) StartCall(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	appointmentID := chi.URLParam(r, "appointmentID")
	appt, err := h.appointments.GetForUser(r.Context(), userID, appointmentID)
	if err != nil {
		if errors.Is(err, appointments.ErrAppointmentNotFound) {
			writeMessage(w, http.StatusNotFound, "Appointment not found")
			return
		}
		h.logger.Error("appointment lookup failed", "error", err, "appointment_id", appointmentID)
		writeMessage(w, http.StatusInternalServerError, "Error starting call")
		return
	}

	job := CallJob{
		ID:            "call-" + uuid.NewString(),
		Kind:          KindAppointment,
		AppointmentID: appt.ID,
		UserID:        userID,
		DoctorName:    appt.DoctorName,
		CreatedAt:     time.Now().UTC(),
	}
	h.enqueue(w, r, job)
}

// QuickCall handles POST /ai/quick requests. No auth; used for pre-signup
// triage calls.
func (h *Handler) QuickCall(w http.ResponseWriter, r *http.Request) {
	var req QuickCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job := CallJob{
		ID:        "call-" + uuid.NewString(),
		Kind:      KindQuick,
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: time.Now().UTC(),
	}
	h.enqueue(w, r, job)
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request, job CallJob) {
	h.tracker.Set(job.ID, StatusQueued, "")
	if err := EnqueueJob(r.Context(), h.queue, job); err != nil {
		h.tracker.Set(job.ID, StatusFailed, "enqueue failed")
		h.logger.Error("failed to enqueue call", "error", err, "call_id", job.ID)
		writeMessage(w, http.StatusServiceUnavailable, "Error starting call")
		return
	}

	h.metrics.ObserveCallJob(job.Kind)
	h.logger.Info("call enqueued", "call_id", job.ID, "kind", job.Kind)
	writeJSON(w, http.StatusAccepted, CallResponse{Started: true, CallID: job.ID})
}

// Stream handles GET /ws/calls/{callID}. It upgrades to a websocket, sends the
// latest known status immediately, then streams transitions until the call
// reaches a terminal state or the client disconnects.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")
	if callID == "" {
		writeMessage(w, http.StatusBadRequest, "missing call id")
		return
	}

	updates, cancel := h.tracker.Subscribe(callID)
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	if latest, ok := h.tracker.Latest(callID); ok {
		if err := conn.WriteJSON(latest); err != nil {
			return
		}
		if isTerminal(latest.Status) {
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case update := <-updates:
			if err := conn.WriteJSON(update); err != nil {
				return
			}
			if isTerminal(update.Status) {
				return
			}
		}
	}
}

func isTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
