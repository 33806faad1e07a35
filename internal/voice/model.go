package voice

import "time"

// Call job lifecycle states, in order of progression.
const (
	StatusQueued     = "queued"
	StatusDialing    = "dialing"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job kinds.
const (
	KindAppointment = "appointment"
	KindQuick       = "quick"
)

// CallJob is a queued outbound AI call.
type CallJob struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	AppointmentID string    `json:"appointment_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	DoctorName    string    `json:"doctor_name,omitempty"`
	Name          string    `json:"name,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatusUpdate is one lifecycle transition of a call.
type StatusUpdate struct {
	CallID    string    `json:"callId"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
