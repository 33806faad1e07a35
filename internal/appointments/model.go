package appointments

import (
	"strings"
	"time"
)

// Appointment status values, mutated only by backend-confirmed transitions.
const (
	StatusConfirmed = "Confirmed"
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"

	PaymentPaid    = "Paid"
	PaymentPending = "Pending"
	PaymentFailed  = "Failed"
)

// Appointment is a confirmed booking as served to clients.
type Appointment struct {
	ID            string    `json:"id"`
	UserID        string    `json:"-"`
	DoctorID      string    `json:"doctor_id,omitempty"`
	DoctorName    string    `json:"doctorName"`
	Category      string    `json:"category"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"timeSlot"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// BookRequest is the request body for POST /appointments.
type BookRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
}

// Validate checks required booking fields.
func (r *BookRequest) Validate() error {
	if strings.TrimSpace(r.DoctorID) == "" {
		return ErrMissingDoctor
	}
	if strings.TrimSpace(r.Date) == "" || strings.TrimSpace(r.TimeSlot) == "" {
		return ErrMissingSlot
	}
	return nil
}
