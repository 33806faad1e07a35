package appointments

import "errors"

var (
	// ErrMissingDoctor is returned when the booking has no doctor id
	ErrMissingDoctor = errors.New("doctor id is required")

	// ErrMissingSlot is returned when date or time slot is empty
	ErrMissingSlot = errors.New("date and time slot are required")

	// ErrSlotTaken is returned when the doctor/date/slot is already booked
	ErrSlotTaken = errors.New("slot already booked")

	// ErrAppointmentNotFound is returned when an appointment lookup matches nothing
	ErrAppointmentNotFound = errors.New("appointment not found")
)
