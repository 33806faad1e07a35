package doctors

import "errors"

var (
	// ErrInvalidName is returned when the doctor name is empty
	ErrInvalidName = errors.New("name is required")

	// ErrMissingCategory is returned when no category is supplied
	ErrMissingCategory = errors.New("category is required")

	// ErrInvalidRating is returned when the rating is outside [0, 5]
	ErrInvalidRating = errors.New("rating must be between 0 and 5")

	// ErrDoctorNotFound is returned when a doctor lookup matches nothing
	ErrDoctorNotFound = errors.New("doctor not found")
)
