package doctors

import (
	"sort"
	"strings"
	"time"
)

// Availability maps an ISO date (YYYY-MM-DD) to the ordered time-slot labels a
// doctor can be booked at. Slot lists are snapshots; booking conflicts are
// resolved by the appointments layer, not here.
type Availability map[string][]string

// Dates returns the availability keys in ascending order.
func (a Availability) Dates() []string {
	out := make([]string, 0, len(a))
	for d := range a {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// HasSlot reports whether the given date offers the given slot label.
func (a Availability) HasSlot(date, slot string) bool {
	for _, s := range a[date] {
		if s == slot {
			return true
		}
	}
	return false
}

// Doctor is the full doctor record served to clients.
type Doctor struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	CategoryID     string       `json:"category_id,omitempty"`
	Category       string       `json:"category"`
	Location       string       `json:"location"`
	Rating         float64      `json:"rating"`
	ReviewsCount   int          `json:"reviewsCount"`
	TotalBookings  int          `json:"totalBookings"`
	Qualification  string       `json:"qualification"`
	Experience     int          `json:"experience"`
	Specialization []string     `json:"specialization"`
	ClinicAddress  string       `json:"clinicAddress"`
	Phone          string       `json:"phone,omitempty"`
	Email          string       `json:"email,omitempty"`
	ProfileImageURL string      `json:"profileImageUrl,omitempty"`
	Availability   Availability `json:"availability,omitempty"`
	CreatedAt      time.Time    `json:"created_at,omitempty"`
}

// CreateDoctorRequest represents the admin request for creating a doctor.
// It arrives as multipart form fields plus an optional image file.
type CreateDoctorRequest struct {
	Name           string
	CategoryID     string
	Location       string
	Rating         float64
	Qualification  string
	Experience     int
	Specialization []string
	ClinicAddress  string
	Phone          string
	Email          string
	Availability   Availability
}

// Validate validates the create doctor request
func (r *CreateDoctorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.CategoryID) == "" {
		return ErrMissingCategory
	}
	if r.Rating < 0 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
