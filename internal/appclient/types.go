package appclient

// Messages surfaced through the envelope. Screens compare against these
// directly, so the exact strings are part of the contract.
const (
	MsgNetworkError       = "Network error. Please try again."
	MsgRequestFailed      = "Request failed"
	MsgUnauthorized       = "Unauthorized"
	MsgInvalidCredentials = "Invalid credentials"
	MsgMissingFields      = "Missing fields"
	MsgCategoriesFailed   = "Failed to fetch categories"
	MsgDoctorNotFound     = "Doctor not found"
)

// Response is the uniform envelope every operation returns. Exactly one of
// Data or Error is meaningful; Data holds a zero value when Error is set.
type Response[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the operation succeeded.
func (r Response[T]) OK() bool { return r.Error == "" }

func ok[T any](data T) Response[T] {
	return Response[T]{Data: data}
}

func fail[T any](message string) Response[T] {
	var zero T
	return Response[T]{Data: zero, Error: message}
}

// User mirrors the backend's user shape.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Category is a grouping key for doctors.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Doctor mirrors the backend's doctor shape, availability included.
type Doctor struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Category        string              `json:"category"`
	Location        string              `json:"location,omitempty"`
	Rating          float64             `json:"rating"`
	ReviewsCount    int                 `json:"reviewsCount"`
	TotalBookings   int                 `json:"totalBookings"`
	Qualification   string              `json:"qualification,omitempty"`
	Experience      int                 `json:"experience,omitempty"`
	Specialization  []string            `json:"specialization,omitempty"`
	ClinicAddress   string              `json:"clinicAddress,omitempty"`
	Phone           string              `json:"phone,omitempty"`
	ProfileImageURL string              `json:"profileImageUrl,omitempty"`
	Availability    map[string][]string `json:"availability,omitempty"`
}

// Appointment is a booked visit as the backend reports it.
type Appointment struct {
	ID            string `json:"id"`
	DoctorName    string `json:"doctorName"`
	Category      string `json:"category"`
	Date          string `json:"date"`
	TimeSlot      string `json:"timeSlot"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// AuthPayload is returned by login and signup.
type AuthPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// PaymentResult is the payload of a settled deposit.
type PaymentResult struct {
	Success     bool         `json:"success"`
	Reference   string       `json:"reference,omitempty"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

// CallStatus acknowledges an accepted AI voice call.
type CallStatus struct {
	Started bool   `json:"started"`
	CallID  string `json:"callId,omitempty"`
}

// LogoutResult is always ok; logout cannot fail from the caller's view.
type LogoutResult struct {
	OK bool `json:"ok"`
}
