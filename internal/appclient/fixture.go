package appclient

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

const fixtureToken = "mock-token-123"

// Fixture is the offline implementation of API. It serves deterministic
// canned data with an optional artificial delay, so screens behave the same
// against it as against a live backend.
type Fixture struct {
	session *sessionState
	delay   time.Duration
	logger  *logging.Logger

	mu           sync.Mutex
	categories   []Category
	doctors      []Doctor
	appointments []Appointment
	nextID       int
}

var _ API = (*Fixture)(nil)

// NewFixture constructs a fixture client. delay simulates network latency;
// zero disables it. The session store may be nil.
func NewFixture(store SessionStore, delay time.Duration, logger *logging.Logger) *Fixture {
	if logger == nil {
		logger = logging.Default()
	}
	return &Fixture{
		session:    newSessionState(store, logger),
		delay:      delay,
		logger:     logger,
		categories: fixtureCategories(),
		doctors:    fixtureDoctors(),
		nextID:     1,
	}
}

func fixtureCategories() []Category {
	return []Category{
		{ID: "cardio", Name: "Cardiologist", Icon: "heart"},
		{ID: "derma", Name: "Dermatologist", Icon: "sparkles"},
		{ID: "neuro", Name: "Neurologist", Icon: "brain"},
		{ID: "pedia", Name: "Pediatrician", Icon: "baby"},
		{ID: "ortho", Name: "Orthopedic", Icon: "bone"},
		{ID: "ent", Name: "ENT Specialist", Icon: "ear"},
	}
}

func fixtureDoctors() []Doctor {
	return []Doctor{
		{
			ID:             "d1",
			Name:           "Dr. Ayesha Khan",
			Category:       "Cardiologist",
			Location:       "Mumbai",
			Rating:         4.8,
			ReviewsCount:   120,
			TotalBookings:  540,
			Qualification:  "MBBS, MD (Cardiology)",
			Experience:     12,
			Specialization: []string{"Heart Failure", "Angioplasty"},
			ClinicAddress:  "12 Marine Drive, Mumbai",
			Availability: map[string][]string{
				"2026-09-01": {"10:00 AM", "11:00 AM", "4:00 PM"},
				"2026-09-02": {"10:00 AM", "2:00 PM"},
			},
		},
		{
			ID:             "d2",
			Name:           "Dr. Rohan Mehta",
			Category:       "Dermatologist",
			Location:       "Pune",
			Rating:         4.6,
			ReviewsCount:   85,
			TotalBookings:  310,
			Qualification:  "MBBS, DDVL",
			Experience:     8,
			Specialization: []string{"Acne", "Skin Allergy"},
			ClinicAddress:  "5 FC Road, Pune",
			Availability: map[string][]string{
				"2026-09-01": {"9:00 AM", "1:00 PM"},
			},
		},
		{
			ID:             "d3",
			Name:           "Dr. Neha Sharma",
			Category:       "Pediatrician",
			Location:       "Delhi",
			Rating:         4.9,
			ReviewsCount:   200,
			TotalBookings:  760,
			Qualification:  "MBBS, DCH",
			Experience:     15,
			Specialization: []string{"Neonatal Care", "Vaccination"},
			ClinicAddress:  "22 Connaught Place, Delhi",
			Availability: map[string][]string{
				"2026-09-02": {"11:00 AM", "3:00 PM", "5:00 PM"},
			},
		},
	}
}

// simulate waits out the artificial delay unless ctx ends first.
func (f *Fixture) simulate(ctx context.Context) {
	if f.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(f.delay):
	}
}

func (f *Fixture) Initializing() bool {
	return f.session.initializing()
}

func (f *Fixture) CurrentUser() *User {
	return f.session.currentUser()
}

func (f *Fixture) GetCategories(ctx context.Context) Response[[]Category] {
	f.simulate(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Category, len(f.categories))
	copy(out, f.categories)
	return ok(out)
}

func (f *Fixture) GetDoctorsByCategory(ctx context.Context, category string) Response[[]Doctor] {
	f.simulate(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(category))
	out := make([]Doctor, 0)
	for _, d := range f.doctors {
		if needle == "" || strings.Contains(strings.ToLower(d.Category), needle) {
			out = append(out, d)
		}
	}
	return ok(out)
}

func (f *Fixture) GetDoctor(ctx context.Context, id string) Response[*Doctor] {
	f.simulate(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range f.doctors {
		if d.ID == id {
			copied := d
			return ok(&copied)
		}
	}
	return fail[*Doctor](MsgDoctorNotFound)
}

func (f *Fixture) Login(ctx context.Context, email, password string) Response[*AuthPayload] {
	if email == "" || password == "" {
		return fail[*AuthPayload](MsgInvalidCredentials)
	}
	f.simulate(ctx)

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	payload := &AuthPayload{
		User:  User{ID: "u1", Name: name, Email: email},
		Token: fixtureToken,
	}
	f.session.establish(payload.Token, payload.User)
	return ok(payload)
}

func (f *Fixture) Signup(ctx context.Context, name, email, password string) Response[*AuthPayload] {
	if name == "" || email == "" || password == "" {
		return fail[*AuthPayload](MsgMissingFields)
	}
	f.simulate(ctx)

	payload := &AuthPayload{
		User:  User{ID: "u1", Name: name, Email: email},
		Token: fixtureToken,
	}
	f.session.establish(payload.Token, payload.User)
	return ok(payload)
}

func (f *Fixture) GetProfile(ctx context.Context) Response[*User] {
	if f.session.currentToken() == "" {
		return fail[*User](MsgUnauthorized)
	}
	f.simulate(ctx)
	return ok(f.session.currentUser())
}

func (f *Fixture) Logout(ctx context.Context) Response[LogoutResult] {
	f.session.clear()
	return ok(LogoutResult{OK: true})
}

func (f *Fixture) GetAppointments(ctx context.Context) Response[[]Appointment] {
	if f.session.currentToken() == "" {
		return fail[[]Appointment](MsgUnauthorized)
	}
	f.simulate(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Appointment, len(f.appointments))
	copy(out, f.appointments)
	return ok(out)
}

func (f *Fixture) BookAppointment(ctx context.Context, doctorID, date, timeSlot string) Response[*Appointment] {
	if f.session.currentToken() == "" {
		return fail[*Appointment](MsgUnauthorized)
	}
	f.simulate(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	var doctor *Doctor
	for i := range f.doctors {
		if f.doctors[i].ID == doctorID {
			doctor = &f.doctors[i]
			break
		}
	}
	if doctor == nil {
		return fail[*Appointment](MsgDoctorNotFound)
	}

	appt := Appointment{
		ID:            fmt.Sprintf("apt-%d", f.nextID),
		DoctorName:    doctor.Name,
		Category:      doctor.Category,
		Date:          date,
		TimeSlot:      timeSlot,
		Status:        "Confirmed",
		PaymentStatus: "Pending",
	}
	f.nextID++
	f.appointments = append(f.appointments, appt)
	return ok(&appt)
}

func (f *Fixture) InitiatePayment(ctx context.Context, appointmentID string) Response[*PaymentResult] {
	if f.session.currentToken() == "" {
		return fail[*PaymentResult](MsgUnauthorized)
	}
	f.simulate(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.appointments {
		if f.appointments[i].ID == appointmentID {
			f.appointments[i].PaymentStatus = "Paid"
			copied := f.appointments[i]
			return ok(&PaymentResult{
				Success:     true,
				Reference:   "fixture:" + appointmentID,
				Appointment: &copied,
			})
		}
	}
	return fail[*PaymentResult]("Appointment not found")
}

func (f *Fixture) TriggerAIVoiceForAppointment(ctx context.Context, appointmentID string) Response[*CallStatus] {
	if f.session.currentToken() == "" {
		return fail[*CallStatus](MsgUnauthorized)
	}
	f.simulate(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appointments {
		if a.ID == appointmentID {
			id := fmt.Sprintf("call-%d", f.nextID)
			f.nextID++
			return ok(&CallStatus{Started: true, CallID: id})
		}
	}
	return fail[*CallStatus]("Appointment not found")
}

func (f *Fixture) TriggerAIQuick(ctx context.Context) Response[*CallStatus] {
	f.simulate(ctx)
	f.mu.Lock()
	id := fmt.Sprintf("call-%d", f.nextID)
	f.nextID++
	f.mu.Unlock()
	return ok(&CallStatus{Started: true, CallID: id})
}
