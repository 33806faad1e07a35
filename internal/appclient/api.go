package appclient

import "context"

// API is the operation surface screens depend on. A live HTTP implementation
// and a deterministic fixture implementation are interchangeable behind it;
// callers never learn which one they hold. No operation returns a Go error:
// every failure is folded into the Response envelope.
type API interface {
	// Initializing reports whether the persisted session is still being
	// restored. Screens wait for false before deciding authenticated state.
	Initializing() bool
	// CurrentUser returns the cached user, nil while unauthenticated.
	CurrentUser() *User

	GetCategories(ctx context.Context) Response[[]Category]
	GetDoctorsByCategory(ctx context.Context, category string) Response[[]Doctor]
	GetDoctor(ctx context.Context, id string) Response[*Doctor]

	Login(ctx context.Context, email, password string) Response[*AuthPayload]
	Signup(ctx context.Context, name, email, password string) Response[*AuthPayload]
	GetProfile(ctx context.Context) Response[*User]
	Logout(ctx context.Context) Response[LogoutResult]

	GetAppointments(ctx context.Context) Response[[]Appointment]
	BookAppointment(ctx context.Context, doctorID, date, timeSlot string) Response[*Appointment]
	InitiatePayment(ctx context.Context, appointmentID string) Response[*PaymentResult]

	TriggerAIVoiceForAppointment(ctx context.Context, appointmentID string) Response[*CallStatus]
	TriggerAIQuick(ctx context.Context) Response[*CallStatus]
}
