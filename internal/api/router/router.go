package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jitendra20661/cbct-fyp/internal/appointments"
	"github.com/jitendra20661/cbct-fyp/internal/categories"
	"github.com/jitendra20661/cbct-fyp/internal/doctors"
	httpmiddleware "github.com/jitendra20661/cbct-fyp/internal/http/middleware"
	"github.com/jitendra20661/cbct-fyp/internal/payments"
	"github.com/jitendra20661/cbct-fyp/internal/users"
	"github.com/jitendra20661/cbct-fyp/internal/voice"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	UsersHandler        *users.Handler
	CategoriesHandler   *categories.Handler
	DoctorsHandler      *doctors.Handler
	AppointmentsHandler *appointments.Handler
	PaymentsHandler     *payments.Handler
	VoiceHandler        *voice.Handler

	// TokenVerifier validates user bearer tokens for mobile routes.
	TokenVerifier httpmiddleware.TokenVerifier
	// AdminAuthSecret signs the JWTs accepted on /api admin routes.
	AdminAuthSecret string

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (mobile app, no session required)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		public.Get("/categories", cfg.CategoriesHandler.List)
		public.Get("/doctor_by_category", cfg.DoctorsHandler.ListByCategory)
		public.Get("/doctors/{id}", cfg.DoctorsHandler.Get)
		public.Post("/user/login", cfg.UsersHandler.Login)
		public.Post("/user/signup", cfg.UsersHandler.Signup)
		if cfg.VoiceHandler != nil {
			public.Post("/ai/quick", cfg.VoiceHandler.QuickCall)
			public.Get("/ws/calls/{callID}", cfg.VoiceHandler.Stream)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Session endpoints (mobile app, bearer token)
	r.Group(func(session chi.Router) {
		session.Use(httpmiddleware.UserAuth(cfg.TokenVerifier))
		session.Get("/user/profile", cfg.UsersHandler.Profile)
		session.Get("/appointments", cfg.AppointmentsHandler.List)
		session.Post("/appointments", cfg.AppointmentsHandler.Book)
		if cfg.PaymentsHandler != nil {
			session.Post("/payments/{appointmentID}", cfg.PaymentsHandler.Initiate)
		}
		if cfg.VoiceHandler != nil {
			session.Post("/ai/call/{appointmentID}", cfg.VoiceHandler.StartCall)
		}
	})

	// Admin endpoints (catalog management, admin JWT)
	r.Route("/api", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		admin.Get("/categories", cfg.CategoriesHandler.List)
		admin.Post("/categories", cfg.CategoriesHandler.Create)
		admin.Delete("/categories/{id}", cfg.CategoriesHandler.Delete)
		admin.Get("/doctors", cfg.DoctorsHandler.List)
		admin.Post("/doctors", cfg.DoctorsHandler.Create)
		admin.Get("/doctors/{id}", cfg.DoctorsHandler.Get)
		admin.Delete("/doctors/{id}", cfg.DoctorsHandler.Delete)
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
