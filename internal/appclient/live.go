package appclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// apiError is a non-success HTTP status carrying the backend's message.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.status, e.message)
}

// messageOf maps a dispatch failure to its user-facing message: backend
// messages propagate verbatim, anything transport-level becomes the generic
// network message.
func messageOf(err error) string {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.message
	}
	return MsgNetworkError
}

// Client is the live HTTP implementation of API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    *sessionState
	logger     *logging.Logger
}

var _ API = (*Client)(nil)

// NewClient constructs a live client against baseURL. The session store may be
// nil, which keeps the session memory-only.
func NewClient(baseURL string, store SessionStore, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    newSessionState(store, logger),
		logger:     logger,
	}
}

// Hydrate restores the persisted session. Call it once at startup before
// rendering anything that depends on authenticated state; operations also
// hydrate lazily, so skipping it only delays the restore.
func (c *Client) Hydrate() {
	c.session.hydrate()
}

func (c *Client) Initializing() bool {
	return c.session.initializing()
}

func (c *Client) CurrentUser() *User {
	return c.session.currentUser()
}

func (c *Client) GetCategories(ctx context.Context) Response[[]Category] {
	var out []Category
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		var ae *apiError
		if errors.As(err, &ae) {
			return fail[[]Category](MsgCategoriesFailed)
		}
		return fail[[]Category](MsgNetworkError)
	}
	if out == nil {
		out = []Category{}
	}
	return ok(out)
}

func (c *Client) GetDoctorsByCategory(ctx context.Context, category string) Response[[]Doctor] {
	path := "/doctor_by_category?category=" + url.QueryEscape(category)
	var out []Doctor
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return fail[[]Doctor](messageOf(err))
	}
	if out == nil {
		out = []Doctor{}
	}
	return ok(out)
}

func (c *Client) GetDoctor(ctx context.Context, id string) Response[*Doctor] {
	var out Doctor
	if err := c.doJSON(ctx, http.MethodGet, "/doctors/"+url.PathEscape(id), nil, &out); err != nil {
		return fail[*Doctor](messageOf(err))
	}
	return ok(&out)
}

func (c *Client) Login(ctx context.Context, email, password string) Response[*AuthPayload] {
	if email == "" || password == "" {
		return fail[*AuthPayload](MsgInvalidCredentials)
	}
	body := map[string]string{"email": email, "password": password}
	var out AuthPayload
	if err := c.doJSON(ctx, http.MethodPost, "/user/login", body, &out); err != nil {
		return fail[*AuthPayload](messageOf(err))
	}
	c.session.establish(out.Token, out.User)
	return ok(&out)
}

func (c *Client) Signup(ctx context.Context, name, email, password string) Response[*AuthPayload] {
	if name == "" || email == "" || password == "" {
		return fail[*AuthPayload](MsgMissingFields)
	}
	body := map[string]string{"username": name, "email": email, "password": password}
	var out AuthPayload
	if err := c.doJSON(ctx, http.MethodPost, "/user/signup", body, &out); err != nil {
		return fail[*AuthPayload](messageOf(err))
	}
	c.session.establish(out.Token, out.User)
	return ok(&out)
}

func (c *Client) GetProfile(ctx context.Context) Response[*User] {
	if c.session.currentToken() == "" {
		return fail[*User](MsgUnauthorized)
	}
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/user/profile", nil, &out); err != nil {
		return fail[*User](messageOf(err))
	}
	c.session.refreshUser(out)
	return ok(&out)
}

// Logout clears the local session. A backend call is not required; the token
// is stateless, so forgetting it locally is the whole operation.
func (c *Client) Logout(ctx context.Context) Response[LogoutResult] {
	c.session.clear()
	return ok(LogoutResult{OK: true})
}

func (c *Client) GetAppointments(ctx context.Context) Response[[]Appointment] {
	if c.session.currentToken() == "" {
		return fail[[]Appointment](MsgUnauthorized)
	}
	var out []Appointment
	if err := c.doJSON(ctx, http.MethodGet, "/appointments", nil, &out); err != nil {
		return fail[[]Appointment](messageOf(err))
	}
	if out == nil {
		out = []Appointment{}
	}
	return ok(out)
}

func (c *Client) BookAppointment(ctx context.Context, doctorID, date, timeSlot string) Response[*Appointment] {
	if c.session.currentToken() == "" {
		return fail[*Appointment](MsgUnauthorized)
	}
	body := map[string]string{"doctorId": doctorID, "date": date, "timeSlot": timeSlot}
	var out Appointment
	if err := c.doJSON(ctx, http.MethodPost, "/appointments", body, &out); err != nil {
		return fail[*Appointment](messageOf(err))
	}
	return ok(&out)
}

func (c *Client) InitiatePayment(ctx context.Context, appointmentID string) Response[*PaymentResult] {
	if c.session.currentToken() == "" {
		return fail[*PaymentResult](MsgUnauthorized)
	}
	path := "/payments/" + url.PathEscape(appointmentID)
	var out PaymentResult
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return fail[*PaymentResult](messageOf(err))
	}
	return ok(&out)
}

func (c *Client) TriggerAIVoiceForAppointment(ctx context.Context, appointmentID string) Response[*CallStatus] {
	if c.session.currentToken() == "" {
		return fail[*CallStatus](MsgUnauthorized)
	}
	path := "/ai/call/" + url.PathEscape(appointmentID)
	var out CallStatus
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return fail[*CallStatus](messageOf(err))
	}
	return ok(&out)
}

func (c *Client) TriggerAIQuick(ctx context.Context) Response[*CallStatus] {
	var out CallStatus
	if err := c.doJSON(ctx, http.MethodPost, "/ai/quick", map[string]string{}, &out); err != nil {
		return fail[*CallStatus](messageOf(err))
	}
	return ok(&out)
}

// doJSON performs one request. Non-success statuses come back as *apiError
// with the backend's message field when one is present; wrapper methods fold
// both those and transport errors into the envelope.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := MsgRequestFailed
		var failure struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(data, &failure); err == nil {
			if failure.Message != "" {
				message = failure.Message
			} else if failure.Error != "" {
				message = failure.Error
			}
		}
		c.logger.Debug("request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return &apiError{status: resp.StatusCode, message: message}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
