package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jitendra20661/cbct-fyp/internal/http/middleware"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

func newUsersHandler() (*Handler, *InMemoryRepository, *TokenIssuer) {
	repo := NewInMemoryRepository()
	tokens := NewTokenIssuer("test-secret", time.Hour)
	return NewHandler(repo, tokens, nil, logging.Default()), repo, tokens
}

func signupBody(name, email, password string) *strings.Reader {
	raw, _ := json.Marshal(map[string]string{"username": name, "email": email, "password": password})
	return strings.NewReader(string(raw))
}

func TestSignupThenLogin(t *testing.T) {
	h, _, tokens := newUsersHandler()

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/user/signup", signupBody("Asha", "a@b.com", "pw123456")))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Asha", created.User.Name)
	assert.NotEmpty(t, created.Token)

	userID, err := tokens.Verify(created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, userID)

	body := strings.NewReader(`{"email":"a@b.com","password":"pw123456"}`)
	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/user/login", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var logged AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&logged))
	assert.Equal(t, created.User.ID, logged.User.ID)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	h, _, _ := newUsersHandler()

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/user/signup", signupBody("Asha", "a@b.com", "pw123456")))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/user/signup", signupBody("Other", "a@b.com", "pw123456")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestSignupMissingFields(t *testing.T) {
	h, _, _ := newUsersHandler()

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/user/signup", signupBody("", "a@b.com", "pw")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing fields")
}

func TestLoginWrongPassword(t *testing.T) {
	h, _, _ := newUsersHandler()

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/user/signup", signupBody("Asha", "a@b.com", "pw123456")))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"email":"a@b.com","password":"nope"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestLoginEmptyFields(t *testing.T) {
	h, _, _ := newUsersHandler()

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"email":"","password":"pw"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email or password cannot be empty")
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	h, _, _ := newUsersHandler()

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"email":"ghost@b.com","password":"pw"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestProfileReturnsUserWithoutSensitiveData(t *testing.T) {
	h, repo, _ := newUsersHandler()

	created, err := repo.Create(t.Context(), "Asha", "a@b.com", "hash", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), created.ID))
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"a@b.com"`)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestProfileUnknownUserIsUnauthorized(t *testing.T) {
	h, _, _ := newUsersHandler()

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "ghost"))
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenIssuerRejectsTampering(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", time.Hour)
	token, err := tokens.Issue("u1")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := tokens.Issue("u1")
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}


