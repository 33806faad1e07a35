package doctors

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jitendra20661/cbct-fyp/internal/categories"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

func newDoctorsRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/doctors", h.List)
	r.Get("/doctor_by_category", h.ListByCategory)
	r.Get("/doctors/{id}", h.Get)
	r.Post("/doctors", h.Create)
	r.Delete("/doctors/{id}", h.Delete)
	return r
}

func seedDoctor(t *testing.T, repo Repository, name, category string) *Doctor {
	t.Helper()
	d, err := repo.Create(t.Context(), &CreateDoctorRequest{
		Name:       name,
		CategoryID: "c1",
		Rating:     4.5,
	}, category, "")
	require.NoError(t, err)
	return d
}

func TestListByCategoryFiltersCaseInsensitively(t *testing.T) {
	repo := NewInMemoryRepository()
	seedDoctor(t, repo, "Dr. Ayesha Khan", "Cardiologist")
	seedDoctor(t, repo, "Dr. Rohan Mehta", "Dermatologist")
	seedDoctor(t, repo, "Dr. Neha Sharma", "Pediatrician")

	h := NewHandler(repo, categories.NewInMemoryRepository(), NewMemoryImageStore(), logging.Default())
	router := newDoctorsRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctor_by_category?category=cardiologist", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []Doctor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "Dr. Ayesha Khan", list[0].Name)

	// Empty query returns everyone.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctor_by_category", nil))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list, 3)
}

func TestGetDoctorNotFound(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), categories.NewInMemoryRepository(), NewMemoryImageStore(), logging.Default())
	router := newDoctorsRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors/missing-id", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Doctor not found")
}

func doctorForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		fw, err := mw.CreateFormFile("image", "profile photo.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateDoctorFromMultipartForm(t *testing.T) {
	categoryRepo := categories.NewInMemoryRepository()
	cardio, err := categoryRepo.Create(t.Context(), &categories.CreateCategoryRequest{Name: "Cardiology"})
	require.NoError(t, err)

	images := NewMemoryImageStore()
	h := NewHandler(NewInMemoryRepository(), categoryRepo, images, logging.Default())
	router := newDoctorsRouter(h)

	body, contentType := doctorForm(t, map[string]string{
		"name":           "Dr. Ayesha Khan",
		"category":       cardio.ID,
		"location":       "Mumbai",
		"rating":         "4.8",
		"qualification":  "MBBS, MD",
		"experience":     "12",
		"specialization": "Heart Failure, Angioplasty",
		"clinicAddress":  "12 Marine Drive",
		"availability":   `{"2026-09-01":["10:00 AM","11:00 AM"]}`,
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/doctors", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var d Doctor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))
	assert.Equal(t, "Cardiology", d.Category)
	assert.Equal(t, []string{"Heart Failure", "Angioplasty"}, d.Specialization)
	assert.True(t, d.Availability.HasSlot("2026-09-01", "10:00 AM"))
	require.NotEmpty(t, d.ProfileImageURL)

	stored, ok := images.Get(d.ProfileImageURL)
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), stored)
}

func TestCreateDoctorValidation(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), categories.NewInMemoryRepository(), NewMemoryImageStore(), logging.Default())
	router := newDoctorsRouter(h)

	cases := map[string]map[string]string{
		"missing name":     {"category": "c1"},
		"missing category": {"name": "Dr. X"},
		"bad rating":       {"name": "Dr. X", "category": "c1", "rating": "7"},
	}
	for name, fields := range cases {
		body, contentType := doctorForm(t, fields, false)
		req := httptest.NewRequest(http.MethodPost, "/doctors", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestDeleteDoctor(t *testing.T) {
	repo := NewInMemoryRepository()
	d := seedDoctor(t, repo, "Dr. Ayesha Khan", "Cardiologist")

	h := NewHandler(repo, categories.NewInMemoryRepository(), NewMemoryImageStore(), logging.Default())
	router := newDoctorsRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/doctors/"+d.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/doctors/"+d.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}


