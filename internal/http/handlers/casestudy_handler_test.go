package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorozov/showcase-backend/internal/models"
	"github.com/dmorozov/showcase-backend/internal/repository"
	"github.com/dmorozov/showcase-backend/internal/service"
)

// stubCaseStudyStore держит один кейс в памяти и записывает параметры Update.
type stubCaseStudyStore struct {
	cs      *models.CaseStudy
	company *models.Company
	updates []repository.UpdateParams
}

func (s *stubCaseStudyStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return false, nil
}

func (s *stubCaseStudyStore) CreateWithCompany(ctx context.Context, cs *models.CaseStudy, company *models.Company) error {
	company.ID = uuid.New()
	cs.ID = uuid.New()
	cs.CompanyID = company.ID
	csCopy := *cs
	companyCopy := *company
	s.cs = &csCopy
	s.company = &companyCopy
	return nil
}

func (s *stubCaseStudyStore) GetByID(ctx context.Context, id uuid.UUID) (*models.CaseStudy, error) {
	if s.cs != nil && s.cs.ID == id {
		return s.cs, nil
	}
	return nil, repository.ErrCaseStudyNotFound
}

func (s *stubCaseStudyStore) GetBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	if s.cs != nil && s.cs.Slug == slug && s.cs.Published {
		return s.cs, nil
	}
	return nil, repository.ErrCaseStudyNotFound
}

func (s *stubCaseStudyStore) List(ctx context.Context) ([]models.CaseStudyDetails, error) {
	return nil, nil
}

func (s *stubCaseStudyStore) Update(ctx context.Context, id uuid.UUID, params repository.UpdateParams) error {
	if s.cs == nil || s.cs.ID != id {
		return repository.ErrCaseStudyNotFound
	}
	s.updates = append(s.updates, params)
	if params.Subtitle != nil {
		subtitle := *params.Subtitle
		s.cs.Subtitle = &subtitle
	}
	return nil
}

func (s *stubCaseStudyStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubCompanyStore struct{ store *stubCaseStudyStore }

func (s stubCompanyStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if s.store.company != nil && s.store.company.ID == id {
		return s.store.company, nil
	}
	return nil, repository.ErrCompanyNotFound
}

type stubMediaStore struct{}

func (stubMediaStore) ListByCaseStudy(ctx context.Context, id uuid.UUID) ([]models.MediaFile, error) {
	return []models.MediaFile{}, nil
}

type stubTestimonialStore struct{}

func (stubTestimonialStore) ListByCaseStudy(ctx context.Context, id uuid.UUID) ([]models.Testimonial, error) {
	return []models.Testimonial{}, nil
}

func newStubbedHandler() (*CaseStudyHandler, *stubCaseStudyStore) {
	store := &stubCaseStudyStore{}
	svc := service.NewCaseStudyService(store, stubCompanyStore{store: store}, stubMediaStore{}, stubTestimonialStore{})
	return NewCaseStudyHandler(svc), store
}

func TestCaseStudyHandler_Get_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &CaseStudyHandler{caseStudies: nil}
	r.GET("/case-studies/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/case-studies/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaseStudyHandler_Create_MissingRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &CaseStudyHandler{caseStudies: nil}
	r.POST("/case-studies", handler.Create)

	body := strings.NewReader("excerpt=only-optional-fields")
	req, _ := http.NewRequest("POST", "/case-studies", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaseStudyHandler_Create_InvalidMetricsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &CaseStudyHandler{caseStudies: nil}
	r.POST("/case-studies", handler.Create)

	form := "title=Acme+Case&content=Long+enough+content+here&companyName=Acme&companyIndustry=Tech&metrics=not-json"
	req, _ := http.NewRequest("POST", "/case-studies", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "метрик")
}

func TestCaseStudyHandler_Create_InvalidMediaType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &CaseStudyHandler{caseStudies: nil}
	r.POST("/case-studies", handler.Create)

	form := "title=Acme+Case&content=Long+enough+content+here&companyName=Acme&companyIndustry=Tech&mediaType=AUDIO_ONLY"
	req, _ := http.NewRequest("POST", "/case-studies", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaseStudyHandler_Create_PersistsOptionalBodyFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler, store := newStubbedHandler()
	r.POST("/case-studies", handler.Create)

	form := url.Values{}
	form.Set("title", "Acme Platform Rollout")
	form.Set("subtitle", "Как Acme мигрировала за квартал")
	form.Set("content", "Достаточно длинный текст кейса")
	form.Set("companyName", "Acme")
	form.Set("companyIndustry", "Technology")
	form.Set("companyDescription", "Производитель всего на свете")
	form.Set("companyLogo", "https://acme.example/logo.png")

	req, _ := http.NewRequest("POST", "/case-studies", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NotNil(t, store.cs)
	require.NotNil(t, store.cs.Subtitle)
	assert.Equal(t, "Как Acme мигрировала за квартал", *store.cs.Subtitle)
	require.NotNil(t, store.company.Description)
	assert.Equal(t, "Производитель всего на свете", *store.company.Description)
	require.NotNil(t, store.company.Logo)
	assert.Equal(t, "https://acme.example/logo.png", *store.company.Logo)

	var resp struct {
		Subtitle *string `json:"subtitle"`
		Company  struct {
			Description *string `json:"description"`
			Logo        *string `json:"logo"`
		} `json:"company"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Subtitle)
	assert.Equal(t, "Как Acme мигрировала за квартал", *resp.Subtitle)
	require.NotNil(t, resp.Company.Description)
	require.NotNil(t, resp.Company.Logo)
}

func TestCaseStudyHandler_Update_Subtitle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler, store := newStubbedHandler()
	r.POST("/case-studies", handler.Create)
	r.PUT("/case-studies/:id", handler.Update)

	form := url.Values{}
	form.Set("title", "Acme Subtitle Case")
	form.Set("content", "Достаточно длинный текст кейса")
	form.Set("companyName", "Acme")
	form.Set("companyIndustry", "Technology")

	createReq, _ := http.NewRequest("POST", "/case-studies", strings.NewReader(form.Encode()))
	createReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, createReq)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body, _ := json.Marshal(map[string]string{"subtitle": "Новый подзаголовок"})
	updateReq, _ := http.NewRequest("PUT", "/case-studies/"+store.cs.ID.String(), bytes.NewReader(body))
	updateReq.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, updateReq)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.updates, 1)
	require.NotNil(t, store.updates[0].Subtitle)
	assert.Equal(t, "Новый подзаголовок", *store.updates[0].Subtitle)
}

func TestCaseStudyHandler_Update_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &CaseStudyHandler{caseStudies: nil}
	r.PUT("/case-studies/:id", handler.Update)

	req, _ := http.NewRequest("PUT", "/case-studies/not-a-uuid", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaseStudyHandler_Delete_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &CaseStudyHandler{caseStudies: nil}
	r.DELETE("/case-studies/:id", handler.Delete)

	req, _ := http.NewRequest("DELETE", "/case-studies/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
