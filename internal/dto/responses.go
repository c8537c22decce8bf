package dto

import (
	"github.com/dmorozov/showcase-backend/internal/models"
)

// CaseStudyResponse represents a case study with its company, media and testimonials.
// This eliminates the duplicate response structs in handlers.
type CaseStudyResponse struct {
	*models.CaseStudy
	Company      *models.Company      `json:"company,omitempty"`
	Media        []models.MediaFile   `json:"media"`
	Testimonials []models.Testimonial `json:"testimonials"`
}

// NewCaseStudyResponse creates a CaseStudyResponse from assembled details
func NewCaseStudyResponse(details *models.CaseStudyDetails) *CaseStudyResponse {
	return &CaseStudyResponse{
		CaseStudy:    &details.CaseStudy,
		Company:      details.Company,
		Media:        details.Media,
		Testimonials: details.Testimonials,
	}
}

// UploadResponse represents the result of media ingestion for a case study
type UploadResponse struct {
	CaseStudy *CaseStudyResponse `json:"case_study"`
	Media     []models.MediaFile `json:"media"`
}

// TokenResponse represents an issued token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}
