package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmorozov/showcase-backend/internal/models"
)

// CreateCaseStudyRequest represents the multipart form fields for creating a case study.
// Tags arrive as a comma-separated string and metrics as a JSON object string,
// because the request body also carries media files.
type CreateCaseStudyRequest struct {
	Title              string `form:"title" binding:"required"`
	Subtitle           string `form:"subtitle"`
	Excerpt            string `form:"excerpt"`
	Content            string `form:"content" binding:"required"`
	CompanyName        string `form:"companyName" binding:"required"`
	CompanyIndustry    string `form:"companyIndustry" binding:"required"`
	CompanySize        string `form:"companySize"`
	CompanyLocation    string `form:"companyLocation"`
	CompanyWebsite     string `form:"companyWebsite"`
	CompanyDescription string `form:"companyDescription"`
	CompanyLogo        string `form:"companyLogo"`
	Tags               string `form:"tags"`
	Metrics            string `form:"metrics"`
	MediaType          string `form:"mediaType"`
	ReadTime           int    `form:"readTime"`
	Published          bool   `form:"published"`
	Featured           bool   `form:"featured"`
	FeaturedVideo      string `form:"featuredVideo"`
}

// ParseTags разбирает строку тегов через запятую в список без пустых значений.
func (r *CreateCaseStudyRequest) ParseTags() []string {
	return SplitTags(r.Tags)
}

// ParseMetrics разбирает JSON-строку метрик в пары ключ-значение.
func (r *CreateCaseStudyRequest) ParseMetrics() (models.Metrics, error) {
	return ParseMetrics(r.Metrics)
}

// UpdateCaseStudyRequest represents the request to update a case study.
// Nil fields are left unchanged.
type UpdateCaseStudyRequest struct {
	Title     *string         `json:"title"`
	Subtitle  *string         `json:"subtitle"`
	Excerpt   *string         `json:"excerpt"`
	Content   *string         `json:"content"`
	Tags      *[]string       `json:"tags"`
	Metrics   *models.Metrics `json:"metrics"`
	MediaType *string         `json:"media_type"`
	ReadTime  *int            `json:"read_time"`
	Published *bool           `json:"published"`
	Featured  *bool           `json:"featured"`
}

// TestimonialRequest represents the request to create or update a testimonial
type TestimonialRequest struct {
	CompanyID   string  `json:"company_id" binding:"required"`
	CaseStudyID *string `json:"case_study_id"`
	Quote       string  `json:"quote" binding:"required"`
	Author      string  `json:"author" binding:"required"`
	Position    string  `json:"position"`
	Avatar      *string `json:"avatar"`
	Featured    bool    `json:"featured"`
}

// LoginRequest represents the admin login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SplitTags разбирает строку тегов через запятую, отбрасывая пустые элементы.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ParseMetrics разбирает JSON-объект метрик из строки формы.
func ParseMetrics(raw string) (models.Metrics, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Metrics{}, nil
	}
	var metrics models.Metrics
	if err := json.Unmarshal([]byte(raw), &metrics); err != nil {
		return nil, fmt.Errorf("некорректный формат метрик: %w", err)
	}
	return metrics, nil
}
