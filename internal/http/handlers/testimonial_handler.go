package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmorozov/showcase-backend/internal/dto"
	"github.com/dmorozov/showcase-backend/internal/http/handlers/common"
	"github.com/dmorozov/showcase-backend/internal/service"
	"github.com/dmorozov/showcase-backend/internal/validation"
)

// TestimonialHandler предоставляет HTTP слой для работы с отзывами.
type TestimonialHandler struct {
	testimonials *service.TestimonialService
}

// NewTestimonialHandler создаёт хэндлер.
func NewTestimonialHandler(testimonials *service.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonials: testimonials}
}

// List обрабатывает GET /api/testimonials.
// Параметр featured=true возвращает только отзывы для карусели.
func (h *TestimonialHandler) List(c *gin.Context) {
	var featured *bool
	switch c.Query("featured") {
	case "true":
		v := true
		featured = &v
	case "false":
		v := false
		featured = &v
	}

	list, err := h.testimonials.List(c.Request.Context(), featured)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Create обрабатывает POST /api/testimonials.
func (h *TestimonialHandler) Create(c *gin.Context) {
	in, ok := bindTestimonial(c)
	if !ok {
		return
	}

	testimonial, err := h.testimonials.Create(c.Request.Context(), *in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, testimonial)
}

// Update обрабатывает PUT /api/testimonials/:id.
func (h *TestimonialHandler) Update(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	in, ok := bindTestimonial(c)
	if !ok {
		return
	}

	testimonial, err := h.testimonials.Update(c.Request.Context(), id, *in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, testimonial)
}

// Delete обрабатывает DELETE /api/testimonials/:id.
func (h *TestimonialHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.testimonials.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// bindTestimonial разбирает и валидирует тело запроса отзыва.
func bindTestimonial(c *gin.Context) (*service.TestimonialInput, bool) {
	var req dto.TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id, quote и author обязательны"})
		return nil, false
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id должен быть валидным UUID"})
		return nil, false
	}

	if err := validation.ValidateQuote(req.Quote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if err := validation.ValidateAuthor(req.Author, req.Position); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	in := &service.TestimonialInput{
		CompanyID: companyID,
		Quote:     req.Quote,
		Author:    req.Author,
		Position:  req.Position,
		Avatar:    req.Avatar,
		Featured:  req.Featured,
	}

	if req.CaseStudyID != nil && *req.CaseStudyID != "" {
		caseStudyID, err := uuid.Parse(*req.CaseStudyID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "case_study_id должен быть валидным UUID"})
			return nil, false
		}
		in.CaseStudyID = &caseStudyID
	}

	return in, true
}
