package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmorozov/showcase-backend/internal/dto"
	"github.com/dmorozov/showcase-backend/internal/filter"
	"github.com/dmorozov/showcase-backend/internal/http/handlers/common"
	"github.com/dmorozov/showcase-backend/internal/models"
	"github.com/dmorozov/showcase-backend/internal/repository"
	"github.com/dmorozov/showcase-backend/internal/service"
	"github.com/dmorozov/showcase-backend/internal/validation"
)

// CaseStudyHandler предоставляет HTTP слой для работы с кейсами.
type CaseStudyHandler struct {
	caseStudies *service.CaseStudyService
}

// NewCaseStudyHandler создаёт хэндлер.
func NewCaseStudyHandler(caseStudies *service.CaseStudyService) *CaseStudyHandler {
	return &CaseStudyHandler{caseStudies: caseStudies}
}

// List обрабатывает GET /api/case-studies.
// Параметры фильтра: industry, size, location, tags (через запятую), q.
func (h *CaseStudyHandler) List(c *gin.Context) {
	criteria := filter.Criteria{
		Industry: c.Query("industry"),
		Size:     c.Query("size"),
		Location: c.Query("location"),
		Tags:     dto.SplitTags(c.Query("tags")),
		Query:    c.Query("q"),
	}

	list, err := h.caseStudies.List(c.Request.Context(), criteria)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]dto.CaseStudyResponse, 0, len(list))
	for i := range list {
		responses = append(responses, *dto.NewCaseStudyResponse(&list[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// Get обрабатывает GET /api/case-studies/:id.
func (h *CaseStudyHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	details, err := h.caseStudies.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCaseStudyResponse(details))
}

// GetBySlug обрабатывает GET /api/case-studies/slug/:slug.
// Возвращает только опубликованные кейсы.
func (h *CaseStudyHandler) GetBySlug(c *gin.Context) {
	slugParam := c.Param("slug")
	if err := validation.ValidateNonEmpty("slug", slugParam); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	details, err := h.caseStudies.GetBySlug(c.Request.Context(), slugParam)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCaseStudyResponse(details))
}

// Create обрабатывает POST /api/case-studies.
func (h *CaseStudyHandler) Create(c *gin.Context) {
	var req dto.CreateCaseStudyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, content, companyName и companyIndustry обязательны"})
		return
	}

	if err := validateCreateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tags := req.ParseTags()
	if err := validation.ValidateTags(tags); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics, err := req.ParseMetrics()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateMetrics(metrics); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mediaType := models.MediaType(req.MediaType)
	if req.MediaType != "" && !mediaType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mediaType должен быть IMAGE_ONLY, VIDEO_ONLY или IMAGE_AND_VIDEO"})
		return
	}

	in := service.CreateCaseStudyInput{
		Title:           req.Title,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		Tags:            tags,
		Metrics:         metrics,
		MediaType:       mediaType,
		Published:       req.Published,
		Featured:        req.Featured,
		CompanyName:     req.CompanyName,
		CompanyIndustry: req.CompanyIndustry,
		CompanyLocation: req.CompanyLocation,
		CompanySize:     req.CompanySize,
	}
	if req.ReadTime > 0 {
		in.ReadTime = &req.ReadTime
	}
	if req.Subtitle != "" {
		in.Subtitle = &req.Subtitle
	}
	if req.FeaturedVideo != "" {
		in.FeaturedVideo = &req.FeaturedVideo
	}
	if req.CompanyWebsite != "" {
		in.CompanyWebsite = &req.CompanyWebsite
	}
	if req.CompanyDescription != "" {
		in.CompanyDescription = &req.CompanyDescription
	}
	if req.CompanyLogo != "" {
		in.CompanyLogo = &req.CompanyLogo
	}

	details, err := h.caseStudies.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCaseStudyResponse(details))
}

// Update обрабатывает PUT /api/case-studies/:id. Частичное обновление.
func (h *CaseStudyHandler) Update(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateCaseStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	params := repository.UpdateParams{
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Tags:      req.Tags,
		Metrics:   req.Metrics,
		Published: req.Published,
		Featured:  req.Featured,
		ReadTime:  req.ReadTime,
	}

	if req.Title != nil {
		if err := validation.ValidateTitle(*req.Title); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Subtitle != nil {
		if err := validation.ValidateSubtitle(*req.Subtitle); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Content != nil {
		if err := validation.ValidateContent(*req.Content); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Tags != nil {
		if err := validation.ValidateTags(*req.Tags); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Metrics != nil {
		if err := validation.ValidateMetrics(*req.Metrics); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.ReadTime != nil {
		if err := validation.ValidateReadTime(*req.ReadTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.MediaType != nil {
		mt := models.MediaType(*req.MediaType)
		if !mt.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mediaType должен быть IMAGE_ONLY, VIDEO_ONLY или IMAGE_AND_VIDEO"})
			return
		}
		params.MediaType = &mt
	}

	details, err := h.caseStudies.Update(c.Request.Context(), id, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCaseStudyResponse(details))
}

// Delete обрабатывает DELETE /api/case-studies/:id.
func (h *CaseStudyHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.caseStudies.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func validateCreateRequest(req *dto.CreateCaseStudyRequest) error {
	if err := validation.ValidateTitle(req.Title); err != nil {
		return err
	}
	if err := validation.ValidateSubtitle(req.Subtitle); err != nil {
		return err
	}
	if err := validation.ValidateExcerpt(req.Excerpt); err != nil {
		return err
	}
	if err := validation.ValidateContent(req.Content); err != nil {
		return err
	}
	if err := validation.ValidateCompanyName(req.CompanyName); err != nil {
		return err
	}
	if err := validation.ValidateIndustry(req.CompanyIndustry); err != nil {
		return err
	}
	if err := validation.ValidateCompanyDescription(req.CompanyDescription); err != nil {
		return err
	}
	if err := validation.ValidateReadTime(req.ReadTime); err != nil {
		return err
	}
	if err := validation.ValidateExternalLink(req.CompanyWebsite); err != nil {
		return err
	}
	if err := validation.ValidateExternalLink(req.CompanyLogo); err != nil {
		return err
	}
	return validation.ValidateExternalLink(req.FeaturedVideo)
}
