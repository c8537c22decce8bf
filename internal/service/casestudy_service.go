package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmorozov/showcase-backend/internal/filter"
	"github.com/dmorozov/showcase-backend/internal/models"
	"github.com/dmorozov/showcase-backend/internal/pkg/apperror"
	"github.com/dmorozov/showcase-backend/internal/repository"
	"github.com/dmorozov/showcase-backend/internal/slug"
)

// CaseStudyStore описывает взаимодействие сервиса с хранилищем кейсов.
type CaseStudyStore interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	CreateWithCompany(ctx context.Context, cs *models.CaseStudy, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CaseStudy, error)
	GetBySlug(ctx context.Context, slug string) (*models.CaseStudy, error)
	List(ctx context.Context) ([]models.CaseStudyDetails, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateParams) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyStore описывает доступ сервиса к компаниям.
type CompanyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

// MediaStore описывает доступ сервиса к вложениям.
type MediaStore interface {
	ListByCaseStudy(ctx context.Context, caseStudyID uuid.UUID) ([]models.MediaFile, error)
}

// TestimonialStore описывает доступ сервиса к отзывам.
type TestimonialStore interface {
	ListByCaseStudy(ctx context.Context, caseStudyID uuid.UUID) ([]models.Testimonial, error)
}

// CaseStudyService содержит бизнес-логику работы с кейсами.
type CaseStudyService struct {
	caseStudies  CaseStudyStore
	companies    CompanyStore
	media        MediaStore
	testimonials TestimonialStore
}

// NewCaseStudyService создаёт новый сервис кейсов.
func NewCaseStudyService(cs CaseStudyStore, companies CompanyStore, media MediaStore, testimonials TestimonialStore) *CaseStudyService {
	return &CaseStudyService{
		caseStudies:  cs,
		companies:    companies,
		media:        media,
		testimonials: testimonials,
	}
}

// CreateCaseStudyInput содержит данные нового кейса вместе с атрибутами компании.
type CreateCaseStudyInput struct {
	Title              string
	Subtitle           *string
	Excerpt            string
	Content            string
	Tags               []string
	Metrics            models.Metrics
	MediaType          models.MediaType
	Published          bool
	Featured           bool
	ReadTime           *int
	FeaturedVideo      *string
	CompanyName        string
	CompanyIndustry    string
	CompanyLocation    string
	CompanySize        string
	CompanyWebsite     *string
	CompanyDescription *string
	CompanyLogo        *string
}

// Create выводит слаг из заголовка, переиспользует или создаёт компанию
// и создаёт кейс. При занятом слаге ничего не пишет.
func (s *CaseStudyService) Create(ctx context.Context, in CreateCaseStudyInput) (*models.CaseStudyDetails, error) {
	derived := slug.Make(in.Title)
	if derived == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "заголовок не содержит допустимых символов для слага")
	}

	exists, err := s.caseStudies.SlugExists(ctx, derived)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ErrDuplicateTitle
	}

	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = models.MediaTypeImageOnly
	}
	if !mediaType.Valid() {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестный media_type %q", mediaType))
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	metrics := in.Metrics
	if metrics == nil {
		metrics = models.Metrics{}
	}

	company := &models.Company{
		Name:        in.CompanyName,
		Logo:        in.CompanyLogo,
		Website:     in.CompanyWebsite,
		Industry:    in.CompanyIndustry,
		Location:    in.CompanyLocation,
		Size:        in.CompanySize,
		Description: in.CompanyDescription,
	}

	cs := &models.CaseStudy{
		Title:         in.Title,
		Subtitle:      in.Subtitle,
		Slug:          derived,
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		FeaturedVideo: in.FeaturedVideo,
		MediaType:     mediaType,
		Tags:          tags,
		Metrics:       metrics,
		Published:     in.Published,
		Featured:      in.Featured,
		ReadTime:      in.ReadTime,
	}

	if err := s.caseStudies.CreateWithCompany(ctx, cs, company); err != nil {
		// Конкурентная вставка того же слага проигрывает уникальному индексу
		if errors.Is(err, repository.ErrSlugExists) {
			return nil, apperror.ErrDuplicateTitle
		}
		return nil, err
	}

	return &models.CaseStudyDetails{
		CaseStudy:    *cs,
		Company:      company,
		Media:        []models.MediaFile{},
		Testimonials: []models.Testimonial{},
	}, nil
}

// List возвращает кейсы с компаниями, вложениями и отзывами, новые первыми,
// применяя активные фильтры галереи.
func (s *CaseStudyService) List(ctx context.Context, criteria filter.Criteria) ([]models.CaseStudyDetails, error) {
	items, err := s.caseStudies.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		media, err := s.media.ListByCaseStudy(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		testimonials, err := s.testimonials.ListByCaseStudy(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Media = emptyIfNil(media)
		items[i].Testimonials = emptyIfNil(testimonials)
	}

	return filter.Apply(items, criteria), nil
}

// Get возвращает кейс со связанными сущностями.
func (s *CaseStudyService) Get(ctx context.Context, id uuid.UUID) (*models.CaseStudyDetails, error) {
	cs, err := s.caseStudies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCaseStudyNotFound) {
			return nil, apperror.ErrCaseStudyNotFound
		}
		return nil, err
	}
	return s.assemble(ctx, cs)
}

// GetBySlug возвращает опубликованный кейс по слагу.
func (s *CaseStudyService) GetBySlug(ctx context.Context, slugValue string) (*models.CaseStudyDetails, error) {
	cs, err := s.caseStudies.GetBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, repository.ErrCaseStudyNotFound) {
			return nil, apperror.ErrCaseStudyNotFound
		}
		return nil, err
	}
	return s.assemble(ctx, cs)
}

// Update выполняет частичное обновление кейса и возвращает свежую версию.
func (s *CaseStudyService) Update(ctx context.Context, id uuid.UUID, params repository.UpdateParams) (*models.CaseStudyDetails, error) {
	if params.MediaType != nil && !params.MediaType.Valid() {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестный media_type %q", *params.MediaType))
	}

	if err := s.caseStudies.Update(ctx, id, params); err != nil {
		if errors.Is(err, repository.ErrCaseStudyNotFound) {
			return nil, apperror.ErrCaseStudyNotFound
		}
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete удаляет кейс.
func (s *CaseStudyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.caseStudies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCaseStudyNotFound) {
			return apperror.ErrCaseStudyNotFound
		}
		return err
	}
	return nil
}

// assemble дособирает связанные сущности кейса.
func (s *CaseStudyService) assemble(ctx context.Context, cs *models.CaseStudy) (*models.CaseStudyDetails, error) {
	company, err := s.companies.GetByID(ctx, cs.CompanyID)
	if err != nil {
		return nil, err
	}
	media, err := s.media.ListByCaseStudy(ctx, cs.ID)
	if err != nil {
		return nil, err
	}
	testimonials, err := s.testimonials.ListByCaseStudy(ctx, cs.ID)
	if err != nil {
		return nil, err
	}

	return &models.CaseStudyDetails{
		CaseStudy:    *cs,
		Company:      company,
		Media:        emptyIfNil(media),
		Testimonials: emptyIfNil(testimonials),
	}, nil
}

// emptyIfNil нормализует nil-срез в пустой, чтобы в JSON уходил [], а не null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
