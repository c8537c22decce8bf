package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dmorozov/showcase-backend/internal/models"
	"github.com/dmorozov/showcase-backend/internal/pkg/apperror"
	"github.com/dmorozov/showcase-backend/internal/repository"
)

// TestimonialRepository описывает взаимодействие сервиса с хранилищем отзывов.
type TestimonialRepository interface {
	Create(ctx context.Context, t *models.Testimonial) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error)
	List(ctx context.Context, featured *bool) ([]models.Testimonial, error)
	Update(ctx context.Context, t *models.Testimonial) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TestimonialService содержит бизнес-логику работы с отзывами.
type TestimonialService struct {
	repo      TestimonialRepository
	companies CompanyStore
}

// NewTestimonialService создаёт новый сервис отзывов.
func NewTestimonialService(repo TestimonialRepository, companies CompanyStore) *TestimonialService {
	return &TestimonialService{repo: repo, companies: companies}
}

// TestimonialInput содержит данные отзыва.
type TestimonialInput struct {
	CompanyID   uuid.UUID
	CaseStudyID *uuid.UUID
	Quote       string
	Author      string
	Position    string
	Avatar      *string
	Featured    bool
}

// Create сохраняет отзыв. Компания обязательна, привязка к кейсу опциональна.
func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput) (*models.Testimonial, error) {
	if _, err := s.companies.GetByID(ctx, in.CompanyID); err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return nil, apperror.ErrCompanyNotFound
		}
		return nil, err
	}

	t := &models.Testimonial{
		CompanyID:   in.CompanyID,
		CaseStudyID: in.CaseStudyID,
		Quote:       in.Quote,
		Author:      in.Author,
		Position:    in.Position,
		Avatar:      in.Avatar,
		Featured:    in.Featured,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List возвращает отзывы, при featured != nil — только с этим флагом.
func (s *TestimonialService) List(ctx context.Context, featured *bool) ([]models.Testimonial, error) {
	return s.repo.List(ctx, featured)
}

// Update перезаписывает изменяемые поля отзыва.
func (s *TestimonialService) Update(ctx context.Context, id uuid.UUID, in TestimonialInput) (*models.Testimonial, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTestimonialNotFound) {
			return nil, apperror.ErrTestimonialNotFound
		}
		return nil, err
	}

	existing.Quote = in.Quote
	existing.Author = in.Author
	existing.Position = in.Position
	existing.Avatar = in.Avatar
	existing.Featured = in.Featured
	existing.CaseStudyID = in.CaseStudyID

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete удаляет отзыв.
func (s *TestimonialService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTestimonialNotFound) {
			return apperror.ErrTestimonialNotFound
		}
		return err
	}
	return nil
}
