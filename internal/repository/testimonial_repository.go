package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmorozov/showcase-backend/internal/models"
)

// ErrTestimonialNotFound возвращается, когда отзыв не найден.
var ErrTestimonialNotFound = errors.New("testimonial not found")

// TestimonialRepository работает с таблицей testimonials.
type TestimonialRepository struct {
	db *sqlx.DB
}

// NewTestimonialRepository создаёт экземпляр репозитория.
func NewTestimonialRepository(db *sqlx.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

// Create сохраняет отзыв.
func (r *TestimonialRepository) Create(ctx context.Context, t *models.Testimonial) error {
	query := `
		INSERT INTO testimonials (company_id, case_study_id, quote, author, position, avatar, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		t.CompanyID,
		t.CaseStudyID,
		t.Quote,
		t.Author,
		t.Position,
		t.Avatar,
		t.Featured,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("testimonial repository: create %w", err)
	}

	return nil
}

// GetByID возвращает отзыв по идентификатору.
func (r *TestimonialRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := r.db.GetContext(ctx, &t, `SELECT * FROM testimonials WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTestimonialNotFound
		}
		return nil, fmt.Errorf("testimonial repository: get by id %w", err)
	}
	return &t, nil
}

// List возвращает отзывы, новые первыми. featured=nil отдаёт все.
func (r *TestimonialRepository) List(ctx context.Context, featured *bool) ([]models.Testimonial, error) {
	var testimonials []models.Testimonial

	query := `SELECT * FROM testimonials ORDER BY created_at DESC`
	args := []interface{}{}
	if featured != nil {
		query = `SELECT * FROM testimonials WHERE featured = $1 ORDER BY created_at DESC`
		args = append(args, *featured)
	}

	if err := r.db.SelectContext(ctx, &testimonials, query, args...); err != nil {
		return nil, fmt.Errorf("testimonial repository: list %w", err)
	}
	return testimonials, nil
}

// ListByCaseStudy возвращает отзывы, привязанные к кейсу.
func (r *TestimonialRepository) ListByCaseStudy(ctx context.Context, caseStudyID uuid.UUID) ([]models.Testimonial, error) {
	var testimonials []models.Testimonial
	query := `SELECT * FROM testimonials WHERE case_study_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &testimonials, query, caseStudyID); err != nil {
		return nil, fmt.Errorf("testimonial repository: list by case study %w", err)
	}
	return testimonials, nil
}

// Update перезаписывает изменяемые поля отзыва.
func (r *TestimonialRepository) Update(ctx context.Context, t *models.Testimonial) error {
	query := `
		UPDATE testimonials
		SET quote = $2, author = $3, position = $4, avatar = $5, featured = $6,
			case_study_id = $7, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, t.ID, t.Quote, t.Author, t.Position, t.Avatar, t.Featured, t.CaseStudyID)
	if err != nil {
		return fmt.Errorf("testimonial repository: update %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrTestimonialNotFound
	}
	return nil
}

// Delete удаляет отзыв.
func (r *TestimonialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("testimonial repository: delete %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrTestimonialNotFound
	}
	return nil
}
