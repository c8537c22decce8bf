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

// ErrCompanyNotFound возвращается, когда компания не найдена.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepository работает с таблицей companies.
type CompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository создаёт экземпляр репозитория.
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// GetByID возвращает компанию по идентификатору.
func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.GetContext(ctx, &company, `SELECT * FROM companies WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("company repository: get by id %w", err)
	}
	return &company, nil
}

// UpdateLogo записывает URL логотипа компании.
func (r *CompanyRepository) UpdateLogo(ctx context.Context, id uuid.UUID, logoURL string) error {
	query := `UPDATE companies SET logo = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, logoURL)
	if err != nil {
		return fmt.Errorf("company repository: update logo %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrCompanyNotFound
	}
	return nil
}
