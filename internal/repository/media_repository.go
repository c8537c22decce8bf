package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmorozov/showcase-backend/internal/models"
)

// ErrMediaNotFound сигнализирует об отсутствии вложения.
var ErrMediaNotFound = errors.New("media not found")

// MediaRepository работает с таблицей media_files.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository создаёт экземпляр.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create сохраняет запись о вложении кейса.
func (r *MediaRepository) Create(ctx context.Context, media *models.MediaFile) error {
	query := `
		INSERT INTO media_files (case_study_id, url, type, filename, size, mimetype)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		media.CaseStudyID,
		media.URL,
		media.Type,
		media.Filename,
		media.Size,
		media.Mimetype,
	).Scan(&media.ID, &media.CreatedAt); err != nil {
		return fmt.Errorf("media repository: create %w", err)
	}

	return nil
}

// ListByCaseStudy возвращает вложения кейса.
func (r *MediaRepository) ListByCaseStudy(ctx context.Context, caseStudyID uuid.UUID) ([]models.MediaFile, error) {
	var media []models.MediaFile
	query := `SELECT * FROM media_files WHERE case_study_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &media, query, caseStudyID); err != nil {
		return nil, fmt.Errorf("media repository: list by case study %w", err)
	}
	return media, nil
}

// Delete удаляет запись о вложении.
func (r *MediaRepository) Delete(ctx context.Context, mediaID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = $1`, mediaID)
	if err != nil {
		return fmt.Errorf("media repository: delete %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrMediaNotFound
	}
	return nil
}
