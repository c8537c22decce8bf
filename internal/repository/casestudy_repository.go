package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dmorozov/showcase-backend/internal/models"
)

var (
	// ErrCaseStudyNotFound возвращается, когда кейс не найден.
	ErrCaseStudyNotFound = errors.New("case study not found")
	// ErrSlugExists возвращается при попытке создать кейс с занятым слагом.
	ErrSlugExists = errors.New("slug already exists")
)

// uniqueViolation — код ошибки PostgreSQL для нарушения уникального ограничения.
const uniqueViolation = "23505"

// CaseStudyRepository работает с таблицей case_studies.
type CaseStudyRepository struct {
	db *sqlx.DB
}

// NewCaseStudyRepository создаёт экземпляр репозитория.
func NewCaseStudyRepository(db *sqlx.DB) *CaseStudyRepository {
	return &CaseStudyRepository{db: db}
}

const caseStudyColumns = `
	cs.id, cs.company_id, cs.title, cs.subtitle, cs.slug, cs.content, cs.excerpt,
	cs.featured_image, cs.featured_video, cs.media_type, cs.tags, cs.metrics,
	cs.published, cs.featured, cs.read_time, cs.created_at, cs.updated_at
`

// SlugExists проверяет, занят ли слаг.
func (r *CaseStudyRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM case_studies WHERE slug = $1`, slug); err != nil {
		return false, fmt.Errorf("case study repository: slug exists %w", err)
	}
	return count > 0, nil
}

// CreateWithCompany создаёт кейс и при необходимости компанию в одной транзакции.
// Компания переиспользуется по точному совпадению (name, industry).
// Конкурентная вставка одинакового слага упирается в уникальный индекс
// и возвращается как ErrSlugExists: выигрывает первая запись.
func (r *CaseStudyRepository) CreateWithCompany(ctx context.Context, cs *models.CaseStudy, company *models.Company) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("case study repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existing models.Company
	query := `SELECT * FROM companies WHERE name = $1 AND industry = $2 LIMIT 1`
	err = tx.GetContext(ctx, &existing, query, company.Name, company.Industry)
	switch {
	case err == nil:
		*company = existing
	case errors.Is(err, sql.ErrNoRows):
		insert := `
			INSERT INTO companies (name, logo, website, industry, location, size, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`
		if err = tx.QueryRowxContext(
			ctx,
			insert,
			company.Name,
			company.Logo,
			company.Website,
			company.Industry,
			company.Location,
			company.Size,
			company.Description,
		).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt); err != nil {
			return fmt.Errorf("case study repository: insert company %w", err)
		}
	default:
		return fmt.Errorf("case study repository: lookup company %w", err)
	}

	cs.CompanyID = company.ID

	insert := `
		INSERT INTO case_studies
			(company_id, title, subtitle, slug, content, excerpt, featured_image,
			 featured_video, media_type, tags, metrics, published, featured, read_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`
	if err = tx.QueryRowxContext(
		ctx,
		insert,
		cs.CompanyID,
		cs.Title,
		cs.Subtitle,
		cs.Slug,
		cs.Content,
		cs.Excerpt,
		cs.FeaturedImage,
		cs.FeaturedVideo,
		cs.MediaType,
		pq.Array(cs.Tags),
		cs.Metrics,
		cs.Published,
		cs.Featured,
		cs.ReadTime,
	).Scan(&cs.ID, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			err = ErrSlugExists
			return err
		}
		return fmt.Errorf("case study repository: insert case study %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("case study repository: commit %w", err)
	}

	return nil
}

// GetByID возвращает кейс по идентификатору.
func (r *CaseStudyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CaseStudy, error) {
	query := `SELECT ` + caseStudyColumns + ` FROM case_studies cs WHERE cs.id = $1`
	row := r.db.QueryRowxContext(ctx, query, id)
	return scanCaseStudy(row)
}

// GetBySlug возвращает опубликованный кейс по слагу.
func (r *CaseStudyRepository) GetBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	query := `SELECT ` + caseStudyColumns + ` FROM case_studies cs WHERE cs.slug = $1 AND cs.published = TRUE`
	row := r.db.QueryRowxContext(ctx, query, slug)
	return scanCaseStudy(row)
}

// List возвращает все кейсы вместе с компаниями, новые первыми.
func (r *CaseStudyRepository) List(ctx context.Context) ([]models.CaseStudyDetails, error) {
	query := `
		SELECT ` + caseStudyColumns + `,
			c.id, c.name, c.logo, c.website, c.industry, c.location, c.size,
			c.description, c.created_at, c.updated_at
		FROM case_studies cs
		JOIN companies c ON c.id = cs.company_id
		ORDER BY cs.created_at DESC
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("case study repository: list %w", err)
	}
	defer rows.Close()

	var items []models.CaseStudyDetails
	for rows.Next() {
		var cs models.CaseStudy
		var company models.Company
		var tags pq.StringArray

		if err := rows.Scan(
			&cs.ID, &cs.CompanyID, &cs.Title, &cs.Subtitle, &cs.Slug, &cs.Content, &cs.Excerpt,
			&cs.FeaturedImage, &cs.FeaturedVideo, &cs.MediaType, &tags, &cs.Metrics,
			&cs.Published, &cs.Featured, &cs.ReadTime, &cs.CreatedAt, &cs.UpdatedAt,
			&company.ID, &company.Name, &company.Logo, &company.Website, &company.Industry,
			&company.Location, &company.Size, &company.Description, &company.CreatedAt, &company.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("case study repository: scan %w", err)
		}

		cs.Tags = tags
		items = append(items, models.CaseStudyDetails{CaseStudy: cs, Company: &company})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("case study repository: rows %w", err)
	}

	return items, nil
}

// UpdateParams перечисляет поля для частичного обновления кейса.
// Нулевой указатель означает "не менять".
type UpdateParams struct {
	Title         *string
	Subtitle      *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	FeaturedVideo *string
	MediaType     *models.MediaType
	Tags          *[]string
	Metrics       *models.Metrics
	Published     *bool
	Featured      *bool
	ReadTime      *int
}

// Update выполняет частичное обновление кейса.
func (r *CaseStudyRepository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Subtitle != nil {
		add("subtitle", *params.Subtitle)
	}
	if params.Content != nil {
		add("content", *params.Content)
	}
	if params.Excerpt != nil {
		add("excerpt", *params.Excerpt)
	}
	if params.FeaturedImage != nil {
		add("featured_image", *params.FeaturedImage)
	}
	if params.FeaturedVideo != nil {
		add("featured_video", *params.FeaturedVideo)
	}
	if params.MediaType != nil {
		add("media_type", *params.MediaType)
	}
	if params.Tags != nil {
		add("tags", pq.Array(*params.Tags))
	}
	if params.Metrics != nil {
		add("metrics", *params.Metrics)
	}
	if params.Published != nil {
		add("published", *params.Published)
	}
	if params.Featured != nil {
		add("featured", *params.Featured)
	}
	if params.ReadTime != nil {
		add("read_time", *params.ReadTime)
	}

	query := fmt.Sprintf(`UPDATE case_studies SET %s WHERE id = $1`, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("case study repository: update %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrCaseStudyNotFound
	}
	return nil
}

// UpdateFeaturedMedia записывает URL основного изображения и видео одним вызовом.
// Нулевой указатель оставляет поле без изменений.
func (r *CaseStudyRepository) UpdateFeaturedMedia(ctx context.Context, id uuid.UUID, imageURL, videoURL *string) error {
	query := `
		UPDATE case_studies
		SET featured_image = COALESCE($2, featured_image),
			featured_video = COALESCE($3, featured_video),
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, imageURL, videoURL)
	if err != nil {
		return fmt.Errorf("case study repository: update featured media %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrCaseStudyNotFound
	}
	return nil
}

// Delete удаляет кейс. Связанные media удаляются каскадом на уровне схемы.
func (r *CaseStudyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM case_studies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("case study repository: delete %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrCaseStudyNotFound
	}
	return nil
}

// scanCaseStudy читает одну строку кейса.
func scanCaseStudy(row sqlx.ColScanner) (*models.CaseStudy, error) {
	var cs models.CaseStudy
	var tags pq.StringArray

	if err := row.Scan(
		&cs.ID, &cs.CompanyID, &cs.Title, &cs.Subtitle, &cs.Slug, &cs.Content, &cs.Excerpt,
		&cs.FeaturedImage, &cs.FeaturedVideo, &cs.MediaType, &tags, &cs.Metrics,
		&cs.Published, &cs.Featured, &cs.ReadTime, &cs.CreatedAt, &cs.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCaseStudyNotFound
		}
		return nil, fmt.Errorf("case study repository: scan %w", err)
	}

	cs.Tags = tags
	return &cs, nil
}
