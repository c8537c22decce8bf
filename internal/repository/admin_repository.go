package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmorozov/showcase-backend/internal/models"
)

var (
	// ErrAdminNotFound возвращается, когда администратор не найден.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrSessionNotFound возвращается, когда сессия не найдена.
	ErrSessionNotFound = errors.New("session not found")
)

// AdminRepository работает с таблицами admin_users и admin_sessions.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository создаёт экземпляр репозитория.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByEmail возвращает администратора по email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	query := `SELECT * FROM admin_users WHERE email = $1`
	if err := r.db.GetContext(ctx, &admin, query, strings.ToLower(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("admin repository: get by email %w", err)
	}
	return &admin, nil
}

// GetByID возвращает администратора по идентификатору.
func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.GetContext(ctx, &admin, `SELECT * FROM admin_users WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("admin repository: get by id %w", err)
	}
	return &admin, nil
}

// UpdateLastLoginAt отмечает время последнего входа.
func (r *AdminRepository) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE admin_users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("admin repository: update last login %w", err)
	}
	return nil
}

// CreateSession сохраняет refresh токен.
func (r *AdminRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO admin_sessions (admin_id, refresh_token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, session.AdminID, session.RefreshToken, session.ExpiresAt).
		Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("admin repository: create session %w", err)
	}
	return nil
}

// GetSession возвращает сессию по refresh токену.
func (r *AdminRepository) GetSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	query := `SELECT * FROM admin_sessions WHERE refresh_token = $1`
	if err := r.db.GetContext(ctx, &session, query, refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("admin repository: get session %w", err)
	}
	return &session, nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *AdminRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("admin repository: delete session %w", err)
	}
	return nil
}
