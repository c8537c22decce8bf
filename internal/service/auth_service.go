package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/dmorozov/showcase-backend/internal/models"
	"github.com/dmorozov/showcase-backend/internal/pkg/apperror"
)

// AdminRepository описывает зависимости AuthService от слоя хранилища.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, refreshToken string) (*models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
}

// AuthService инкапсулирует вход администратора и обновление токенов.
type AuthService struct {
	repo         AdminRepository
	tokenManager *TokenManager
}

// AuthResult возвращает итог авторизации.
type AuthResult struct {
	Admin     *models.AdminUser
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AdminRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Login проверяет учётные данные и выдаёт пару токенов.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	admin, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Не раскрываем, существует ли учётная запись
		return nil, apperror.ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	pair, refreshExp, err := s.tokenManager.GeneratePair(admin)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токены: %w", err)
	}

	session := &models.Session{
		AdminID:      admin.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLoginAt(ctx, admin.ID); err != nil {
		return nil, err
	}

	return &AuthResult{Admin: admin, TokenPair: pair}, nil
}

// Refresh обменивает refresh токен на новую пару.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	session, err := s.repo.GetSession(ctx, refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.repo.DeleteSession(ctx, refreshToken)
		return nil, apperror.ErrUnauthorized
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil || adminID != session.AdminID {
		return nil, apperror.ErrUnauthorized
	}

	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil || !admin.IsActive {
		return nil, apperror.ErrUnauthorized
	}

	// Старая сессия закрывается, выдаётся новая пара
	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return nil, err
	}

	pair, refreshExp, err := s.tokenManager.GeneratePair(admin)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токены: %w", err)
	}

	session = &models.Session{
		AdminID:      admin.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{Admin: admin, TokenPair: pair}, nil
}
