package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmorozov/showcase-backend/internal/models"
	"github.com/dmorozov/showcase-backend/internal/pkg/apperror"
	"github.com/dmorozov/showcase-backend/internal/repository"
)

type mockAdminRepo struct {
	admin    *models.AdminUser
	sessions map[string]*models.Session
}

func newMockAdminRepo(admin *models.AdminUser) *mockAdminRepo {
	return &mockAdminRepo{admin: admin, sessions: map[string]*models.Session{}}
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	if m.admin != nil && m.admin.Email == email {
		return m.admin, nil
	}
	return nil, repository.ErrAdminNotFound
}

func (m *mockAdminRepo) GetByID(_ context.Context, id uuid.UUID) (*models.AdminUser, error) {
	if m.admin != nil && m.admin.ID == id {
		return m.admin, nil
	}
	return nil, repository.ErrAdminNotFound
}

func (m *mockAdminRepo) UpdateLastLoginAt(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (m *mockAdminRepo) CreateSession(_ context.Context, session *models.Session) error {
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAdminRepo) GetSession(_ context.Context, refreshToken string) (*models.Session, error) {
	if s, ok := m.sessions[refreshToken]; ok {
		return s, nil
	}
	return nil, repository.ErrSessionNotFound
}

func (m *mockAdminRepo) DeleteSession(_ context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func testAdmin(t *testing.T, password string) *models.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.AdminUser{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         "admin",
		IsActive:     true,
	}
}

func newTestTokenManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAuthService_Login_Success(t *testing.T) {
	admin := testAdmin(t, "correct-password")
	repo := newMockAdminRepo(admin)
	svc := NewAuthService(repo, newTestTokenManager())

	result, err := svc.Login(context.Background(), "Admin@Example.com ", "correct-password")
	require.NoError(t, err)

	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	assert.Len(t, repo.sessions, 1)

	adminID, role, err := newTestTokenManager().ParseAccess(result.TokenPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, adminID)
	assert.Equal(t, "admin", role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	admin := testAdmin(t, "correct-password")
	repo := newMockAdminRepo(admin)
	svc := NewAuthService(repo, newTestTokenManager())

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	assert.Empty(t, repo.sessions)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := newMockAdminRepo(nil)
	svc := NewAuthService(repo, newTestTokenManager())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	// Та же ошибка, что и при неверном пароле: не раскрываем существование учётки
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveAdmin(t *testing.T) {
	admin := testAdmin(t, "correct-password")
	admin.IsActive = false
	repo := newMockAdminRepo(admin)
	svc := NewAuthService(repo, newTestTokenManager())

	_, err := svc.Login(context.Background(), "admin@example.com", "correct-password")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	admin := testAdmin(t, "correct-password")
	repo := newMockAdminRepo(admin)
	svc := NewAuthService(repo, newTestTokenManager())

	login, err := svc.Login(context.Background(), "admin@example.com", "correct-password")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.TokenPair.RefreshToken)
	require.NoError(t, err)

	// Старая сессия закрыта, новая создана
	_, oldAlive := repo.sessions[login.TokenPair.RefreshToken]
	assert.False(t, oldAlive)
	_, newAlive := repo.sessions[refreshed.TokenPair.RefreshToken]
	assert.True(t, newAlive)
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	admin := testAdmin(t, "correct-password")
	repo := newMockAdminRepo(admin)
	tm := newTestTokenManager()
	svc := NewAuthService(repo, tm)

	// Токен валиден криптографически, но сессии для него нет
	pair, _, err := tm.GeneratePair(admin)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthService_Refresh_ExpiredSession(t *testing.T) {
	admin := testAdmin(t, "correct-password")
	repo := newMockAdminRepo(admin)
	tm := newTestTokenManager()
	svc := NewAuthService(repo, tm)

	pair, _, err := tm.GeneratePair(admin)
	require.NoError(t, err)
	repo.sessions[pair.RefreshToken] = &models.Session{
		AdminID:      admin.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    time.Now().Add(-time.Hour),
	}

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Empty(t, repo.sessions)
}
