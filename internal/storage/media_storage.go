package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaRole задаёт слот основного медиа кейса.
type MediaRole int

const (
	RoleFeaturedImage MediaRole = iota
	RoleFeaturedVideo
	RoleCompanyLogo
)

// rolePrefixes сопоставляет слот с префиксом имени файла.
var rolePrefixes = map[MediaRole]string{
	RoleFeaturedImage: "featured-image-",
	RoleFeaturedVideo: "featured-video-",
	RoleCompanyLogo:   "company-logo-",
}

// Prefix возвращает префикс имени файла для слота.
func (r MediaRole) Prefix() string {
	return rolePrefixes[r]
}

// FormKey возвращает имя поля multipart формы для слота.
func (r MediaRole) FormKey() string {
	switch r {
	case RoleFeaturedImage:
		return "featuredImage"
	case RoleFeaturedVideo:
		return "featuredVideo"
	case RoleCompanyLogo:
		return "companyLogo"
	}
	return ""
}

// MediaStorage отвечает за файловое хранилище медиа кейсов.
// Файлы каждого кейса лежат в собственном подкаталоге uploads/case-studies/{id}.
type MediaStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewMediaStorage создаёт файловое хранилище.
func NewMediaStorage(rootPath string, maxUploadMB int64) (*MediaStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &MediaStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// SaveRole сохраняет файл основного медиа и возвращает имя файла внутри каталога кейса.
// Имя строится из префикса слота, текущей метки времени и исходного расширения.
func (s *MediaStorage) SaveRole(ctx context.Context, caseStudyID uuid.UUID, role MediaRole, originalName string, r io.Reader) (string, int64, error) {
	ext := filepath.Ext(sanitizeFilename(originalName))
	fileName := fmt.Sprintf("%s%d%s", role.Prefix(), time.Now().UnixNano(), ext)
	size, err := s.write(ctx, caseStudyID, fileName, r)
	return fileName, size, err
}

// SaveAdditional сохраняет дополнительное вложение под именем
// из метки времени и исходного имени файла.
func (s *MediaStorage) SaveAdditional(ctx context.Context, caseStudyID uuid.UUID, originalName string, r io.Reader) (string, int64, error) {
	fileName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFilename(originalName))
	size, err := s.write(ctx, caseStudyID, fileName, r)
	return fileName, size, err
}

// Remove удаляет файл из каталога кейса. Отсутствие файла не считается ошибкой.
func (s *MediaStorage) Remove(ctx context.Context, caseStudyID uuid.UUID, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.caseDir(caseStudyID), filepath.Base(fileName))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// caseDir возвращает каталог кейса внутри корня хранилища.
func (s *MediaStorage) caseDir(caseStudyID uuid.UUID) string {
	return filepath.Join(s.rootPath, caseStudyID.String())
}

// write пишет содержимое во временный файл и атомарно переименовывает его.
func (s *MediaStorage) write(ctx context.Context, caseStudyID uuid.UUID, fileName string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dir := s.caseDir(caseStudyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("storage: не удалось создать каталог кейса: %w", err)
	}

	targetPath := filepath.Join(dir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limitedReader := io.LimitedReader{R: r, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return 0, fmt.Errorf("storage: размер файла превышает лимит %d байт", s.maxUploadBytes)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return written, nil
}

// sanitizeFilename удаляет потенциально опасные символы из имени файла.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "file"
	}
	return name
}
