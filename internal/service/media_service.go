package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dmorozov/showcase-backend/internal/models"
	"github.com/dmorozov/showcase-backend/internal/pkg/apperror"
	"github.com/dmorozov/showcase-backend/internal/repository"
	"github.com/dmorozov/showcase-backend/internal/storage"
)

// MediaCaseStudyStore описывает, что сервису нужно от хранилища кейсов.
type MediaCaseStudyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.CaseStudy, error)
	UpdateFeaturedMedia(ctx context.Context, id uuid.UUID, imageURL, videoURL *string) error
}

// MediaCompanyStore описывает, что сервису нужно от хранилища компаний.
type MediaCompanyStore interface {
	UpdateLogo(ctx context.Context, id uuid.UUID, logoURL string) error
}

// MediaFileStore описывает, что сервису нужно от хранилища вложений.
type MediaFileStore interface {
	Create(ctx context.Context, media *models.MediaFile) error
	Delete(ctx context.Context, mediaID uuid.UUID) error
}

// BlobStore описывает файловое хранилище медиа.
type BlobStore interface {
	SaveRole(ctx context.Context, caseStudyID uuid.UUID, role storage.MediaRole, originalName string, r io.Reader) (string, int64, error)
	SaveAdditional(ctx context.Context, caseStudyID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
	Remove(ctx context.Context, caseStudyID uuid.UUID, fileName string) error
}

// UploadFile содержит один файл из multipart формы.
type UploadFile struct {
	Filename string
	Mimetype string
	Size     int64
	Reader   io.Reader
}

// IngestInput собирает файлы запроса по слотам.
type IngestInput struct {
	FeaturedImage *UploadFile
	FeaturedVideo *UploadFile
	CompanyLogo   *UploadFile
	Additional    []UploadFile
}

// IngestResult возвращает созданные вложения и записанные URL основного медиа.
type IngestResult struct {
	Media            []models.MediaFile
	FeaturedImageURL *string
	FeaturedVideoURL *string
	CompanyLogoURL   *string
}

// MediaService выполняет приём медиа: файлы на диск, записи в базу,
// URL основного медиа на кейс и логотип на компанию.
type MediaService struct {
	caseStudies MediaCaseStudyStore
	companies   MediaCompanyStore
	media       MediaFileStore
	blobs       BlobStore
	publicBase  string
}

// NewMediaService создаёт сервис приёма медиа.
// publicBase — префикс публичных URL, например "/uploads/case-studies".
func NewMediaService(caseStudies MediaCaseStudyStore, companies MediaCompanyStore, media MediaFileStore, blobs BlobStore, publicBase string) *MediaService {
	return &MediaService{
		caseStudies: caseStudies,
		companies:   companies,
		media:       media,
		blobs:       blobs,
		publicBase:  strings.TrimRight(publicBase, "/"),
	}
}

// MediaTypeFromMime выводит тип вложения из MIME типа.
func MediaTypeFromMime(mimetype string) string {
	if strings.HasPrefix(mimetype, "image/") {
		return "image"
	}
	return "video"
}

// Ingest обрабатывает файлы одного запроса последовательно.
// Если запись на диск или в базу не удалась, уже записанные в этом
// запросе файлы и созданные для них строки media_files удаляются,
// чтобы не оставлять ни сирот на диске, ни записей с битыми URL.
func (s *MediaService) Ingest(ctx context.Context, caseStudyID uuid.UUID, in IngestInput) (result *IngestResult, err error) {
	cs, err := s.caseStudies.GetByID(ctx, caseStudyID)
	if err != nil {
		if errors.Is(err, repository.ErrCaseStudyNotFound) {
			return nil, apperror.ErrCaseStudyNotFound
		}
		return nil, err
	}

	var written []string
	var inserted []uuid.UUID
	defer func() {
		if err == nil {
			return
		}
		for _, id := range inserted {
			_ = s.media.Delete(ctx, id)
		}
		for _, name := range written {
			_ = s.blobs.Remove(ctx, cs.ID, name)
		}
	}()

	result = &IngestResult{Media: []models.MediaFile{}}

	roles := []struct {
		file *UploadFile
		role storage.MediaRole
		dest **string
	}{
		{in.FeaturedImage, storage.RoleFeaturedImage, &result.FeaturedImageURL},
		{in.FeaturedVideo, storage.RoleFeaturedVideo, &result.FeaturedVideoURL},
		{in.CompanyLogo, storage.RoleCompanyLogo, &result.CompanyLogoURL},
	}

	for _, r := range roles {
		if r.file == nil {
			continue
		}
		var name string
		name, _, err = s.blobs.SaveRole(ctx, cs.ID, r.role, r.file.Filename, r.file.Reader)
		if err != nil {
			return nil, fmt.Errorf("media service: не удалось сохранить файл слота %q: %w", r.role.FormKey(), err)
		}
		written = append(written, name)
		url := s.publicURL(cs.ID, name)
		*r.dest = &url
	}

	for _, f := range in.Additional {
		if f.Size == 0 {
			continue
		}

		var name string
		var size int64
		name, size, err = s.blobs.SaveAdditional(ctx, cs.ID, f.Filename, f.Reader)
		if err != nil {
			return nil, fmt.Errorf("media service: не удалось сохранить вложение: %w", err)
		}
		written = append(written, name)

		row := models.MediaFile{
			CaseStudyID: cs.ID,
			URL:         s.publicURL(cs.ID, name),
			Type:        MediaTypeFromMime(f.Mimetype),
			Filename:    f.Filename,
			Size:        size,
			Mimetype:    f.Mimetype,
		}
		if err = s.media.Create(ctx, &row); err != nil {
			return nil, err
		}
		inserted = append(inserted, row.ID)
		result.Media = append(result.Media, row)
	}

	if result.FeaturedImageURL != nil || result.FeaturedVideoURL != nil {
		if err = s.caseStudies.UpdateFeaturedMedia(ctx, cs.ID, result.FeaturedImageURL, result.FeaturedVideoURL); err != nil {
			return nil, err
		}
	}

	if result.CompanyLogoURL != nil {
		if err = s.companies.UpdateLogo(ctx, cs.CompanyID, *result.CompanyLogoURL); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// publicURL строит публичный путь файла внутри каталога кейса.
func (s *MediaService) publicURL(caseStudyID uuid.UUID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, caseStudyID.String(), fileName)
}
