package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorozov/showcase-backend/internal/models"
	"github.com/dmorozov/showcase-backend/internal/pkg/apperror"
	"github.com/dmorozov/showcase-backend/internal/repository"
	"github.com/dmorozov/showcase-backend/internal/storage"
)

// mockMediaCaseStudies хранит один кейс и записывает вызовы UpdateFeaturedMedia.
type mockMediaCaseStudies struct {
	cs           *models.CaseStudy
	updateCalls  int
	lastImageURL *string
	lastVideoURL *string
}

func (m *mockMediaCaseStudies) GetByID(ctx context.Context, id uuid.UUID) (*models.CaseStudy, error) {
	if m.cs != nil && m.cs.ID == id {
		return m.cs, nil
	}
	return nil, repository.ErrCaseStudyNotFound
}

func (m *mockMediaCaseStudies) UpdateFeaturedMedia(ctx context.Context, id uuid.UUID, imageURL, videoURL *string) error {
	m.updateCalls++
	m.lastImageURL = imageURL
	m.lastVideoURL = videoURL
	return nil
}

type mockMediaCompanies struct {
	logoURL *string
}

func (m *mockMediaCompanies) UpdateLogo(ctx context.Context, id uuid.UUID, logoURL string) error {
	m.logoURL = &logoURL
	return nil
}

// mockMediaFiles хранит строки вложений в памяти.
// failOn — номер вызова Create, начиная с которого возвращается ошибка (0 — никогда).
type mockMediaFiles struct {
	rows    []models.MediaFile
	deleted []uuid.UUID
	failOn  int
	calls   int
}

func (m *mockMediaFiles) Create(ctx context.Context, media *models.MediaFile) error {
	m.calls++
	if m.failOn != 0 && m.calls >= m.failOn {
		return errors.New("db down")
	}
	media.ID = uuid.New()
	m.rows = append(m.rows, *media)
	return nil
}

func (m *mockMediaFiles) Delete(ctx context.Context, mediaID uuid.UUID) error {
	m.deleted = append(m.deleted, mediaID)
	for i := range m.rows {
		if m.rows[i].ID == mediaID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrMediaNotFound
}

type mediaFixture struct {
	svc         *MediaService
	caseStudies *mockMediaCaseStudies
	companies   *mockMediaCompanies
	files       *mockMediaFiles
	root        string
	cs          *models.CaseStudy
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()

	root := t.TempDir()
	blobs, err := storage.NewMediaStorage(root, 5)
	require.NoError(t, err)

	cs := &models.CaseStudy{ID: uuid.New(), CompanyID: uuid.New(), Title: "Кейс"}
	caseStudies := &mockMediaCaseStudies{cs: cs}
	companies := &mockMediaCompanies{}
	files := &mockMediaFiles{}

	svc := NewMediaService(caseStudies, companies, files, blobs, "/uploads/case-studies")
	return &mediaFixture{svc: svc, caseStudies: caseStudies, companies: companies, files: files, root: root, cs: cs}
}

func upload(name, mimetype, content string) UploadFile {
	return UploadFile{
		Filename: name,
		Mimetype: mimetype,
		Size:     int64(len(content)),
		Reader:   strings.NewReader(content),
	}
}

func (f *mediaFixture) caseDirEntries(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.root, f.cs.ID.String()))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestMediaService_Ingest_MissingCaseStudy(t *testing.T) {
	f := newMediaFixture(t)

	img := upload("hero.png", "image/png", "data")
	_, err := f.svc.Ingest(context.Background(), uuid.New(), IngestInput{FeaturedImage: &img})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.caseDirEntries(t), "до записи файлов дойти не должно")
	assert.Zero(t, f.caseStudies.updateCalls)
}

func TestMediaService_Ingest_TypeInference(t *testing.T) {
	f := newMediaFixture(t)

	in := IngestInput{
		Additional: []UploadFile{
			upload("shot.png", "image/png", "png-bytes"),
			upload("demo.mp4", "video/mp4", "mp4-bytes"),
		},
	}

	result, err := f.svc.Ingest(context.Background(), f.cs.ID, in)
	require.NoError(t, err)
	require.Len(t, result.Media, 2)

	assert.Equal(t, "image", result.Media[0].Type)
	assert.Equal(t, "shot.png", result.Media[0].Filename)
	assert.Equal(t, "image/png", result.Media[0].Mimetype)
	assert.Equal(t, int64(len("png-bytes")), result.Media[0].Size)

	assert.Equal(t, "video", result.Media[1].Type)
	assert.Equal(t, "demo.mp4", result.Media[1].Filename)
}

func TestMediaService_Ingest_FeaturedAndLogo(t *testing.T) {
	f := newMediaFixture(t)

	img := upload("hero.png", "image/png", "img")
	logo := upload("logo.svg", "image/svg+xml", "svg")
	in := IngestInput{FeaturedImage: &img, CompanyLogo: &logo}

	result, err := f.svc.Ingest(context.Background(), f.cs.ID, in)
	require.NoError(t, err)

	require.NotNil(t, result.FeaturedImageURL)
	assert.True(t, strings.HasPrefix(*result.FeaturedImageURL, "/uploads/case-studies/"+f.cs.ID.String()+"/featured-image-"))
	assert.True(t, strings.HasSuffix(*result.FeaturedImageURL, ".png"))
	assert.Nil(t, result.FeaturedVideoURL)

	// Одно обновление кейса на запрос
	assert.Equal(t, 1, f.caseStudies.updateCalls)
	assert.Equal(t, result.FeaturedImageURL, f.caseStudies.lastImageURL)
	assert.Nil(t, f.caseStudies.lastVideoURL)

	require.NotNil(t, f.companies.logoURL)
	assert.Contains(t, *f.companies.logoURL, "company-logo-")

	assert.Len(t, f.caseDirEntries(t), 2)
}

func TestMediaService_Ingest_NoFeaturedFilesNoUpdate(t *testing.T) {
	f := newMediaFixture(t)

	in := IngestInput{Additional: []UploadFile{upload("a.png", "image/png", "x")}}
	_, err := f.svc.Ingest(context.Background(), f.cs.ID, in)
	require.NoError(t, err)

	assert.Zero(t, f.caseStudies.updateCalls)
	assert.Nil(t, f.companies.logoURL)
}

func TestMediaService_Ingest_SkipsEmptyAdditionalFiles(t *testing.T) {
	f := newMediaFixture(t)

	in := IngestInput{
		Additional: []UploadFile{
			{Filename: "empty.png", Mimetype: "image/png", Size: 0, Reader: strings.NewReader("")},
			upload("real.png", "image/png", "bytes"),
		},
	}

	result, err := f.svc.Ingest(context.Background(), f.cs.ID, in)
	require.NoError(t, err)

	require.Len(t, result.Media, 1)
	assert.Equal(t, "real.png", result.Media[0].Filename)
	assert.Len(t, f.caseDirEntries(t), 1)
}

func TestMediaService_Ingest_CleansUpFilesOnDatabaseError(t *testing.T) {
	f := newMediaFixture(t)
	f.files.failOn = 1

	img := upload("hero.png", "image/png", "img")
	in := IngestInput{
		FeaturedImage: &img,
		Additional:    []UploadFile{upload("extra.png", "image/png", "bytes")},
	}

	_, err := f.svc.Ingest(context.Background(), f.cs.ID, in)
	require.Error(t, err)

	assert.Empty(t, f.caseDirEntries(t), "записанные в этом запросе файлы должны быть удалены")
}

func TestMediaService_Ingest_RemovesInsertedRowsOnLaterFailure(t *testing.T) {
	f := newMediaFixture(t)
	f.files.failOn = 2

	in := IngestInput{
		Additional: []UploadFile{
			upload("first.png", "image/png", "first"),
			upload("second.png", "image/png", "second"),
		},
	}

	_, err := f.svc.Ingest(context.Background(), f.cs.ID, in)
	require.Error(t, err)

	// Строка первого файла создана до сбоя и должна быть удалена вместе с файлами,
	// иначе её URL укажет на только что стёртый файл
	assert.Empty(t, f.files.rows, "строки media_files, созданные в этом запросе, должны быть удалены")
	assert.Len(t, f.files.deleted, 1)
	assert.Empty(t, f.caseDirEntries(t))
}

func TestMediaTypeFromMime(t *testing.T) {
	assert.Equal(t, "image", MediaTypeFromMime("image/png"))
	assert.Equal(t, "image", MediaTypeFromMime("image/webp"))
	assert.Equal(t, "video", MediaTypeFromMime("video/mp4"))
	assert.Equal(t, "video", MediaTypeFromMime("application/octet-stream"))
}
