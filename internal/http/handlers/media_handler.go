package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/dmorozov/showcase-backend/internal/dto"
	"github.com/dmorozov/showcase-backend/internal/http/handlers/common"
	"github.com/dmorozov/showcase-backend/internal/service"
	"github.com/dmorozov/showcase-backend/internal/storage"
)

// Разрешённые типы изображений
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Разрешённые типы видео
var allowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
	"video/x-msvideo": true,
}

// MediaHandler управляет приёмом медиа-файлов кейса.
type MediaHandler struct {
	media       *service.MediaService
	caseStudies *service.CaseStudyService
}

// NewMediaHandler создаёт новый хэндлер.
func NewMediaHandler(media *service.MediaService, caseStudies *service.CaseStudyService) *MediaHandler {
	return &MediaHandler{media: media, caseStudies: caseStudies}
}

// Upload обрабатывает POST /api/case-studies/:id/media.
// Поля формы: featuredImage, featuredVideo, companyLogo (по одному файлу),
// additionalMedia (ноль и более).
func (h *MediaHandler) Upload(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ожидается multipart форма"})
		return
	}

	var in service.IngestInput
	var closers []io.Closer
	defer func() {
		for _, closer := range closers {
			closer.Close()
		}
	}()

	openRole := func(role storage.MediaRole, imagesOnly, videosOnly bool) (*service.UploadFile, error) {
		files := form.File[role.FormKey()]
		if len(files) == 0 {
			return nil, nil
		}
		upload, src, err := openUpload(files[0], imagesOnly, videosOnly)
		if err != nil {
			return nil, err
		}
		closers = append(closers, src)
		return upload, nil
	}

	if in.FeaturedImage, err = openRole(storage.RoleFeaturedImage, true, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.FeaturedVideo, err = openRole(storage.RoleFeaturedVideo, false, true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.CompanyLogo, err = openRole(storage.RoleCompanyLogo, true, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, header := range form.File["additionalMedia"] {
		if header.Size == 0 {
			continue
		}
		upload, src, err := openUpload(header, false, false)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		closers = append(closers, src)
		in.Additional = append(in.Additional, *upload)
	}

	result, err := h.media.Ingest(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	details, err := h.caseStudies.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{
		CaseStudy: dto.NewCaseStudyResponse(details),
		Media:     result.Media,
	})
}

// openUpload открывает файл формы, проверяет магические байты
// и возвращает файл с определённым по содержимому MIME типом.
func openUpload(header *multipart.FileHeader, imagesOnly, videosOnly bool) (*service.UploadFile, multipart.File, error) {
	if header.Size == 0 {
		return nil, nil, fmt.Errorf("файл %s не может быть пустым", header.Filename)
	}

	src, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("не удалось открыть файл %s", header.Filename)
	}

	// Читаем первые 512 байт для проверки магических байтов
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		src.Close()
		return nil, nil, fmt.Errorf("не удалось прочитать файл %s", header.Filename)
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		src.Close()
		return nil, nil, fmt.Errorf("не удалось определить тип файла %s", header.Filename)
	}

	mimetype := kind.MIME.Value
	isImage := allowedImageTypes[mimetype]
	isVideo := allowedVideoTypes[mimetype]

	switch {
	case imagesOnly && !isImage:
		src.Close()
		return nil, nil, fmt.Errorf("файл %s должен быть изображением (jpeg, png, gif, webp)", header.Filename)
	case videosOnly && !isVideo:
		src.Close()
		return nil, nil, fmt.Errorf("файл %s должен быть видео (%s)", header.Filename, strings.Join(sortedKeys(allowedVideoTypes), ", "))
	case !isImage && !isVideo:
		src.Close()
		return nil, nil, fmt.Errorf("неподдерживаемый тип файла %s (%s)", header.Filename, mimetype)
	}

	// Возвращаемся в начало файла после чтения заголовка
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		src.Close()
		return nil, nil, fmt.Errorf("не удалось прочитать файл %s", header.Filename)
	}

	return &service.UploadFile{
		Filename: header.Filename,
		Mimetype: mimetype,
		Size:     header.Size,
		Reader:   src,
	}, src, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
