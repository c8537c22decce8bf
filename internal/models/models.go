package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaType описывает, какие слоты основного медиа заполняет кейс.
type MediaType string

const (
	MediaTypeImageOnly     MediaType = "IMAGE_ONLY"
	MediaTypeVideoOnly     MediaType = "VIDEO_ONLY"
	MediaTypeImageAndVideo MediaType = "IMAGE_AND_VIDEO"
)

// Valid проверяет, что значение входит в перечисление.
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeImageOnly, MediaTypeVideoOnly, MediaTypeImageAndVideo:
		return true
	}
	return false
}

// Metrics хранит произвольные показатели кейса (ключ → строковое значение).
// В базе лежит как jsonb.
type Metrics map[string]string

// Value сериализует метрики для записи в jsonb колонку.
func (m Metrics) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan читает метрики из jsonb колонки.
func (m *Metrics) Scan(src interface{}) error {
	if src == nil {
		*m = Metrics{}
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("models: неожиданный тип jsonb колонки %T", src)
	}
	return json.Unmarshal(raw, m)
}

// Company описывает компанию-клиента, о которой написан кейс.
type Company struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Logo        *string   `db:"logo" json:"logo,omitempty"`
	Website     *string   `db:"website" json:"website,omitempty"`
	Industry    string    `db:"industry" json:"industry"`
	Location    string    `db:"location" json:"location"`
	Size        string    `db:"size" json:"size"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CaseStudy описывает опубликованный кейс клиента.
type CaseStudy struct {
	ID            uuid.UUID `db:"id" json:"id"`
	CompanyID     uuid.UUID `db:"company_id" json:"company_id"`
	Title         string    `db:"title" json:"title"`
	Subtitle      *string   `db:"subtitle" json:"subtitle,omitempty"`
	Slug          string    `db:"slug" json:"slug"`
	Content       string    `db:"content" json:"content"`
	Excerpt       string    `db:"excerpt" json:"excerpt"`
	FeaturedImage *string   `db:"featured_image" json:"featured_image,omitempty"`
	FeaturedVideo *string   `db:"featured_video" json:"featured_video,omitempty"`
	MediaType     MediaType `db:"media_type" json:"media_type"`
	Tags          []string  `db:"tags" json:"tags"`
	Metrics       Metrics   `db:"metrics" json:"metrics"`
	Published     bool      `db:"published" json:"published"`
	Featured      bool      `db:"featured" json:"featured"`
	ReadTime      *int      `db:"read_time" json:"read_time,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Testimonial описывает отзыв клиента. Может существовать без привязки к кейсу.
type Testimonial struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	CompanyID   uuid.UUID  `db:"company_id" json:"company_id"`
	CaseStudyID *uuid.UUID `db:"case_study_id" json:"case_study_id,omitempty"`
	Quote       string     `db:"quote" json:"quote"`
	Author      string     `db:"author" json:"author"`
	Position    string     `db:"position" json:"position"`
	Avatar      *string    `db:"avatar" json:"avatar,omitempty"`
	Featured    bool       `db:"featured" json:"featured"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// MediaFile описывает дополнительное вложение кейса (не основное медиа).
type MediaFile struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CaseStudyID uuid.UUID `db:"case_study_id" json:"case_study_id"`
	URL         string    `db:"url" json:"url"`
	Type        string    `db:"type" json:"type"`
	Filename    string    `db:"filename" json:"filename"`
	Size        int64     `db:"size" json:"size"`
	Mimetype    string    `db:"mimetype" json:"mimetype"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CaseStudyDetails собирает кейс вместе со связанными сущностями для выдачи в API.
type CaseStudyDetails struct {
	CaseStudy
	Company      *Company      `json:"company,omitempty"`
	Media        []MediaFile   `json:"media"`
	Testimonials []Testimonial `json:"testimonials"`
}
