package filter

import (
	"strings"

	"github.com/dmorozov/showcase-backend/internal/models"
)

// Criteria описывает активные фильтры галереи кейсов.
// Пустое поле означает "пропускать всё" по этому измерению.
type Criteria struct {
	Industry string
	Size     string
	Location string
	Tags     []string
	Query    string
}

// Empty сообщает, активен ли хотя бы один фильтр.
func (c Criteria) Empty() bool {
	return c.Industry == "" && c.Size == "" && c.Location == "" &&
		len(c.Tags) == 0 && strings.TrimSpace(c.Query) == ""
}

// Apply возвращает подмножество кейсов, удовлетворяющее критериям.
// Фильтры industry/size/location/tags соединяются по И, текстовый запрос
// ищется по ИЛИ среди заголовка, имени компании, выдержки и тегов.
// Порядок исходного списка сохраняется, исходный срез не изменяется.
func Apply(items []models.CaseStudyDetails, c Criteria) []models.CaseStudyDetails {
	if c.Empty() {
		return items
	}

	out := make([]models.CaseStudyDetails, 0, len(items))
	for _, item := range items {
		if matches(item, c) {
			out = append(out, item)
		}
	}
	return out
}

func matches(item models.CaseStudyDetails, c Criteria) bool {
	if c.Industry != "" && (item.Company == nil || item.Company.Industry != c.Industry) {
		return false
	}
	if c.Size != "" && (item.Company == nil || item.Company.Size != c.Size) {
		return false
	}
	if c.Location != "" && (item.Company == nil || item.Company.Location != c.Location) {
		return false
	}
	if len(c.Tags) > 0 && !hasAnyTag(item.Tags, c.Tags) {
		return false
	}
	if q := strings.TrimSpace(c.Query); q != "" && !matchesQuery(item, q) {
		return false
	}
	return true
}

// hasAnyTag проверяет пересечение тегов кейса с тегами фильтра.
func hasAnyTag(itemTags, filterTags []string) bool {
	for _, ft := range filterTags {
		for _, it := range itemTags {
			if it == ft {
				return true
			}
		}
	}
	return false
}

// matchesQuery ищет подстроку без учёта регистра в текстовых полях кейса.
func matchesQuery(item models.CaseStudyDetails, query string) bool {
	q := strings.ToLower(query)

	if strings.Contains(strings.ToLower(item.Title), q) {
		return true
	}
	if item.Company != nil && strings.Contains(strings.ToLower(item.Company.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Excerpt), q) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
