package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmorozov/showcase-backend/internal/models"
)

func study(title, company, industry, size, location, excerpt string, tags ...string) models.CaseStudyDetails {
	return models.CaseStudyDetails{
		CaseStudy: models.CaseStudy{
			Title:   title,
			Excerpt: excerpt,
			Tags:    tags,
		},
		Company: &models.Company{
			Name:     company,
			Industry: industry,
			Size:     size,
			Location: location,
		},
	}
}

func sampleList() []models.CaseStudyDetails {
	return []models.CaseStudyDetails{
		study("Миграция в облако", "Acme", "Technology", "1,000+", "Berlin", "Переезд на Kubernetes", "cloud", "devops"),
		study("Рост продаж", "Northwind", "Retail", "200-500", "Moscow", "Автоматизация воронки", "sales", "crm"),
		study("AI в поддержке", "Acme", "Technology", "1,000+", "Berlin", "Чат-бот для саппорта", "ai", "support"),
	}
}

func TestApply_NoCriteriaReturnsOriginalOrder(t *testing.T) {
	list := sampleList()
	got := Apply(list, Criteria{})

	assert.Len(t, got, 3)
	assert.Equal(t, "Миграция в облако", got[0].Title)
	assert.Equal(t, "Рост продаж", got[1].Title)
	assert.Equal(t, "AI в поддержке", got[2].Title)
}

func TestApply_IndustryFilter(t *testing.T) {
	got := Apply(sampleList(), Criteria{Industry: "Technology"})

	assert.Len(t, got, 2)
	for _, item := range got {
		assert.Equal(t, "Technology", item.Company.Industry)
	}
}

func TestApply_IndustryAndTagsAreConjunctive(t *testing.T) {
	got := Apply(sampleList(), Criteria{Industry: "Technology", Tags: []string{"ai"}})

	assert.Len(t, got, 1)
	assert.Equal(t, "AI в поддержке", got[0].Title)
}

func TestApply_TagOverlapIsEnough(t *testing.T) {
	// Достаточно одного общего тега
	got := Apply(sampleList(), Criteria{Tags: []string{"crm", "nonexistent"}})

	assert.Len(t, got, 1)
	assert.Equal(t, "Рост продаж", got[0].Title)
}

func TestApply_QueryMatchesCompanyNameOnly(t *testing.T) {
	// Запрос не встречается в заголовке, но встречается в имени компании
	got := Apply(sampleList(), Criteria{Query: "northwind"})

	assert.Len(t, got, 1)
	assert.Equal(t, "Рост продаж", got[0].Title)
}

func TestApply_QueryMatchesExcerptAndTags(t *testing.T) {
	byExcerpt := Apply(sampleList(), Criteria{Query: "kubernetes"})
	assert.Len(t, byExcerpt, 1)
	assert.Equal(t, "Миграция в облако", byExcerpt[0].Title)

	byTag := Apply(sampleList(), Criteria{Query: "support"})
	assert.Len(t, byTag, 1)
	assert.Equal(t, "AI в поддержке", byTag[0].Title)
}

func TestApply_QueryIsANDedWithFilters(t *testing.T) {
	got := Apply(sampleList(), Criteria{Industry: "Retail", Query: "acme"})
	assert.Empty(t, got)
}

func TestApply_SizeAndLocation(t *testing.T) {
	got := Apply(sampleList(), Criteria{Size: "200-500", Location: "Moscow"})

	assert.Len(t, got, 1)
	assert.Equal(t, "Northwind", got[0].Company.Name)
}

func TestApply_DoesNotMutateSource(t *testing.T) {
	list := sampleList()
	_ = Apply(list, Criteria{Industry: "Technology"})

	assert.Len(t, list, 3)
	assert.Equal(t, "Рост продаж", list[1].Title)
}
