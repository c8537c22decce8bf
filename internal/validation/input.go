package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinTitleLength              = 3
	MaxTitleLength              = 200
	MaxSubtitleLength           = 300
	MaxExcerptLength            = 500
	MinContentLength            = 10
	MaxContentLength            = 50000
	MinCompanyNameLength        = 1
	MaxCompanyNameLength        = 200
	MaxIndustryLength           = 100
	MaxLocationLength           = 100
	MaxCompanySizeLength        = 50
	MaxCompanyDescriptionLength = 2000
	MinQuoteLength              = 3
	MaxQuoteLength              = 2000
	MaxAuthorNameLength         = 100
	MaxAuthorPositionLength     = 150
	MaxTagLength                = 50
	MaxTagsCount                = 20
	MaxMetricsCount             = 20
	MaxMetricKeyLength          = 100
	MaxMetricValueLength        = 200
	MaxExternalLinkLength       = 500
	MinReadTime                 = 0
	MaxReadTime                 = 600
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateTitle проверяет заголовок кейса.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("заголовок кейса обязателен")
	}
	return ValidateLength("заголовок кейса", strings.TrimSpace(title), MinTitleLength, MaxTitleLength)
}

// ValidateSubtitle проверяет подзаголовок кейса.
func ValidateSubtitle(subtitle string) error {
	return ValidateLength("подзаголовок", strings.TrimSpace(subtitle), 0, MaxSubtitleLength)
}

// ValidateExcerpt проверяет краткое описание кейса.
func ValidateExcerpt(excerpt string) error {
	return ValidateLength("краткое описание", strings.TrimSpace(excerpt), 0, MaxExcerptLength)
}

// ValidateContent проверяет текст кейса.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("текст кейса обязателен")
	}
	return ValidateLength("текст кейса", strings.TrimSpace(content), MinContentLength, MaxContentLength)
}

// ValidateCompanyName проверяет название компании.
func ValidateCompanyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("название компании обязательно")
	}
	return ValidateLength("название компании", strings.TrimSpace(name), MinCompanyNameLength, MaxCompanyNameLength)
}

// ValidateIndustry проверяет отрасль компании.
func ValidateIndustry(industry string) error {
	if strings.TrimSpace(industry) == "" {
		return fmt.Errorf("отрасль компании обязательна")
	}
	return ValidateLength("отрасль компании", strings.TrimSpace(industry), 0, MaxIndustryLength)
}

// ValidateCompanyDescription проверяет описание компании.
func ValidateCompanyDescription(description string) error {
	return ValidateLength("описание компании", strings.TrimSpace(description), 0, MaxCompanyDescriptionLength)
}

// ValidateQuote проверяет текст отзыва.
func ValidateQuote(quote string) error {
	if strings.TrimSpace(quote) == "" {
		return fmt.Errorf("текст отзыва обязателен")
	}
	return ValidateLength("текст отзыва", strings.TrimSpace(quote), MinQuoteLength, MaxQuoteLength)
}

// ValidateAuthor проверяет автора отзыва.
func ValidateAuthor(name, position string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("имя автора отзыва обязательно")
	}
	if err := ValidateLength("имя автора", strings.TrimSpace(name), 0, MaxAuthorNameLength); err != nil {
		return err
	}
	return ValidateLength("должность автора", strings.TrimSpace(position), 0, MaxAuthorPositionLength)
}

// ValidateTags проверяет список тегов.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTagsCount {
		return fmt.Errorf("количество тегов не может превышать %d", MaxTagsCount)
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("тег не может быть пустым")
		}
		if err := ValidateLength("тег", tag, 0, MaxTagLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMetrics проверяет пары метрик кейса.
func ValidateMetrics(metrics map[string]string) error {
	if len(metrics) > MaxMetricsCount {
		return fmt.Errorf("количество метрик не может превышать %d", MaxMetricsCount)
	}
	for key, value := range metrics {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("название метрики не может быть пустым")
		}
		if err := ValidateLength("название метрики", key, 0, MaxMetricKeyLength); err != nil {
			return err
		}
		if err := ValidateLength("значение метрики", value, 0, MaxMetricValueLength); err != nil {
			return err
		}
	}
	return nil
}

// ValidateReadTime проверяет время чтения в минутах.
func ValidateReadTime(readTime int) error {
	if readTime < MinReadTime {
		return fmt.Errorf("время чтения не может быть отрицательным")
	}
	if readTime > MaxReadTime {
		return fmt.Errorf("время чтения не может превышать %d минут", MaxReadTime)
	}
	return nil
}

// ValidateExternalLink проверяет внешнюю ссылку (http/https).
func ValidateExternalLink(link string) error {
	if link == "" {
		return nil
	}

	if len(link) > MaxExternalLinkLength {
		return fmt.Errorf("ссылка не может быть длиннее %d символов", MaxExternalLinkLength)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("некорректный формат ссылки")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("ссылка должна начинаться с http:// или https://")
	}

	if parsed.Host == "" {
		return fmt.Errorf("ссылка должна содержать адрес сайта")
	}

	return nil
}
