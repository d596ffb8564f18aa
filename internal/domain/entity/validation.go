package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field length limits enforced before anything reaches the network.
const (
	MaxListNameLength       = 100
	MaxArticleNameLength    = 200
	MaxArticleContentLength = 200
)

// NormalizeName trims a required name and checks its length in runes.
// Returns a ValidationError if the trimmed name is empty or too long.
func NormalizeName(field, raw string, maxLen int) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &ValidationError{Field: field, Message: "is required"}
	}
	if utf8.RuneCountInString(name) > maxLen {
		return "", &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d characters", maxLen),
		}
	}
	return name, nil
}

// NormalizeContent trims optional free text; blank input becomes the empty string.
func NormalizeContent(field, raw string, maxLen int) (string, error) {
	content := strings.TrimSpace(raw)
	if utf8.RuneCountInString(content) > maxLen {
		return "", &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d characters", maxLen),
		}
	}
	return content, nil
}

// ValidateID checks that an entity id is positive.
func ValidateID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Message: "must be positive"}
	}
	return nil
}

// ValidateMembership checks an article's list ids: at least one, all positive.
// The returned slice is deduplicated in first-seen order.
func ValidateMembership(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, &ValidationError{Field: "listIds", Message: "must contain at least the originating list"}
	}
	for _, id := range ids {
		if err := ValidateID("listIds", id); err != nil {
			return nil, err
		}
	}
	return NormalizeListIDs(ids), nil
}
