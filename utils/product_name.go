package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"hitech-quotation-tool/models"
)

// MaxProductNameLength is the longest name the catalog accepts
const MaxProductNameLength = 35

var digitsOnlyRegex = regexp.MustCompile(`^\d+$`)

// NormalizeProductName upper-cases a typed name and clips it to MaxProductNameLength characters
func NormalizeProductName(input string) string {
	name := strings.ToUpper(input)
	if utf8.RuneCountInString(name) > MaxProductNameLength {
		name = string([]rune(name)[:MaxProductNameLength])
	}
	return strings.TrimSpace(name)
}

// ValidateProductName rejects names that must never reach the catalog.
// It performs no I/O.
func ValidateProductName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &models.ValidationError{Field: "name", Message: "product name is required"}
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxProductNameLength {
		return &models.ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("product name must be at most %d characters, got %d", MaxProductNameLength, n),
		}
	}
	if digitsOnlyRegex.MatchString(trimmed) {
		return &models.ValidationError{Field: "name", Message: "product name cannot be only numbers"}
	}
	return nil
}

// ResolveCategory picks the category for an add or bulk run.
// A new category name is used trimmed; otherwise the selected one must be present.
func ResolveCategory(selected, newName string, isNew bool) (string, error) {
	var category string
	if isNew {
		category = strings.TrimSpace(newName)
	} else {
		category = strings.TrimSpace(selected)
	}
	if category == "" {
		return "", &models.ValidationError{Field: "category", Message: models.ErrNoCategory.Error()}
	}
	return category, nil
}
