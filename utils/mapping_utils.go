package utils

import (
	"regexp"
	"sort"
	"strings"

	"hitech-quotation-tool/models"
)

var driveFileIDRegex = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// FormatImageURL maps Google Drive share links to an embeddable endpoint.
// Other URLs are returned unchanged.
func FormatImageURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}

	if strings.Contains(url, "drive.google.com") && strings.Contains(url, "/file/d/") {
		if m := driveFileIDRegex.FindStringSubmatch(url); len(m) == 2 {
			return "https://drive.google.com/thumbnail?id=" + m[1] + "&sz=w1000"
		}
	}

	// open?id= links
	if strings.Contains(url, "drive.google.com") && strings.Contains(url, "id=") {
		return strings.Replace(url, "open?", "uc?export=view&", 1)
	}

	return url
}

// UniqueCategories returns the distinct non-empty categories, sorted alphabetically
func UniqueCategories(products []models.Product) []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// FilterProducts performs the instant catalog search: a case-insensitive substring
// match on name, category and id. An empty query or "*" returns everything.
func FilterProducts(products []models.Product, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || q == "*" {
		return products
	}

	results := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.ID), q) {
			results = append(results, p)
		}
	}
	return results
}
