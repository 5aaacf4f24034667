package utils

import (
	"regexp"
	"strings"
)

var (
	extRegex     = regexp.MustCompile(`\.[^/.]+$`)
	unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// DeriveProductName turns an uploaded file name into a candidate product name:
// the last extension is removed and the rest is upper-cased.
// Example: "brass valve.PNG" -> "BRASS VALVE"
func DeriveProductName(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = extRegex.ReplaceAllString(base, "")
	return strings.ToUpper(strings.TrimSpace(base))
}

// SanitizeFileName strips every character outside [a-zA-Z0-9] and lower-cases the result
func SanitizeFileName(name string) string {
	return strings.ToLower(unsafeNameRe.ReplaceAllString(name, ""))
}

// CardFileName returns the download name of a rendered card
func CardFileName(productName string) string {
	name := SanitizeFileName(productName)
	if name == "" {
		name = "card"
	}
	return name + ".png"
}

// UploadFileName returns the asset name used on the image host for a product
func UploadFileName(productName string) string {
	return strings.ToLower(productName) + ".jpg"
}
