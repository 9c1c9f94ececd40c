package validation

import "strings"

// ValidateTitle requires a non-blank title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fieldError("title", "title is required")
	}
	return nil
}

// ValidateURL requires a non-blank url.
func ValidateURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return fieldError("url", "url is required")
	}
	return nil
}

// ValidateLikes rejects negative like counters.
func ValidateLikes(likes int) error {
	if likes < 0 {
		return fieldError("likes", "likes cannot be negative")
	}
	return nil
}
