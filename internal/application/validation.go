package application

import (
	"fmt"
	"strconv"
	"strings"

	"splitmark/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "manifestPath" -> "manifest path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"collection":   "collection",
		"volume":       "volume",
		"manifestPath": "manifest path",
		"sidecarPath":  "sidecar path",
		"marks":        "title page marks",
		"split":        "split index",
		"titles":       "title count",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateHasMarks rejects an empty mark set; nothing can be exported or split without one
func ValidateHasMarks(marks domain.Marks) error {
	if marks.Len() == 0 {
		return &ValidationError{
			Field:   "marks",
			Message: "no title pages marked",
		}
	}
	return nil
}

// ValidateMarksInRange checks every marked page against the loaded manifest's page count
func ValidateMarksInRange(marks domain.Marks, pageCount int) error {
	for _, pm := range marks.Snapshot() {
		if pm.Page < 0 || pm.Page >= pageCount {
			return &ValidationError{
				Field:   "marks",
				Message: fmt.Sprintf("title page %d is outside the manifest (%d pages)", pm.Page, pageCount),
			}
		}
	}
	return nil
}

// ValidateTitleCount rejects negative title counts
func ValidateTitleCount(titles int) error {
	if titles < 0 {
		return &ValidationError{
			Field:   "titles",
			Message: fmt.Sprintf("title count must be zero or positive, got: %d", titles),
		}
	}
	return nil
}

// ValidateSplitIndex checks that a split index refers to one of n derived splits
func ValidateSplitIndex(split, n int) error {
	if n == 0 {
		return &ValidationError{
			Field:   "split",
			Message: "no splits derived yet",
		}
	}
	if split < 0 || split >= n {
		return &ValidationError{
			Field:   "split",
			Message: fmt.Sprintf("split index out of range: %d (have %d)", split, n),
		}
	}
	return nil
}

// ParseMarkSpec parses "P" or "P:N" into a page mark; a bare page carries one title
func ParseMarkSpec(spec string) (domain.PageMark, error) {
	pageStr, countStr, hasCount := strings.Cut(strings.TrimSpace(spec), ":")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		return domain.PageMark{}, &ValidationError{
			Field:   "marks",
			Message: fmt.Sprintf("invalid page in mark %q", spec),
		}
	}

	titles := 1
	if hasCount {
		titles, err = strconv.Atoi(countStr)
		if err != nil {
			return domain.PageMark{}, &ValidationError{
				Field:   "marks",
				Message: fmt.Sprintf("invalid title count in mark %q", spec),
			}
		}
		if err := ValidateTitleCount(titles); err != nil {
			return domain.PageMark{}, err
		}
	}
	return domain.PageMark{Page: page, Titles: titles}, nil
}

// ParseMarkSpecs builds a Marks from a list of "P[:N]" specs; later specs overwrite earlier ones
func ParseMarkSpecs(specs []string) (domain.Marks, error) {
	marks := domain.NewMarks()
	for _, spec := range specs {
		pm, err := ParseMarkSpec(spec)
		if err != nil {
			return domain.Marks{}, err
		}
		marks, err = marks.Mark(pm.Page, pm.Titles)
		if err != nil {
			return domain.Marks{}, err
		}
	}
	return marks, nil
}
