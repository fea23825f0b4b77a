package service

import (
	"strings"

	"studymate/internal/domain"
)

// ResolveCourse picks the progress record whose course name contains the
// given hint, case-insensitively. The first match in record order wins.
// An empty or unmatched hint falls back to the first record; nil when the
// student has no records at all.
func ResolveCourse(records []*domain.Progress, hint string) *domain.Progress {
	if len(records) == 0 {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(hint))
	if needle != "" {
		for _, p := range records {
			if strings.Contains(strings.ToLower(p.CourseName), needle) {
				return p
			}
		}
	}
	return records[0]
}
