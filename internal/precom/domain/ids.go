package domain

import (
	"fmt"
	"time"
)

// NewProjectID generates a project id from the wall clock, matching the
// "project-<unix-millis>" convention used by existing stored data.
func NewProjectID(now time.Time) string {
	return fmt.Sprintf("project-%d", now.UnixMilli())
}

// NewActivityID generates an activity id. seq disambiguates ids minted
// within the same millisecond, as happens during bulk imports.
func NewActivityID(now time.Time, seq int) string {
	return fmt.Sprintf("activity-%d-%d", now.UnixMilli(), seq)
}
