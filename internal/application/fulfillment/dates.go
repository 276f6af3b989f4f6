package fulfillment

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate reads a free-form date in loc. Empty or unparseable input yields nil.
func ParseDate(raw string, loc *time.Location) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return nil
	}
	return &t
}

// StartOfDay returns 00:00:00 of t's calendar day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's calendar day
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// ParsePage reads a 1-based page number. Anything that is not a positive integer yields 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
