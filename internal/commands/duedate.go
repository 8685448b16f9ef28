package commands

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var relativeDueRe = regexp.MustCompile(`^(\d+)\s*(day|week|month)s?$`)

// ResolveDueDate turns an extracted due phrase into a calendar date relative
// to now. ISO dates pass through; anything unrecognised is returned as is.
func ResolveDueDate(raw string, now time.Time) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "":
		return ""
	case "today":
		return now.Format(dateLayout)
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, v); err == nil {
		return v
	}
	m := relativeDueRe.FindStringSubmatch(v)
	if m == nil {
		return raw
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return raw
	}
	switch m[2] {
	case "day":
		return now.AddDate(0, 0, n).Format(dateLayout)
	case "week":
		return now.AddDate(0, 0, 7*n).Format(dateLayout)
	default:
		return now.AddDate(0, n, 0).Format(dateLayout)
	}
}
