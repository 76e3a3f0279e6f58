package classify

import (
	"strconv"
	"strings"

	"docscan/internal/doctype"
)

// ParsedDate is a totally ordered representation of an issue date.
// Smaller Comparable means earlier. Missing components default to 1.
type ParsedDate struct {
	Comparable int
	Original   string
}

// ParseIssueDate converts an issue-date string into its comparable form
// according to how much of the date the engine read:
//
//	full      DD/MM/YYYY -> YYYY*10000 + MM*100 + DD
//	partial   MM/YYYY    -> YYYY*10000 + MM*100 + 1
//	year_only YYYY       -> YYYY*10000 + 100 + 1
//
// Malformed input or an unrecognized confidence kind returns nil; unknown
// dates are never compared numerically.
func ParseIssueDate(dateStr string, kind doctype.DateConfidence) *ParsedDate {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}

	switch kind {
	case doctype.DateFull:
		parts := strings.Split(dateStr, "/")
		if len(parts) != 3 {
			return nil
		}
		day, okD := parseComponent(parts[0], 1, 31)
		month, okM := parseComponent(parts[1], 1, 12)
		year, okY := parseYear(parts[2])
		if !okD || !okM || !okY {
			return nil
		}
		return &ParsedDate{Comparable: year*10000 + month*100 + day, Original: dateStr}
	case doctype.DatePartial:
		parts := strings.Split(dateStr, "/")
		if len(parts) != 2 {
			return nil
		}
		month, okM := parseComponent(parts[0], 1, 12)
		year, okY := parseYear(parts[1])
		if !okM || !okY {
			return nil
		}
		return &ParsedDate{Comparable: year*10000 + month*100 + 1, Original: dateStr}
	case doctype.DateYearOnly:
		year, ok := parseYear(dateStr)
		if !ok {
			return nil
		}
		return &ParsedDate{Comparable: year*10000 + 100 + 1, Original: dateStr}
	default:
		return nil
	}
}

func parseComponent(value string, min, max int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}

func parseYear(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if len(value) != 4 {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1000 {
		return 0, false
	}
	return n, true
}
