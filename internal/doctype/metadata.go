package doctype

import "strings"

// DateConfidence describes how much of an issue date the engine read.
type DateConfidence string

const (
	DateFull     DateConfidence = "full"      // DD/MM/YYYY
	DatePartial  DateConfidence = "partial"   // MM/YYYY
	DateYearOnly DateConfidence = "year_only" // YYYY
)

// ParseDateConfidence normalizes a raw confidence tag. Unrecognized
// values return "" so malformed metadata degrades to the undated path.
func ParseDateConfidence(value string) DateConfidence {
	switch DateConfidence(strings.ToLower(strings.TrimSpace(value))) {
	case DateFull:
		return DateFull
	case DatePartial:
		return DatePartial
	case DateYearOnly:
		return DateYearOnly
	default:
		return ""
	}
}

// Cover colors reported by the engine for certificate pages.
const (
	ColorRed     = "red"
	ColorOrange  = "orange"
	ColorPink    = "pink"
	ColorUnknown = "unknown"
)

// CanonicalColor lowercases and trims a reported color, folding orange
// into red (faded red covers scan as orange) and everything empty into
// "unknown".
func CanonicalColor(value string) string {
	color := strings.ToLower(strings.TrimSpace(value))
	switch color {
	case "":
		return ColorUnknown
	case ColorOrange:
		return ColorRed
	default:
		return color
	}
}

// PageMetadata carries the certificate evidence attached to one page.
// It is populated once at ingestion; resolvers read it but never write it.
type PageMetadata struct {
	Color               string         `json:"color,omitempty"`
	IssueDate           string         `json:"issue_date,omitempty"`
	IssueDateConfidence DateConfidence `json:"issue_date_confidence,omitempty"`
}

// HasColor reports whether the page carries a usable cover color.
func (m PageMetadata) HasColor() bool {
	return CanonicalColor(m.Color) != ColorUnknown
}

// HasIssueDate reports whether the page carries any issue-date text.
func (m PageMetadata) HasIssueDate() bool {
	return strings.TrimSpace(m.IssueDate) != ""
}
