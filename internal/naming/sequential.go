package naming

import (
	"fmt"

	"docscan/internal/doctype"
	"docscan/internal/session"
)

const (
	// inheritedFloor is the minimum confidence assigned to an inherited page.
	inheritedFloor = 0.75
	// inheritedDecay discounts the carried-forward confidence per hop.
	inheritedDecay = 0.95
)

// LastKnown is the accumulator threaded through a folder's iteration. It
// is updated synchronously in iteration order via Advance, never shared
// across concurrent callers.
type LastKnown struct {
	ShortCode  doctype.ShortCode
	DocType    string
	Confidence float64
}

// Resolve overwrites an UNKNOWN page with the preceding confident
// classification. The input is returned unchanged when the page already
// carries a usable code, the page failed recognition, or nothing precedes
// it. Pure function: no I/O, idempotent for identical inputs.
func Resolve(raw session.FileResult, last *LastKnown) session.FileResult {
	if raw.IsError() || last == nil || raw.ShortCode != doctype.CodeUnknown {
		return raw
	}

	resolved := raw
	resolved.OriginalShortCode = raw.ShortCode
	resolved.OriginalConfidence = raw.Confidence
	resolved.ShortCode = last.ShortCode
	resolved.DocType = last.DocType
	resolved.Confidence = max(inheritedFloor, last.Confidence*inheritedDecay)
	resolved.AppliedSequential = true
	resolved.Reasoning = fmt.Sprintf(
		"unclassified page inherited %s from the preceding document (engine confidence %.2f)",
		last.ShortCode, raw.Confidence,
	)
	return resolved
}

// Advance folds a resolved page into the accumulator: a page with a
// usable code becomes the new anchor for the next call, anything else
// leaves the accumulator untouched.
func Advance(last *LastKnown, resolved session.FileResult) *LastKnown {
	if resolved.ShortCode == doctype.CodeUnknown || resolved.IsError() {
		return last
	}
	return &LastKnown{
		ShortCode:  resolved.ShortCode,
		DocType:    resolved.DocType,
		Confidence: resolved.Confidence,
	}
}
