package doctype

import "strings"

// ShortCode is the working document-type tag attached to a recognized page.
type ShortCode string

const (
	// CodeGCN is the generic pending tag for the land-title certificate
	// family. It never survives folder classification: every GCN page is
	// resolved to CodeGCNC or CodeGCNM before results are persisted.
	CodeGCN ShortCode = "GCN"
	// CodeGCNC is the older red-cover certificate format.
	CodeGCNC ShortCode = "GCNC"
	// CodeGCNM is the newer pink-cover certificate format.
	CodeGCNM ShortCode = "GCNM"

	CodeCMND ShortCode = "CMND" // people's identity card
	CodeCCCD ShortCode = "CCCD" // citizen identity card
	CodeSHK  ShortCode = "SHK"  // household registration book
	CodeHDCN ShortCode = "HDCN" // transfer contract
	CodeDDK  ShortCode = "DDK"  // registration application
	CodeGKH  ShortCode = "GKH"  // marriage certificate
	CodeTLTD ShortCode = "TLTD" // cadastral map extract

	// CodeUnknown marks a page the engine could not classify.
	CodeUnknown ShortCode = "UNKNOWN"
	// CodeError marks a page whose recognition call failed outright.
	CodeError ShortCode = "ERROR"
)

var knownCodes = map[ShortCode]struct{}{
	CodeGCN:     {},
	CodeGCNC:    {},
	CodeGCNM:    {},
	CodeCMND:    {},
	CodeCCCD:    {},
	CodeSHK:     {},
	CodeHDCN:    {},
	CodeDDK:     {},
	CodeGKH:     {},
	CodeTLTD:    {},
	CodeUnknown: {},
	CodeError:   {},
}

// ParseShortCode normalizes a raw engine tag into a known ShortCode.
// Unrecognized tags collapse to CodeUnknown so downstream code only ever
// sees the closed vocabulary.
func ParseShortCode(value string) ShortCode {
	code := ShortCode(strings.ToUpper(strings.TrimSpace(value)))
	if code == "" {
		return CodeUnknown
	}
	if IsKnown(code) {
		return code
	}
	return CodeUnknown
}

// IsKnown reports whether the code belongs to the closed vocabulary.
func IsKnown(code ShortCode) bool {
	_, ok := knownCodes[code]
	return ok
}

// IsGCNFamily reports whether the code belongs to the land-title
// certificate family (pending or terminal).
func IsGCNFamily(code ShortCode) bool {
	return code == CodeGCN || code == CodeGCNC || code == CodeGCNM
}

// IsTerminalGCN reports whether the code is a resolved certificate variant.
func IsTerminalGCN(code ShortCode) bool {
	return code == CodeGCNC || code == CodeGCNM
}

// DisplayLabel returns the human-readable label for a code. Codes without
// a dedicated label display as themselves.
func DisplayLabel(code ShortCode) string {
	switch code {
	case CodeGCNC:
		return "GCN (bìa đỏ)"
	case CodeGCNM:
		return "GCN (bìa hồng)"
	case CodeUnknown:
		return "Không xác định"
	case CodeError:
		return "Lỗi nhận dạng"
	default:
		return string(code)
	}
}
