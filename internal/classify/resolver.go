package classify

import (
	"fmt"

	"docscan/internal/doctype"
	"docscan/internal/session"
)

// decision assigns a terminal code and a human-readable note to a group.
type decision struct {
	code doctype.ShortCode
	note string
}

// Resolve normalizes and reclassifies the GCN-family pages of one
// completed folder. The input is never mutated; the returned slice has
// the same length and order. Non-GCN pages pass through untouched, and
// no returned page carries the pending GCN tag.
func Resolve(files []session.FileResult) []session.FileResult {
	out := make([]session.FileResult, len(files))
	copy(out, files)

	// Step 1: fold terminal variants back to the pending tag so a whole
	// folder is always decided from the same evidence.
	var gcnIndexes []int
	for i := range out {
		if doctype.IsTerminalGCN(out[i].ShortCode) {
			if out[i].OriginalShortCode == "" {
				out[i].OriginalShortCode = out[i].ShortCode
			}
			out[i].ShortCode = doctype.CodeGCN
		}
		if out[i].ShortCode == doctype.CodeGCN {
			gcnIndexes = append(gcnIndexes, i)
		}
	}
	if len(gcnIndexes) == 0 {
		return out
	}

	groups := buildGroups(out, gcnIndexes)

	colors := distinctColors(groups)
	_, hasRed := colors[doctype.ColorRed]
	_, hasPink := colors[doctype.ColorPink]

	var decisions map[*group]decision
	if hasRed && hasPink {
		decisions = decideMixedColor(groups)
	} else {
		decisions = decideDateOnly(groups)
	}

	for _, g := range groups {
		d := decisions[g]
		for _, idx := range g.indexes {
			out[idx].ShortCode = d.code
			out[idx].DocType = string(d.code)
			out[idx].ClassificationNote = d.note
		}
	}
	return out
}

// decideMixedColor handles folders containing both red and pink covers.
// Red groups: the earliest dated one is the original (GCNC), later dated
// ones are reissues (GCNM), undated ones default to GCNC. Pink groups are
// always GCNM. Unknown-color groups default to GCNM.
func decideMixedColor(groups []*group) map[*group]decision {
	decisions := make(map[*group]decision, len(groups))

	var redGroups []*group
	for _, g := range groups {
		switch g.color {
		case doctype.ColorRed:
			redGroups = append(redGroups, g)
		case doctype.ColorPink:
			decisions[g] = decision{code: doctype.CodeGCNM, note: "pink cover"}
		default:
			decisions[g] = decision{
				code: doctype.CodeGCNM,
				note: "unknown cover color, defaulted to newer format",
			}
		}
	}

	datedReds := sortedByDate(redGroups)
	for i, g := range datedReds {
		if i == 0 {
			decisions[g] = decision{
				code: doctype.CodeGCNC,
				note: fmt.Sprintf("red cover, earliest issue date %s", g.parsed.Original),
			}
			continue
		}
		decisions[g] = decision{
			code: doctype.CodeGCNM,
			note: fmt.Sprintf("red cover issued after %s", datedReds[0].parsed.Original),
		}
	}
	for _, g := range redGroups {
		if g.parsed == nil {
			decisions[g] = decision{
				code: doctype.CodeGCNC,
				note: "red cover without issue date, defaulted to original format",
			}
		}
	}
	return decisions
}

// decideDateOnly handles folders with a single dominant color (or no
// color evidence). With two or more dated groups the earliest is GCNC and
// everything else GCNM. A lone group is GCNC. Otherwise the first group
// in discovery order is GCNC and the rest GCNM; this fallback for
// insufficient evidence is deliberate and must stay stable.
func decideDateOnly(groups []*group) map[*group]decision {
	decisions := make(map[*group]decision, len(groups))
	dated := sortedByDate(groups)

	switch {
	case len(dated) >= 2:
		earliest := dated[0]
		for _, g := range groups {
			if g == earliest {
				decisions[g] = decision{
					code: doctype.CodeGCNC,
					note: fmt.Sprintf("earliest issue date %s of %d dated groups", earliest.parsed.Original, len(dated)),
				}
				continue
			}
			decisions[g] = decision{
				code: doctype.CodeGCNM,
				note: fmt.Sprintf("issued after %s", earliest.parsed.Original),
			}
		}
	case len(groups) == 1:
		decisions[groups[0]] = decision{
			code: doctype.CodeGCNC,
			note: "single certificate group, defaulted to original format",
		}
	default:
		for i, g := range groups {
			if i == 0 {
				decisions[g] = decision{
					code: doctype.CodeGCNC,
					note: "insufficient date evidence, first group defaulted to original format",
				}
				continue
			}
			decisions[g] = decision{
				code: doctype.CodeGCNM,
				note: "insufficient date evidence, defaulted to newer format",
			}
		}
	}
	return decisions
}
