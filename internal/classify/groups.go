package classify

import (
	"sort"

	"docscan/internal/doctype"
	"docscan/internal/session"
)

// group is one (color, issueDate) evidence bucket of GCN-tagged pages.
// Groups keep their first-seen order; the insufficient-evidence fallback
// depends on it.
type group struct {
	color     string // canonical color, "unknown" when absent
	issueDate string // raw date string, "" when absent
	indexes   []int  // positions into the folder file list
	parsed    *ParsedDate
}

type groupKey struct {
	color string
	date  string
}

func buildGroups(files []session.FileResult, gcnIndexes []int) []*group {
	byKey := make(map[groupKey]*group)
	var groups []*group
	for _, idx := range gcnIndexes {
		meta := files[idx].Metadata
		key := groupKey{
			color: doctype.CanonicalColor(meta.Color),
			date:  meta.IssueDate,
		}
		g := byKey[key]
		if g == nil {
			g = &group{
				color:     key.color,
				issueDate: key.date,
				parsed:    ParseIssueDate(meta.IssueDate, meta.IssueDateConfidence),
			}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.indexes = append(g.indexes, idx)
	}
	return groups
}

// sortedByDate returns the dated subset of groups ordered earliest first.
// The sort is stable so equal dates keep discovery order.
func sortedByDate(groups []*group) []*group {
	dated := make([]*group, 0, len(groups))
	for _, g := range groups {
		if g.parsed != nil {
			dated = append(dated, g)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].parsed.Comparable < dated[j].parsed.Comparable
	})
	return dated
}

func distinctColors(groups []*group) map[string]struct{} {
	colors := make(map[string]struct{})
	for _, g := range groups {
		if g.color != doctype.ColorUnknown {
			colors[g.color] = struct{}{}
		}
	}
	return colors
}
