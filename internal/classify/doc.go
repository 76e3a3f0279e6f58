// Package classify resolves GCN-family certificate pages into their
// terminal variant codes. Pages tagged with the pending GCN code are
// grouped by cover color and issue date, then classified as GCNC (older
// red format) or GCNM (newer pink format) using color and date evidence.
// The resolver is a pure function over one folder's ordered results.
package classify
