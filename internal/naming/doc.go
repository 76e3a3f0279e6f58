// Package naming carries the last confident classification forward onto
// adjacent UNKNOWN pages. Paper documents scan as runs of pages belonging
// to the same physical document, so an unclassified page most likely
// continues the document that preceded it.
package naming
