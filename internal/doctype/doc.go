// Package doctype defines the closed vocabulary of document-type codes
// produced by recognition and the page metadata attached to each result.
package doctype
