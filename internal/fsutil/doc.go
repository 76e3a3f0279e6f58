// Package fsutil provides the filesystem discovery helpers the scan
// orchestrator relies on: listing candidate files and subfolders and
// recognizing scanned-page file types.
package fsutil
