// Package session defines the resumable scan-session data model and its
// SQLite-backed store. A session records the ordered folder tasks of one
// batch scan plus every recognized page, so a multi-hour scan survives
// interruption and resumes at the first pending folder.
package session
