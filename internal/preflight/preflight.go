// Package preflight validates the environment before a scan session
// starts: the recognition binary must be resolvable, at least one target
// folder must exist, and the data directory should have room for the
// session database.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"docscan/internal/config"
	"docscan/internal/fsutil"
)

// minFreeBytes is the free-space threshold below which a warning is raised.
const minFreeBytes = 500 * 1024 * 1024

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one preflight observation.
type Finding struct {
	Check    string
	Severity Severity
	Detail   string
}

// Result aggregates the findings of a preflight run.
type Result struct {
	Findings []Finding
}

// Fatal reports whether any finding blocks the scan from starting.
func (r Result) Fatal() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the blocking findings joined into one message.
func (r Result) Errors() string {
	var details []string
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			details = append(details, f.Detail)
		}
	}
	return strings.Join(details, "; ")
}

// Run executes all preflight checks against the configuration and the
// folders selected for scanning.
func Run(cfg *config.Config, folders []string) Result {
	var result Result
	result.add(checkBinary(cfg.Recognizer.Binary))
	result.add(checkFolders(folders)...)
	result.add(checkDiskSpace(cfg.Paths.DataDir))
	return result
}

func (r *Result) add(findings ...Finding) {
	for _, f := range findings {
		if f.Check != "" {
			r.Findings = append(r.Findings, f)
		}
	}
}

func checkBinary(binary string) Finding {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Finding{Check: "recognizer-binary", Severity: SeverityError, Detail: "no recognizer binary configured"}
	}
	if strings.ContainsRune(binary, os.PathSeparator) {
		if _, err := os.Stat(binary); err != nil {
			return Finding{Check: "recognizer-binary", Severity: SeverityError,
				Detail: fmt.Sprintf("recognizer binary %s not found", binary)}
		}
		return Finding{}
	}
	if _, err := exec.LookPath(binary); err != nil {
		return Finding{Check: "recognizer-binary", Severity: SeverityError,
			Detail: fmt.Sprintf("recognizer binary %q not found on PATH", binary)}
	}
	return Finding{}
}

func checkFolders(folders []string) []Finding {
	var findings []Finding
	valid := 0
	for _, folder := range folders {
		if fsutil.IsDir(folder) {
			valid++
			continue
		}
		findings = append(findings, Finding{Check: "folders", Severity: SeverityWarning,
			Detail: fmt.Sprintf("folder %s does not exist and will be skipped", folder)})
	}
	if valid == 0 {
		findings = append(findings, Finding{Check: "folders", Severity: SeverityError,
			Detail: "no valid folders to scan"})
	}
	return findings
}

func checkDiskSpace(dataDir string) Finding {
	var stat unix.Statfs_t
	if err := unix.Statfs(dataDir, &stat); err != nil {
		// Missing data dir gets created later; not a preflight concern.
		return Finding{}
	}
	free := stat.Bavail * uint64(stat.Bsize) //nolint:unconvert
	if free < minFreeBytes {
		return Finding{Check: "disk-space", Severity: SeverityWarning,
			Detail: fmt.Sprintf("only %d MB free under %s", free/(1024*1024), dataDir)}
	}
	return Finding{}
}
