package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// PermissionCheck verifies that rulecfg can rewrite the configuration file
// and that nobody else can.
type PermissionCheck struct {
	PermissionFixer

	// Paths are files to check. Missing files are skipped, but their parent
	// directories must be writable for rulecfg create to work.
	Paths []string
}

var (
	_ Check = (*PermissionCheck)(nil)
	_ Fixer = (*PermissionCheck)(nil)
)

// NewPermissionCheck creates a permission check for the given files.
func NewPermissionCheck(paths ...string) *PermissionCheck {
	return &PermissionCheck{Paths: paths}
}

// Name returns the unique identifier for this check.
func (c *PermissionCheck) Name() string {
	return "permissions"
}

// Category returns the grouping for this check.
func (c *PermissionCheck) Category() string {
	return "filesystem"
}

// Run executes the permission check and records fixable issues.
func (c *PermissionCheck) Run() *CheckResult {
	var issues []pathIssue
	for _, p := range c.Paths {
		issues = append(issues, c.checkFile(p)...)
	}
	c.setIssues(issues)
	return c.buildResult(issues, len(c.Paths))
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

func (c *PermissionCheck) checkFile(path string) []pathIssue {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return c.checkParent(filepath.Dir(path))
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Type:     "file",
			Problem:  fmt.Sprintf("cannot stat file: %v", err),
			Severity: SeverityError,
		}}
	}
	if info.IsDir() {
		return []pathIssue{{
			Path:     path,
			Type:     "file",
			Problem:  "expected file but found directory",
			Severity: SeverityError,
		}}
	}

	// Unix permission bits do not apply on Windows.
	if runtime.GOOS == "windows" {
		return nil
	}

	var issues []pathIssue
	perm := info.Mode().Perm()
	if perm&0o200 == 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "file",
			Problem:     "file is not writable by its owner; edits will fail",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod u+w " + path,
		})
	}
	if perm&0o002 != 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "file",
			Problem:     "file is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod o-w " + path,
		})
	}

	// Atomic writes replace the file, so its directory must be writable too.
	issues = append(issues, c.checkParent(filepath.Dir(path))...)
	return issues
}

func (c *PermissionCheck) checkParent(dir string) []pathIssue {
	info, err := os.Stat(dir)
	if err != nil {
		return []pathIssue{{
			Path:     dir,
			Type:     "directory",
			Problem:  fmt.Sprintf("cannot stat directory: %v", err),
			Severity: SeverityError,
		}}
	}
	if writable(dir) {
		return nil
	}
	return []pathIssue{{
		Path:        dir,
		Type:        "directory",
		Problem:     "directory is not writable",
		Severity:    SeverityWarning,
		Permissions: formatPermissions(info.Mode()),
		FixHint:     "chmod u+w " + dir,
	}}
}

// writable tests a directory by creating and removing a temp file.
func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".rulecfg-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

func (c *PermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("all %d path(s) have valid permissions", checked),
		}
	}

	status := SeverityPass
	for _, issue := range issues {
		status = max(status, issue.Severity)
	}

	issueDetails := make([]map[string]any, 0, len(issues))
	var fixHints []string
	fixable := false
	for _, issue := range issues {
		m := map[string]any{
			"path":     issue.Path,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			m["permissions"] = issue.Permissions
		}
		issueDetails = append(issueDetails, m)
		if issue.FixHint != "" {
			fixHints = append(fixHints, issue.FixHint)
		}
		fixable = fixable || issue.Fixable
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   status,
		Message:  fmt.Sprintf("found %d permission issue(s) across %d path(s)", len(issues), checked),
		Details: map[string]any{
			"checked_paths": checked,
			"issues":        issueDetails,
		},
		Fixable: fixable,
		FixHint: strings.Join(fixHints, "; "),
	}
}

// formatPermissions returns a human-readable permission string (e.g., "0644").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
