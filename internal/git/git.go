package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Status contains git exposure information for one record file
type Status struct {
	IsRepo  bool
	Tracked bool
	Ignored bool
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// CheckRecordFile reports the git status of the record file at path,
// evaluated from the file's own directory.
func CheckRecordFile(path string) *Status {
	workDir, name := filepath.Split(path)
	if workDir == "" {
		workDir = "."
	}

	status := &Status{}
	if !IsGitRepo(workDir) {
		return status
	}

	status.IsRepo = true
	status.Tracked = IsTracked(workDir, name)
	status.Ignored = IsIgnored(workDir, name)

	return status
}

// Warning returns a user-facing warning for an exposed record file, or ""
// when there is nothing to report.
func (s *Status) Warning(path string) string {
	switch {
	case !s.IsRepo:
		return ""
	case s.Tracked:
		return fmt.Sprintf("warning: %s is tracked by git (run: git rm --cached %s)", path, path)
	case !s.Ignored:
		return fmt.Sprintf("warning: %s not in .gitignore (add to .gitignore)", path)
	default:
		return ""
	}
}
