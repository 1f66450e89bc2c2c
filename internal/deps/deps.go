package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Requirement names a helper binary the booth shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the outcome of resolving one Requirement. Command holds the
// resolved path when the binary was found.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries resolves each requirement in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(req))
	}
	return results
}

// MissingRequired filters statuses down to the unavailable, non-optional ones.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}

func check(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, detail := resolve(status.Command)
	if detail != "" {
		status.Detail = detail
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

// resolve returns the executable path for binary, or a detail explaining why
// it cannot be run. Values with a path separator are checked in place.
func resolve(binary string) (string, string) {
	if !strings.ContainsRune(binary, filepath.Separator) {
		path, err := exec.LookPath(binary)
		if err != nil {
			return "", fmt.Sprintf("binary %q not found", binary)
		}
		return path, ""
	}
	info, err := os.Stat(binary)
	switch {
	case err != nil:
		return "", fmt.Sprintf("binary %q not found", binary)
	case !isExecutable(info):
		return "", fmt.Sprintf("binary %q is not executable", binary)
	}
	return binary, ""
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
