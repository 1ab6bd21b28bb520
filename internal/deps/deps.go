package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Requirement defines an external tool the converter relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a tool.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
// For every resolvable binary the version string is probed as well, so callers
// can surface one version line per tool.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		if version, err := Probe(ctx, resolved); err == nil {
			status.Version = version
		} else {
			status.Detail = fmt.Sprintf("version probe failed: %v", err)
		}
		results = append(results, status)
	}
	return results
}

// Probe runs `<binary> -version` and returns the first output line. FFmpeg
// family tools report versions on stdout with this spelling; the returned
// string is never empty on success.
func Probe(ctx context.Context, binary string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return "", fmt.Errorf("probe: empty binary")
	}
	cmd := commandContext(ctx, binary, "-version")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", binary, err)
	}
	line, _, _ := strings.Cut(string(output), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("probe %s: empty version output", binary)
	}
	return line, nil
}
