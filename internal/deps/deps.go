package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"droneset/internal/config"
)

// Requirement defines an external executable droneset relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the executables named in the tools configuration.
func Requirements(tools config.Tools) []Requirement {
	return []Requirement{
		{Name: "yt-dlp", Command: tools.YTDLP, Description: "Downloads remote recordings", Optional: true},
		{Name: "FFmpeg", Command: tools.FFmpeg, Description: "Converts recordings to 16 kHz mono WAV"},
		{Name: "FFplay", Command: tools.FFplay, Description: "Plays clips before labeling", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, Check(req))
	}
	return results
}

// Check evaluates a single requirement.
func Check(req Requirement) Status {
	cmd := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     cmd,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	if _, err := exec.LookPath(cmd); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}
	status.Available = true
	return status
}
