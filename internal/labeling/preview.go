package labeling

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Previewer plays a clip before it is labeled.
type Previewer interface {
	Play(ctx context.Context, path string) error
}

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// FFplay plays clips with ffplay without opening a window.
type FFplay struct {
	command string
	run     CommandRunner
}

// NewFFplay returns a previewer invoking command.
func NewFFplay(command string) *FFplay {
	if strings.TrimSpace(command) == "" {
		command = "ffplay"
	}
	return &FFplay{command: command, run: defaultCommandRunner}
}

// WithCommandRunner replaces process execution for tests.
func (p *FFplay) WithCommandRunner(r CommandRunner) {
	if p != nil && r != nil {
		p.run = r
	}
}

// Play blocks until playback finishes.
func (p *FFplay) Play(ctx context.Context, path string) error {
	return p.run(ctx, p.command, "-nodisp", "-autoexit", "-loglevel", "quiet", path)
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
