package labeling

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"droneset/internal/clip"
	"droneset/internal/logging"
	"droneset/internal/metadata"
	"droneset/internal/session"
	"droneset/internal/textutil"
	"droneset/internal/timerange"
)

// Console asks the operator questions on a line-oriented terminal.
type Console struct {
	in      *bufio.Scanner
	out     io.Writer
	preview Previewer
	logger  *slog.Logger
}

// Option customizes a Console.
type Option func(*Console)

// WithPreview plays each clip with p before asking for its label.
func WithPreview(p Previewer) Option {
	return func(c *Console) {
		c.preview = p
	}
}

// WithLogger sets the logger used for preview failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		c.logger = logging.NewComponentLogger(logger, "labeling")
	}
}

// NewConsole reads answers from in and writes prompts to out.
func NewConsole(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logging.NewComponentLogger(nil, "labeling"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ session.Labeler = (*Console)(nil)
	_ session.Driver  = (*Console)(nil)
)

// MotorCount asks how many motors the drone in the recording has. The answer
// is returned as typed; naming normalizes it.
func (c *Console) MotorCount(ctx context.Context) (string, error) {
	return c.ask(ctx, "Enter motor count (2/4/6/8 or unknown): ")
}

// Label previews the clip and asks for its decision.
func (c *Console) Label(ctx context.Context, cl clip.Clip) (session.Decision, error) {
	fmt.Fprintf(c.out, "\nFile: %s\n", cl.Filename())
	c.play(ctx, cl.Path)

	drone, err := c.askYesNo(ctx, "  Drone present? (y/n): ")
	if err != nil {
		return session.Decision{}, err
	}
	if drone {
		quality, err := c.askQuality(ctx)
		if err != nil {
			return session.Decision{}, err
		}
		return session.DroneDecision(quality), nil
	}
	subtype, err := c.askSubtype(ctx)
	if err != nil {
		return session.Decision{}, err
	}
	return session.NoDroneDecision(subtype), nil
}

// NextRange asks for the next part of the recording to process. After the
// first part the operator is asked whether to continue at all.
func (c *Console) NextRange(ctx context.Context, totalMS int64, parts []session.Part) (timerange.TimeRange, bool, error) {
	if len(parts) > 0 {
		fmt.Fprintln(c.out, "\nProcessed so far:")
		for i, p := range parts {
			fmt.Fprintf(c.out, "  %d. %s (%d clips)\n", i+1, p.Range, p.ClipCount)
		}
		more, err := c.askYesNo(ctx, "Process another part of this recording? (y/n): ")
		if err != nil || !more {
			return timerange.TimeRange{}, false, err
		}
	}

	fmt.Fprintf(c.out, "Recording length: %s\n", time.Duration(totalMS)*time.Millisecond)
	for {
		start, err := c.ask(ctx, "  Start (M.S or minutes): ")
		if err != nil {
			return timerange.TimeRange{}, false, err
		}
		end, err := c.ask(ctx, "  End (M.S or minutes, blank for end of recording): ")
		if err != nil {
			return timerange.TimeRange{}, false, err
		}
		r, err := timerange.Parse(start, end)
		if err != nil {
			fmt.Fprintf(c.out, "  Invalid range: %v\n", err)
			continue
		}
		return r, true, nil
	}
}

// RangeRejected tells the operator why a range was discarded.
func (c *Console) RangeRejected(r timerange.TimeRange, err error) {
	fmt.Fprintf(c.out, "  Range %s rejected: %v\n", r, err)
}

func (c *Console) play(ctx context.Context, path string) {
	if c.preview == nil {
		return
	}
	if err := c.preview.Play(ctx, path); err != nil {
		fmt.Fprintln(c.out, "(Audio preview unavailable)")
		c.logger.Debug("preview failed", logging.String("path", path), logging.Error(err))
	}
}

func (c *Console) askYesNo(ctx context.Context, prompt string) (bool, error) {
	for {
		answer, err := c.ask(ctx, prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		fmt.Fprintln(c.out, "  Please type only 'y' or 'n'.")
	}
}

func (c *Console) askQuality(ctx context.Context) (int, error) {
	for {
		answer, err := c.ask(ctx, "  Quality (1-5): ")
		if err != nil {
			return 0, err
		}
		if q, convErr := strconv.Atoi(answer); convErr == nil && q >= 1 && q <= 5 {
			return q, nil
		}
		fmt.Fprintln(c.out, "  Please type a number 1-5.")
	}
}

func (c *Console) askSubtype(ctx context.Context) (metadata.Subtype, error) {
	subtypes := metadata.Subtypes()
	fmt.Fprintln(c.out, "  What is it?")
	for i, s := range subtypes {
		fmt.Fprintf(c.out, "    %d) %s\n", i+1, textutil.DisplayLabel(string(s)))
	}
	for {
		answer, err := c.ask(ctx, fmt.Sprintf("  Subtype (1-%d or name): ", len(subtypes)))
		if err != nil {
			return "", err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil {
			if n >= 1 && n <= len(subtypes) {
				return subtypes[n-1], nil
			}
		} else if s, parseErr := metadata.ParseSubtype(answer); parseErr == nil {
			return s, nil
		}
		fmt.Fprintf(c.out, "  Please choose 1-%d or a listed name.\n", len(subtypes))
	}
}

func (c *Console) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}
