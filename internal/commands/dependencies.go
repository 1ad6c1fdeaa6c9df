package commands

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/atlasai/zelig/internal/config"
	"github.com/atlasai/zelig/internal/conversation"
	"github.com/atlasai/zelig/internal/guide"
	"github.com/atlasai/zelig/internal/telemetry"
	"github.com/atlasai/zelig/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewGuide builds the guide service for the effective configuration.
	NewGuide func(cfg config.Config) (guide.Guide, error)

	// InitTelemetry sets up logging, tracing and metrics.
	InitTelemetry func(ctx context.Context, opts telemetry.Options) (*telemetry.Telemetry, error)

	// RunChat runs the interactive terminal UI until the user quits.
	RunChat func(conv *conversation.Controller, opts tui.Options) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewGuide: func(cfg config.Config) (guide.Guide, error) {
			return guide.New(cfg, nil)
		},
		InitTelemetry: telemetry.Init,
		RunChat:       tui.RunChat,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	}
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or fallback when w is not a terminal.
func terminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
