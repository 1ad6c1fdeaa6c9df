package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/atlasai/zelig/internal/errors"
)

// formatErrorMessage renders a command error with a hint for the common
// setup mistakes.
func formatErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	switch {
	case errors.Is(err, apierrors.ErrUnknownBackend):
		sb.WriteString(dimStyle.Render("\n  Hint: run 'zelig backends' to list the available backends"))
	case errors.Is(err, apierrors.ErrMissingAPIKey):
		sb.WriteString(dimStyle.Render("\n  Hint: set GEMINI_API_KEY or OPENAI_API_KEY, or add the key to your config"))
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check that your API key is valid"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check the endpoint with 'zelig config' and your connection"))
	}

	return sb.String()
}
