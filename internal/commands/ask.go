package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/atlasai/zelig/internal/conversation"
	"github.com/atlasai/zelig/internal/render"
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)
)

func newAskCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var rawFlag bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the guide a single question",
		Long: `Ask the guide a single question and print the answer.

The question is taken from the arguments, or from stdin when no
arguments are given. The answer is rendered as markdown when stdout
is a terminal and printed raw otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if question == "" && !isTerminal(deps.Stdin) {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				question = string(data)
			}
			question = strings.TrimSpace(question)
			if question == "" {
				return fmt.Errorf("question cannot be empty")
			}

			return runAsk(cmd, deps, flags, question, rawFlag || !isTerminal(deps.Stdout))
		},
	}

	cmd.Flags().BoolVarP(&rawFlag, "raw", "r", false, "Print the answer without formatting")
	return cmd
}

// runAsk runs one turn through a fresh controller. A guide failure is not a
// command error: the fallback reply is printed like any other answer.
func runAsk(cmd *cobra.Command, deps *Dependencies, flags *globalFlags, question string, raw bool) (err error) {
	ctx := commandContext(cmd)
	s, err := openSession(ctx, cmd, deps, flags)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	var spin *spinner
	if !raw && isTerminal(deps.Stderr) {
		spin = newSpinner(deps.Stderr, "Zelig réfléchit")
		spin.start()
	}

	reply, outcome, ok := s.conv.Ask(ctx, question)

	if spin != nil {
		settleSpinner(spin, outcome)
	}
	if !ok {
		return fmt.Errorf("question cannot be empty")
	}

	if raw {
		_, err = fmt.Fprintln(deps.Stdout, reply.Content)
		return err
	}

	width := terminalWidth(deps.Stdout, 80) - 4
	r := render.New(render.FromConfig(s.cfg.Markdown))
	rendered := r.RenderOrPlain(reply.Content, width-4)

	_, err = fmt.Fprintln(deps.Stdout, lipgloss.JoinVertical(
		lipgloss.Left,
		assistantLabelStyle.Render("✦ Zelig"),
		assistantBubbleStyle.Width(width).Render(rendered),
	))
	return err
}

// settleSpinner stops spin according to how the guide call ended.
func settleSpinner(spin *spinner, outcome conversation.Outcome) {
	if outcome.OK() {
		spin.stopWithSuccess("Réponse reçue")
		return
	}
	spin.stopWithError()
}
