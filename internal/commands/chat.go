package commands

import (
	"github.com/spf13/cobra"

	"github.com/atlasai/zelig/internal/guide"
	"github.com/atlasai/zelig/internal/render"
	"github.com/atlasai/zelig/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive guide",
		Long: `Start the interactive Marrakech guide.

Type your question and press Enter. Tab switches between the guide,
the itinerary planner, the safety panel and the notebook.
Type 'exit', 'quit', or press Esc to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, flags)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, flags *globalFlags) (err error) {
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

	return deps.RunChat(s.conv, tui.Options{
		Backend:  guide.NameOf(s.guide),
		Renderer: render.New(render.FromConfig(s.cfg.Markdown)),
		Context:  ctx,
	})
}
