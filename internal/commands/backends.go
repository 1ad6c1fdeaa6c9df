package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasai/zelig/internal/guide"
)

func newBackendsCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the available guide backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			for _, name := range guide.Backends() {
				marker := "  "
				if name == cfg.Backend {
					marker = "* "
				}
				fmt.Fprintf(deps.Stdout, "%s%s\n", marker, name)
			}
			return nil
		},
	}
}
