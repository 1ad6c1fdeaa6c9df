// Package commands provides CLI commands for zelig.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlasai/zelig/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	backend  string
	endpoint string
	timeout  int
	debug    bool
}

// apply overrides cfg with the flags the user actually set.
func (f *globalFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = f.backend
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint = f.endpoint
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = f.timeout
	}
	if f.debug {
		cfg.Debug = true
	}
}

// NewRootCmd builds the command tree around deps.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "zelig",
		Short: "Your personal Marrakech guide in the terminal",
		Long: `zelig is a chat client for the Zelig Marrakech tourist guide.
Ask about the Medina, fair prices, riads or safety and get answers
from the configured guide backend.

Examples:
  zelig                                 Start the interactive guide
  zelig ask "Où manger un bon tajine ?"  Ask a single question
  echo "Prix d'un taxi ?" | zelig ask   Read the question from stdin
  zelig --backend gemini                Use the Gemini backend
  zelig config init                     Write the default configuration`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "zelig %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(cmd, deps, flags)
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&flags.backend, "backend", "b", "",
		fmt.Sprintf("Guide backend %v", config.AvailableBackends()))
	cmd.PersistentFlags().StringVarP(&flags.endpoint, "endpoint", "e", "", "Zelig backend URL")
	cmd.PersistentFlags().IntVarP(&flags.timeout, "timeout", "t", 0, "Request timeout in seconds (0 disables)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(
		newChatCmd(deps, flags),
		newAskCmd(deps, flags),
		newConfigCmd(deps),
		newBackendsCmd(deps, flags),
	)

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err))
		os.Exit(1)
	}
}
