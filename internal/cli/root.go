// Package cli holds the radreport command tree.
package cli

import (
	"errors"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	serverEnv     = "RADREPORT_SERVER"
	defaultServer = "http://localhost:5001"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "radreport",
		Short:         "radreport drafts radiology reports from imaging findings",
		Long:          `radreport sends free-text imaging findings and a report template to a radreport server and prints the generated report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	server := os.Getenv(serverEnv)
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringP("server", "s", server, "radreport server base URL (env "+serverEnv+")")

	root.AddCommand(newGenerateCmd(), newTemplatesCmd())
	return root
}

// reportedError marks a failure the command already rendered.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			pterm.Fprint(os.Stderr, pterm.Error.Sprintln(err.Error()))
		}
		os.Exit(1)
	}
}
