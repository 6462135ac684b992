package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radreport/radreport/internal/client"
	"github.com/radreport/radreport/internal/client/terminal"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report from findings",
		Long: `Generate submits findings and a template selector to /generate_report.
Empty findings or template are sent as-is; the server applies its defaults.`,
		RunE: runGenerate,
	}

	cmd.Flags().StringP("findings", "f", "", "imaging findings text")
	cmd.Flags().String("findings-file", "", "read findings from a file ('-' for stdin)")
	cmd.Flags().StringP("template", "t", "", "template name or literal template text")
	cmd.Flags().Bool("copy", false, "copy the generated report to the clipboard")
	cmd.Flags().Bool("plain", false, "print the report without decoration")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	server, _ := cmd.Flags().GetString("server")
	findings, _ := cmd.Flags().GetString("findings")
	findingsFile, _ := cmd.Flags().GetString("findings-file")
	template, _ := cmd.Flags().GetString("template")
	copyReport, _ := cmd.Flags().GetBool("copy")
	plain, _ := cmd.Flags().GetBool("plain")

	if findingsFile != "" {
		if findings != "" {
			return errors.New("--findings and --findings-file are mutually exclusive")
		}
		text, err := readFindings(cmd.InOrStdin(), findingsFile)
		if err != nil {
			return err
		}
		findings = text
	}

	out := cmd.OutOrStdout()
	view := terminal.NewView(
		terminal.WithWriter(out),
		terminal.WithPlain(plain),
		terminal.WithSpinner(!plain),
	)
	controller := client.NewController(
		view,
		client.NewClient(server, nil),
		terminal.SystemClipboard{},
		terminal.NewAlerter(cmd.ErrOrStderr()),
	)

	ctx := cmd.Context()
	if err := controller.HandleSubmit(ctx, findings, template); err != nil {
		return reportedError{err: err}
	}
	if copyReport {
		// A failed copy has already been reported; the report itself succeeded.
		_ = controller.HandleCopy(ctx)
	}
	return nil
}

func readFindings(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read findings: %w", err)
	}
	return strings.TrimRight(string(b), "\n"), nil
}
