package cli

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/radreport/radreport/internal/client"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List report templates offered by the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, _ := cmd.Flags().GetString("server")

			list, err := client.NewClient(server, nil).ListTemplates(cmd.Context())
			if err != nil {
				pterm.Fprint(cmd.ErrOrStderr(), pterm.Error.Sprintln(err.Error()))
				return reportedError{err: err}
			}
			if len(list) == 0 {
				pterm.Fprint(cmd.OutOrStdout(), pterm.Warning.Sprintln("No templates available."))
				return nil
			}

			data := pterm.TableData{{"Name", "Title", "Source"}}
			for _, t := range list {
				data = append(data, []string{t.Name, t.Title, t.Source})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			pterm.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
