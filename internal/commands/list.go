package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/statementform/internal/selector"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [directory]",
		Short: "List statements the form accepts (" + selector.Accept + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			files, err := selector.Scan(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No spreadsheets in %s\n", dir)
				return nil
			}
			for _, f := range files {
				fmt.Fprintf(out, "%s\t%d bytes\n", f.Name, f.Size)
			}
			return nil
		},
	}
}
