package commands

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/statementform/internal/buildinfo"
	"github.com/cleared-dev/statementform/internal/config"
	"github.com/cleared-dev/statementform/internal/logging"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
}

func (o *globalOptions) logger(w io.Writer) *log.Logger {
	return logging.New(w, o.verbose)
}

func (o *globalOptions) config() (*config.Config, error) {
	return config.Resolve(o.configPath)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "statementform",
		Short:   "Send bank statements to the processing service and save the result",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newProcessCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newListCommand())

	return rootCmd
}
