package cmd

import (
	"github.com/qiuchen001/kubeflow-ground/app/cli/cmd/client"
	"github.com/spf13/cobra"
)

// NewRootCommand returns a new instance of a kubeflow-ground command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "kfg",
		Short:        "kfg is the command line interface to kubeflow-ground",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&client.Server, "server", "s", "", "controller URL (defaults to $KFG_SERVER or "+client.DefaultServer+")")

	rootCmd.AddCommand(NewCompileCommand())
	rootCmd.AddCommand(NewSubmitCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewGetCommand())
	return rootCmd
}
