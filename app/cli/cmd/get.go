package cmd

import (
	"context"
	"log"
	"os"

	"github.com/qiuchen001/kubeflow-ground/app/cli/cmd/client"
	"github.com/qiuchen001/kubeflow-ground/app/cli/cmd/common"
	"github.com/spf13/cobra"
)

// NewGetCommand returns a command printing the state of the last run of a pipeline.
func NewGetCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "get PIPELINE_ID",
		Short: "get the state of the last run of a pipeline",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cli, err := client.New()
			if err != nil {
				log.Fatal(err)
			}
			p, state, err := common.Fullstate(context.Background(), cli, args[0])
			if err != nil {
				log.Fatal(err)
			}
			common.PrintRun(os.Stdout, p, state, common.PrintOptions{})
		},
	}
	return command
}
