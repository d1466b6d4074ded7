package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/app/cli/cmd/client"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/spf13/cobra"
)

type submitOpts struct {
	file  string // --file
	watch bool   // --watch
}

// NewSubmitCommand returns a command running a pipeline stored on the controller.
// With --file, the pipeline is saved first.
func NewSubmitCommand() *cobra.Command {
	var submitOpts submitOpts
	command := &cobra.Command{
		Use:   "submit [PIPELINE_ID]",
		Short: "submit a pipeline run",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if (len(args) == 0) == (submitOpts.file == "") {
				log.Fatal(errors.New("either a pipeline id or --file must be given"))
			}
			cli, err := client.New()
			if err != nil {
				log.Fatal(err)
			}
			ctx := context.Background()

			var id string
			if submitOpts.file != "" {
				var p api.Pipeline
				if err := readJSON(submitOpts.file, &p); err != nil {
					log.Fatal(err)
				}
				created, err := cli.CreatePipeline(ctx, p)
				if err != nil {
					log.Fatal(err)
				}
				id = created.ID
			} else {
				id = args[0]
			}

			res, err := cli.Run(ctx, id)
			if err != nil {
				log.Fatal(err)
			}

			if submitOpts.watch {
				if err := watch(ctx, id, time.Second); err != nil {
					log.Fatal(err)
				}
			} else {
				fmt.Printf("Pipeline %s submitted with run ID %s\n", id, res.RunID)
			}
		},
	}
	command.Flags().StringVarP(&submitOpts.file, "file", "f", "", "save the pipeline of this JSON file before running it")
	command.Flags().BoolVarP(&submitOpts.watch, "watch", "w", false, "watch the run until it completes")

	return command
}
