package cmd

import (
	"context"
	"log"
	"time"

	tm "github.com/buger/goterm"
	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/app/cli/cmd/client"
	"github.com/qiuchen001/kubeflow-ground/app/cli/cmd/common"
	"github.com/spf13/cobra"
)

type watchOpts struct {
	interval time.Duration // --interval
}

// NewWatchCommand returns a command refreshing the state of a run until it finishes.
func NewWatchCommand() *cobra.Command {
	var watchOpts watchOpts
	command := &cobra.Command{
		Use:   "watch PIPELINE_ID",
		Short: "watch the last run of a pipeline until it completes",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := watch(context.Background(), args[0], watchOpts.interval); err != nil {
				log.Fatal(err)
			}
		},
	}
	command.Flags().DurationVarP(&watchOpts.interval, "interval", "i", time.Second, "refresh interval")
	return command
}

func watch(ctx context.Context, id string, interval time.Duration) error {
	cli, err := client.New()
	if err != nil {
		return errors.Wrap(err, "cannot create controller client")
	}
	tm.Clear()
	for {
		p, state, err := common.Fullstate(ctx, cli, id)
		if err != nil {
			return errors.Wrapf(err, "cannot get state of pipeline %s", id)
		}
		done, msg := common.WatchDone(id, state)
		if msg != "" {
			tm.Println(msg)
			tm.Flush()
			return nil
		}
		tm.MoveCursor(1, 1)
		common.PrintRun(tm.Screen, p, state, common.PrintOptions{})
		tm.Flush()
		if done {
			return nil
		}
		time.Sleep(interval)
	}
}
