package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/qiuchen001/kubeflow-ground/pkg/compiler"
	"github.com/spf13/cobra"
)

type compileOpts struct {
	components string // --components
	output     string // --output
	scheduler  string // --scheduler
	format     string // --format
}

// NewCompileCommand returns a command compiling a pipeline file locally, without a controller.
func NewCompileCommand() *cobra.Command {
	var opts compileOpts
	command := &cobra.Command{
		Use:   "compile PIPELINE_FILE",
		Short: "compile a pipeline into a workflow document",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var p api.Pipeline
			if err := readJSON(args[0], &p); err != nil {
				log.Fatal(err)
			}
			var components []api.Component
			if opts.components != "" {
				if err := readJSON(opts.components, &components); err != nil {
					log.Fatal(err)
				}
			}

			var copts []compiler.Option
			if opts.scheduler != "" {
				copts = append(copts, compiler.WithSchedulerName(opts.scheduler))
			}
			doc, err := compiler.New(copts...).Compile(context.Background(), p, compiler.NewCatalogMap(components...))
			if err != nil {
				log.Fatal(err)
			}
			b, err := doc.Render(compiler.Format(opts.format))
			if err != nil {
				log.Fatal(err)
			}

			if opts.output == "" {
				fmt.Print(string(b))
				return
			}
			if err := ioutil.WriteFile(opts.output, b, 0644); err != nil {
				log.Fatal(errors.Wrapf(err, "cannot write file %s", opts.output))
			}
		},
	}
	command.Flags().StringVarP(&opts.components, "components", "c", "", "JSON file holding the list of components used by the pipeline")
	command.Flags().StringVarP(&opts.output, "output", "o", "", "write the document to this file instead of stdout")
	command.Flags().StringVar(&opts.format, "format", string(compiler.FormatWorkflow), "output format: workflow, pipelinespec or document")
	command.Flags().StringVar(&opts.scheduler, "scheduler", "", "scheduler name set on volcano enabled tasks")
	return command
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Errorf("cannot open file %s", path)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "cannot decode file %s", path)
	}
	return nil
}
