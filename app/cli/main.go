package main

import (
	"os"

	"github.com/qiuchen001/kubeflow-ground/app/cli/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
