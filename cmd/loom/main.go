// Package main provides the Loom inference engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.0.1-dev"

var rootCmd = &cobra.Command{
	Use:     "loom",
	Short:   "Loom - execution preparation for CPU inference",
	Long:    "Loom lowers computation graphs and resolves per-node executors against the CPU implementation registry.",
	Version: version,
}

func main() {
	rootCmd.AddCommand(planCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
