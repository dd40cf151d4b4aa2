package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/hexa/pkg/examples"
)

var exampleName string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one of the bundled example programs",
	Long: `Run a scenario from the examples catalog, e.g.

  hexa run --example ex07

Use "hexa examples" to list them.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if exampleName == "" {
			fatal("Error", errors.New("--example is required"))
		}
		if err := examples.Run(cmd.Context(), exampleName, cmd.OutOrStdout()); err != nil {
			fatal("Error running example", err)
		}
	},
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List the bundled example programs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, e := range examples.List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", e.Name, e.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(examplesCmd)
	runCmd.Flags().StringVarP(&exampleName, "example", "e", "", "Name of the example to run (ex00, ex01, ...)")
}
