package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	hexalifecycle "github.com/aretw0/hexa/pkg/adapters/lifecycle"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print order changes as they happen",
	Long: `Watch the store for created, modified and deleted orders until interrupted.
The pattern is matched against the decimal order id ("1*" matches #1, #10, #123).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		inst := openInstance(cmd)
		defer inst.Close()

		src := hexalifecycle.NewSource(inst.Service, watchPattern, slog.Default())
		if err := src.Start(cmd.Context()); err != nil {
			fatal("Error starting watch", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching orders matching %q (Ctrl+C to stop)\n", watchPattern)
		for e := range src.Events() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", time.Now().Format(time.TimeOnly), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchPattern, "pattern", "p", "*", "Glob over order ids")
}
