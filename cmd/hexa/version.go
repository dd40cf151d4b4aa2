package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/hexa"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hexa",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hexa version %s\n", strings.TrimSpace(hexa.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
