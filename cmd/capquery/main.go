// Command capquery evaluates capability filters against a YAML catalog.
//
// Logging:
//   - The logger is built from the catalog's logging section
//   - Output goes to the command's stderr, results to stdout
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "capquery",
		Short:        "Query capability catalogs with LDAP-style filters",
		SilenceUsage: true,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	rootCmd.AddCommand(newParseCmd(), newQueryCmd(), newStatsCmd(), versionCmd)
	return rootCmd
}
