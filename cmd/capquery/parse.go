package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/capset/filter"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <filter>",
		Short: "Parse a filter and print its normalized form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filter.Parse(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), f.String())
			return err
		},
	}
}
