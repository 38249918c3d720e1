package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func queryCmd() *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "query <file> <selector>",
		Short: "Print the elements matching a CSS selector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := load(args[0])
			if err != nil {
				return err
			}
			matches, err := d.QuerySelectorAll(nil, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if count {
				fmt.Fprintln(out, len(matches))
				return nil
			}
			for _, n := range matches {
				s, err := d.OuterHTML(n)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&count, "count", "c", false, "Print only the number of matches")

	return cmd
}
