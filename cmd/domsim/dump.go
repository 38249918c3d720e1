package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/heathj/domsim/dom"
)

func dumpCmd() *cobra.Command {
	var selector string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the node tree of an HTML file",
		Long: `Print the node tree of an HTML file, one node per line with the id it
was assigned. Use --selector to print only the subtree of the first match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := load(args[0])
			if err != nil {
				return err
			}
			n := d.Document()
			if selector != "" {
				if n, err = d.QuerySelector(nil, selector); err != nil {
					return err
				}
				if n == nil {
					return errors.Errorf("no element matches %q", selector)
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), dom.Dump(n))
			return nil
		},
	}

	cmd.Flags().StringVarP(&selector, "selector", "s", "", "Only dump the subtree of the first match")

	return cmd
}
