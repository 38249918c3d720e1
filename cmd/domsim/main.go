package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/heathj/domsim/dispatcher"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		level  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "domsim",
		Short: "Load an HTML page into an in-memory DOM and fire events at it",
		Long: `domsim builds a DOM tree from an HTML file and lets you inspect it,
run CSS selectors against it and trace how an event propagates.

Examples:
  domsim dump index.html
  domsim query index.html "ul > li.done"
  domsim fire index.html --selector "#submit" --kind click --x 10 --y 20`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logrus.StandardLogger(), level, format)
		},
	}

	cmd.PersistentFlags().StringVar(&level, "log-level", "warning", "Log level (trace, debug, info, warning, error)")
	cmd.PersistentFlags().StringVar(&format, "log-format", "text", "Log format (text or json)")

	cmd.AddCommand(
		dumpCmd(),
		queryCmd(),
		fireCmd(),
	)

	return cmd
}

func setupLogging(l *logrus.Logger, level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "--log-level")
	}
	l.SetLevel(lvl)
	switch format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("--log-format: unknown format %q", format)
	}
	return nil
}

// load reads an HTML file into a Dispatcher.
func load(path string) (*dispatcher.Dispatcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := dispatcher.Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return d, nil
}
