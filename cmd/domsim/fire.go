package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/heathj/domsim/dispatcher"
	"github.com/heathj/domsim/dom"
	"github.com/heathj/domsim/event"
)

type fireOptions struct {
	selector string
	kind     string
	x, y     float64
	key      string
	code     string
	prevent  string
	stop     string
}

func fireCmd() *cobra.Command {
	var o fireOptions

	cmd := &cobra.Command{
		Use:   "fire <file>",
		Short: "Fire an event at an element and trace its propagation",
		Long: `Fire an event at the first element matching --selector. A tracing
listener is attached in both phases to every node on the propagation path,
and each invocation is printed in the order it happened.

Examples:
  domsim fire page.html --selector button --kind click --x 10 --y 20
  domsim fire page.html --selector input --kind keydown --key a --code KeyA
  domsim fire page.html --selector button --kind click --stop "#app"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := load(args[0])
			if err != nil {
				return err
			}
			return fire(cmd.OutOrStdout(), d, o)
		},
	}

	cmd.Flags().StringVar(&o.selector, "selector", "", "CSS selector of the target element")
	cmd.Flags().StringVar(&o.kind, "kind", "click", "Event kind")
	cmd.Flags().Float64Var(&o.x, "x", 0, "Pointer clientX")
	cmd.Flags().Float64Var(&o.y, "y", 0, "Pointer clientY")
	cmd.Flags().StringVar(&o.key, "key", "", "Keyboard key, makes the event a keyboard event")
	cmd.Flags().StringVar(&o.code, "code", "", "Keyboard code")
	cmd.Flags().StringVar(&o.prevent, "prevent", "", "Call preventDefault on the matching elements")
	cmd.Flags().StringVar(&o.stop, "stop", "", "Call stopPropagation on the matching elements")
	_ = cmd.MarkFlagRequired("selector")

	return cmd
}

func fire(w io.Writer, d *dispatcher.Dispatcher, o fireOptions) error {
	target, err := d.QuerySelector(nil, o.selector)
	if err != nil {
		return err
	}
	if target == nil {
		return errors.Errorf("no element matches %q", o.selector)
	}
	prevent, err := matching(d, o.prevent)
	if err != nil {
		return err
	}
	stop, err := matching(d, o.stop)
	if err != nil {
		return err
	}

	for n := target; n != nil; n = n.Parent() {
		n := n
		trace := func(e *event.Event) {
			fmt.Fprintf(w, "%-10s %s\n", e.Phase, describe(n))
			if prevent[n] {
				e.PreventDefault()
			}
			if stop[n] {
				e.StopPropagation()
			}
		}
		if _, err := d.On(n, o.kind, trace, event.Capture()); err != nil {
			return err
		}
		if _, err := d.On(n, o.kind, trace); err != nil {
			return err
		}
	}

	opts := []event.Option{event.WithPointer(o.x, o.y)}
	if o.key != "" || o.code != "" {
		opts = []event.Option{event.WithKeyboard(event.KeyboardData{Key: o.key, Code: o.code})}
	}
	ev, err := d.Fire(target, o.kind, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "defaultPrevented: %t\n", ev.DefaultPrevented())
	return nil
}

func matching(d *dispatcher.Dispatcher, sel string) (map[*dom.Node]bool, error) {
	set := map[*dom.Node]bool{}
	if sel == "" {
		return set, nil
	}
	l, err := d.QuerySelectorAll(nil, sel)
	if err != nil {
		return nil, err
	}
	for _, n := range l {
		set[n] = true
	}
	return set, nil
}

// describe renders a node the way devtools labels it, e.g. button#submit.todo.
func describe(n *dom.Node) string {
	if !n.IsElement() {
		return n.NodeName()
	}
	s := n.TagName()
	if id := n.Id(); id != "" {
		s += "#" + id
	}
	for _, c := range n.ClassList() {
		s += "." + c
	}
	return s
}
