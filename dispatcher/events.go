package dispatcher

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/heathj/domsim/dom"
	"github.com/heathj/domsim/event"
)

// On is addEventListener. Pass event.Capture() to listen during the
// capturing phase and event.Once() to run at most once.
func (d *Dispatcher) On(n *dom.Node, kind string, fn event.Listener, opts ...event.ListenerOption) (event.ListenerID, error) {
	if !d.tree.Owns(n) {
		return 0, errors.Wrap(dom.ErrNotFound, "add listener")
	}
	if fn == nil {
		return 0, nil
	}
	id := d.bus.AddListener(n.ID(), kind, d.counted(kind, fn), opts...)
	d.log.WithFields(logrus.Fields{"method": "On", "kind": kind}).Debugf("[EVENT]: listener %d on node %d", id, n.ID())
	return id, nil
}

// Off is removeEventListener. phase must be event.Capturing for listeners
// registered with event.Capture() and event.Bubbling otherwise. Removing a
// listener that is not registered does nothing.
func (d *Dispatcher) Off(n *dom.Node, kind string, id event.ListenerID, phase event.Phase) error {
	if !d.tree.Owns(n) {
		return errors.Wrap(dom.ErrNotFound, "remove listener")
	}
	if d.bus.RemoveListener(n.ID(), kind, id, phase) {
		d.log.WithFields(logrus.Fields{"method": "Off", "kind": kind}).Debugf("[EVENT]: listener %d off node %d", id, n.ID())
	}
	return nil
}

// SetHandler is the on<kind> property of n: one bubbling listener slot per
// kind. Setting it again swaps the callback without moving it in the
// invocation order; a nil fn clears it.
func (d *Dispatcher) SetHandler(n *dom.Node, kind string, fn event.Listener) error {
	if !d.tree.Owns(n) {
		return errors.Wrap(dom.ErrNotFound, "set handler")
	}
	k := handlerKey{n.ID(), kind}
	h, ok := d.handlers[k]
	switch {
	case fn == nil:
		if ok {
			d.bus.RemoveListener(n.ID(), kind, h.id, event.Bubbling)
			delete(d.handlers, k)
		}
	case ok && d.bus.Replace(n.ID(), kind, h.id, d.counted(kind, fn)):
		d.handlers[k] = handler{h.id, fn}
	default:
		d.handlers[k] = handler{d.bus.AddListener(n.ID(), kind, d.counted(kind, fn)), fn}
	}
	return nil
}

// Handler returns the callback set with SetHandler, or nil. A handler whose
// listener was removed through Off or the Bus reads as nil.
func (d *Dispatcher) Handler(n *dom.Node, kind string) event.Listener {
	if !d.tree.Owns(n) {
		return nil
	}
	k := handlerKey{n.ID(), kind}
	h, ok := d.handlers[k]
	if !ok {
		return nil
	}
	if !d.bus.Has(n.ID(), kind, h.id) {
		delete(d.handlers, k)
		return nil
	}
	return h.fn
}

// Fire builds an event of the given kind aimed at n and dispatches it.
func (d *Dispatcher) Fire(n *dom.Node, kind string, opts ...event.Option) (*event.Event, error) {
	if !d.tree.Owns(n) {
		return nil, errors.Wrapf(dom.ErrNotFound, "fire %s", kind)
	}
	return d.Dispatch(event.New(kind, n.ID(), opts...))
}

// Dispatch runs ev through its propagation path. The path of a detached
// target ends at the root of its subtree. An unknown target yields
// dom.ErrNotFound and leaves ev undispatched.
func (d *Dispatcher) Dispatch(ev *event.Event) (*event.Event, error) {
	if ev == nil {
		return nil, errors.Wrap(dom.ErrInvalidTarget, "dispatch: nil event")
	}
	ev, err := d.bus.Dispatch(d.tree, ev)
	if err != nil {
		return ev, err
	}
	path := ev.ComposedPath()
	d.metrics.dispatched.WithLabelValues(ev.Kind).Inc()
	d.metrics.pathLength.Observe(float64(len(path)))
	d.log.WithFields(logrus.Fields{
		"method": "Dispatch",
		"kind":   ev.Kind,
		"target": ev.Target,
		"path":   path,
	}).Debugf("[EVENT]: prevented=%t stopped=%t", ev.DefaultPrevented(), ev.PropagationStopped())
	return ev, nil
}

func (d *Dispatcher) counted(kind string, fn event.Listener) event.Listener {
	c := d.metrics.invocations.WithLabelValues(kind)
	return func(e *event.Event) {
		c.Inc()
		fn(e)
	}
}
