package event

import (
	"github.com/pkg/errors"

	"github.com/heathj/domsim/dom"
)

// Listener is called with the event being dispatched. It may mutate the
// tree or the bus; the dispatch in progress keeps the path it started with.
type Listener func(*Event)

// ListenerID identifies a registration. Go func values cannot be compared,
// so removal goes through the id handed out by AddListener.
type ListenerID uint64

// PathResolver yields the propagation path for a target, target first and
// root last.
type PathResolver interface {
	PropagationPath(target dom.NodeID) ([]dom.NodeID, error)
}

type ListenerOption func(*registration)

// Capture registers the listener for the capturing phase instead of the
// bubbling one.
func Capture() ListenerOption {
	return func(r *registration) { r.phase = Capturing }
}

// Once removes the listener right before it first runs.
func Once() ListenerOption {
	return func(r *registration) { r.once = true }
}

type registration struct {
	id      ListenerID
	fn      Listener
	phase   Phase
	once    bool
	removed bool
}

type listenerKey struct {
	node dom.NodeID
	kind string
}

// Bus holds the listeners of every node, keyed by node and event kind, in
// registration order. Registering the same func twice yields two
// registrations that both run.
//
// A Bus is not safe for concurrent use.
type Bus struct {
	nextID    ListenerID
	listeners map[listenerKey][]*registration
}

func NewBus() *Bus {
	return &Bus{listeners: map[listenerKey][]*registration{}}
}

// AddListener registers fn for kind events on node and returns its id. A nil
// fn registers nothing and yields 0.
func (b *Bus) AddListener(node dom.NodeID, kind string, fn Listener, opts ...ListenerOption) ListenerID {
	if fn == nil {
		return 0
	}
	b.nextID++
	r := &registration{id: b.nextID, fn: fn, phase: Bubbling}
	for _, o := range opts {
		o(r)
	}
	k := listenerKey{node, kind}
	b.listeners[k] = append(b.listeners[k], r)
	return r.id
}

// RemoveListener removes the registration with the given id if it was made
// for the same node, kind and phase. It reports whether one was removed.
func (b *Bus) RemoveListener(node dom.NodeID, kind string, id ListenerID, phase Phase) bool {
	k := listenerKey{node, kind}
	for _, r := range b.listeners[k] {
		if r.id == id && r.phase == phase {
			b.remove(k, r)
			return true
		}
	}
	return false
}

// Replace swaps the callback of an existing registration, keeping its
// place in the invocation order.
func (b *Bus) Replace(node dom.NodeID, kind string, id ListenerID, fn Listener) bool {
	if fn == nil {
		return false
	}
	for _, r := range b.listeners[listenerKey{node, kind}] {
		if r.id == id {
			r.fn = fn
			return true
		}
	}
	return false
}

// RemoveAll drops every registration on node.
func (b *Bus) RemoveAll(node dom.NodeID) {
	for k, regs := range b.listeners {
		if k.node != node {
			continue
		}
		for _, r := range regs {
			r.removed = true
		}
		delete(b.listeners, k)
	}
}

func (b *Bus) remove(k listenerKey, r *registration) {
	r.removed = true
	regs := b.listeners[k]
	for i := range regs {
		if regs[i] == r {
			regs = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(regs) == 0 {
		delete(b.listeners, k)
		return
	}
	b.listeners[k] = regs
}

// Has reports whether the registration with the given id is still live.
func (b *Bus) Has(node dom.NodeID, kind string, id ListenerID) bool {
	for _, r := range b.listeners[listenerKey{node, kind}] {
		if r.id == id {
			return true
		}
	}
	return false
}

func (b *Bus) HasListeners(node dom.NodeID, kind string) bool {
	return b.Len(node, kind) > 0
}

// Len counts the registrations for node and kind across both phases.
func (b *Bus) Len(node dom.NodeID, kind string) int {
	return len(b.listeners[listenerKey{node, kind}])
}

// Dispatch runs ev through the capture, target and bubble phases along the
// path r yields for ev.Target, and returns it for inspection.
//
// https://dom.spec.whatwg.org/#concept-event-dispatch
func (b *Bus) Dispatch(r PathResolver, ev *Event) (*Event, error) {
	if ev.dispatched {
		return ev, errors.Wrapf(ErrAlreadyDispatched, "%s event on node %d", ev.Kind, ev.Target)
	}
	path, err := r.PropagationPath(ev.Target)
	if err != nil {
		return ev, errors.Wrapf(err, "dispatch %s", ev.Kind)
	}
	ev.dispatched = true
	ev.path = path
	defer func() {
		ev.Phase = None
		ev.CurrentTarget = 0
	}()

	for i := len(path) - 1; i >= 0; i-- {
		if ev.propagationStopped {
			return ev, nil
		}
		phase := Capturing
		if i == 0 {
			phase = AtTarget
		}
		b.invoke(path[i], ev, Capturing, phase)
	}
	for i := 0; i < len(path); i++ {
		if ev.propagationStopped {
			return ev, nil
		}
		phase := Bubbling
		if i == 0 {
			phase = AtTarget
		}
		b.invoke(path[i], ev, Bubbling, phase)
	}
	return ev, nil
}

// invoke runs the listeners of one node registered for the listening phase.
// The list is copied first: listeners added meanwhile wait for the next
// dispatch, removed ones are skipped.
func (b *Bus) invoke(node dom.NodeID, ev *Event, listening, phase Phase) {
	k := listenerKey{node, ev.Kind}
	regs := append([]*registration(nil), b.listeners[k]...)
	ev.CurrentTarget = node
	ev.Phase = phase
	for _, r := range regs {
		if r.removed || r.phase != listening {
			continue
		}
		if r.once {
			b.remove(k, r)
		}
		r.fn(ev)
		if ev.immediatePropagationStopped {
			return
		}
	}
}
