package event

import (
	"time"

	"github.com/heathj/domsim/dom"
	"github.com/heathj/domsim/webidl"
)

type Phase uint8

// https://dom.spec.whatwg.org/#dom-event-eventphase
const (
	None Phase = iota
	Capturing
	AtTarget
	Bubbling
)

func (p Phase) String() string {
	switch p {
	case Capturing:
		return "capturing"
	case AtTarget:
		return "at-target"
	case Bubbling:
		return "bubbling"
	}
	return "none"
}

// PointerData is the payload of mouse and pointer events.
type PointerData struct {
	ClientX, ClientY float64
	Button           int
}

// KeyboardData is the payload of keydown, keyup and keypress.
type KeyboardData struct {
	Key     string // "a", "Enter"
	Code    string // physical key, "KeyA"
	KeyCode int    // legacy numeric code
}

// Event is a single dispatch of kind at Target. Pointer, Keyboard and
// Detail are set according to the kind of event; the rest stay nil.
//
// An Event is built right before dispatch and may be dispatched only once.
//
// https://dom.spec.whatwg.org/#interface-event
type Event struct {
	Kind          string
	Target        dom.NodeID
	CurrentTarget dom.NodeID
	Phase         Phase
	Cancelable    bool
	TimeStamp     webidl.DOMHighResTimeStamp

	Pointer  *PointerData
	Keyboard *KeyboardData
	Detail   any

	path                        []dom.NodeID
	propagationStopped          bool
	immediatePropagationStopped bool
	defaultPrevented            bool
	dispatched                  bool
}

// timeOrigin stands in for the page's time origin.
var timeOrigin = time.Now()

type Option func(*Event)

func WithPointer(clientX, clientY float64) Option {
	return func(e *Event) {
		e.Pointer = &PointerData{ClientX: clientX, ClientY: clientY}
	}
}

func WithKeyboard(k KeyboardData) Option {
	return func(e *Event) {
		e.Keyboard = &k
	}
}

func WithDetail(detail any) Option {
	return func(e *Event) {
		e.Detail = detail
	}
}

// NotCancelable makes PreventDefault a no-op.
func NotCancelable() Option {
	return func(e *Event) {
		e.Cancelable = false
	}
}

// New builds a cancelable event of the given kind aimed at target.
func New(kind string, target dom.NodeID, opts ...Option) *Event {
	e := &Event{
		Kind:       kind,
		Target:     target,
		Cancelable: true,
		TimeStamp:  webidl.Since(timeOrigin),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ComposedPath is the propagation path computed at dispatch, target first.
func (e *Event) ComposedPath() []dom.NodeID {
	return append([]dom.NodeID(nil), e.path...)
}

// StopPropagation keeps the event from reaching further nodes. Listeners
// still pending on the current node run.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// StopImmediatePropagation also skips the remaining listeners on the
// current node.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatePropagationStopped = true
}

func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

func (e *Event) DefaultPrevented() bool   { return e.defaultPrevented }
func (e *Event) PropagationStopped() bool { return e.propagationStopped }
func (e *Event) Dispatched() bool         { return e.dispatched }
