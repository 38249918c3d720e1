package event

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heathj/domsim/dom"
)

// chain builds document > root > middle > target.
func chain(t *testing.T) (*dom.Tree, *dom.Node, *dom.Node, *dom.Node) {
	t.Helper()
	tr := dom.NewTree()
	root, middle, target := tr.CreateElement("section"), tr.CreateElement("div"), tr.CreateElement("button")
	require.NoError(t, tr.AppendChild(tr.Document(), root))
	require.NoError(t, tr.AppendChild(root, middle))
	require.NoError(t, tr.AppendChild(middle, target))
	return tr, root, middle, target
}

type recorder []string

func (r *recorder) listener(name string) Listener {
	return func(e *Event) {
		*r = append(*r, fmt.Sprintf("%s:%s", name, e.Phase))
	}
}

func TestBubbleOrder(t *testing.T) {
	tr, root, middle, target := chain(t)
	b := NewBus()
	var got recorder
	b.AddListener(root.ID(), "click", got.listener("root"))
	b.AddListener(middle.ID(), "click", got.listener("middle"))
	b.AddListener(target.ID(), "click", got.listener("target"))

	ev, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, recorder{"target:at-target", "middle:bubbling", "root:bubbling"}, got)
	assert.Equal(t, []dom.NodeID{target.ID(), middle.ID(), root.ID(), tr.Document().ID()}, ev.ComposedPath())
	assert.Equal(t, None, ev.Phase)
	assert.Zero(t, ev.CurrentTarget)
}

func TestCaptureThenBubble(t *testing.T) {
	tr, root, middle, target := chain(t)
	b := NewBus()
	var got recorder
	doc := tr.Document().ID()
	b.AddListener(doc, "click", got.listener("doc-bubble"))
	b.AddListener(doc, "click", got.listener("doc-capture"), Capture())
	b.AddListener(root.ID(), "click", got.listener("root-capture"), Capture())
	b.AddListener(target.ID(), "click", got.listener("target-bubble"))
	b.AddListener(target.ID(), "click", got.listener("target-capture"), Capture())
	b.AddListener(middle.ID(), "click", got.listener("middle-bubble"))

	_, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, recorder{
		"doc-capture:capturing",
		"root-capture:capturing",
		"target-capture:at-target",
		"target-bubble:at-target",
		"middle-bubble:bubbling",
		"doc-bubble:bubbling",
	}, got)
}

func TestStopPropagationAtNodeBoundary(t *testing.T) {
	tr, root, middle, target := chain(t)
	b := NewBus()
	var got recorder
	b.AddListener(root.ID(), "click", got.listener("root"))
	b.AddListener(middle.ID(), "click", func(e *Event) {
		e.StopPropagation()
		got = append(got, "middle-1")
	})
	b.AddListener(middle.ID(), "click", got.listener("middle-2"))
	b.AddListener(target.ID(), "click", got.listener("target"))

	ev, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, recorder{"target:at-target", "middle-1", "middle-2:bubbling"}, got)
	assert.True(t, ev.PropagationStopped())
}

func TestStopImmediatePropagation(t *testing.T) {
	tr, root, _, target := chain(t)
	b := NewBus()
	var got recorder
	b.AddListener(target.ID(), "click", func(e *Event) {
		got = append(got, "first")
		e.StopImmediatePropagation()
	})
	b.AddListener(target.ID(), "click", got.listener("second"))
	b.AddListener(root.ID(), "click", got.listener("root"))

	_, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, recorder{"first"}, got)
}

func TestStopDuringCaptureSkipsBubble(t *testing.T) {
	tr, root, _, target := chain(t)
	b := NewBus()
	var got recorder
	b.AddListener(root.ID(), "click", func(e *Event) {
		got = append(got, "root-capture")
		e.StopPropagation()
	}, Capture())
	b.AddListener(target.ID(), "click", got.listener("target"))

	_, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, recorder{"root-capture"}, got)
}

func TestRemoveListener(t *testing.T) {
	tr, _, _, target := chain(t)
	b := NewBus()
	var got recorder
	l1 := b.AddListener(target.ID(), "click", got.listener("L1"))
	b.AddListener(target.ID(), "click", got.listener("L2"))

	assert.False(t, b.RemoveListener(target.ID(), "keydown", l1, Bubbling), "kind must match")
	assert.False(t, b.RemoveListener(target.ID(), "click", l1, Capturing), "phase must match")
	assert.True(t, b.RemoveListener(target.ID(), "click", l1, Bubbling))
	assert.False(t, b.RemoveListener(target.ID(), "click", l1, Bubbling), "absent is a no-op")

	_, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, recorder{"L2:at-target"}, got)
}

func TestDuplicateRegistrationsBothRun(t *testing.T) {
	tr, _, _, target := chain(t)
	b := NewBus()
	calls := 0
	fn := func(*Event) { calls++ }
	b.AddListener(target.ID(), "click", fn)
	b.AddListener(target.ID(), "click", fn)
	assert.Equal(t, 2, b.Len(target.ID(), "click"))

	_, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Zero(t, b.AddListener(target.ID(), "click", nil))
}

func TestOnce(t *testing.T) {
	tr, _, _, target := chain(t)
	b := NewBus()
	calls := 0
	b.AddListener(target.ID(), "load", func(*Event) { calls++ }, Once())
	for i := 0; i < 3; i++ {
		_, err := b.Dispatch(tr, New("load", target.ID()))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
	assert.False(t, b.HasListeners(target.ID(), "load"))
}

func TestAlreadyDispatched(t *testing.T) {
	tr, _, _, target := chain(t)
	b := NewBus()
	calls := 0
	b.AddListener(target.ID(), "click", func(*Event) { calls++ })
	ev := New("click", target.ID())
	_, err := b.Dispatch(tr, ev)
	require.NoError(t, err)
	_, err = b.Dispatch(tr, ev)
	assert.True(t, errors.Is(err, ErrAlreadyDispatched))
	assert.Equal(t, 1, calls)
}

func TestUnknownTarget(t *testing.T) {
	tr, _, _, _ := chain(t)
	ev := New("click", dom.NodeID(999))
	_, err := NewBus().Dispatch(tr, ev)
	assert.True(t, errors.Is(err, dom.ErrNotFound))
	assert.False(t, ev.Dispatched(), "a failed dispatch leaves the event reusable")
}

func TestPathIsSnapshotted(t *testing.T) {
	tr, root, middle, target := chain(t)
	b := NewBus()
	var got recorder
	b.AddListener(target.ID(), "click", func(e *Event) {
		got = append(got, "target")
		// detach the target and move middle out of root mid-dispatch
		require.NoError(t, tr.Remove(target))
		require.NoError(t, tr.AppendChild(tr.Document(), middle))
	})
	b.AddListener(middle.ID(), "click", got.listener("middle"))
	b.AddListener(root.ID(), "click", got.listener("root"))

	_, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, recorder{"target", "middle:bubbling", "root:bubbling"}, got)
}

func TestListenerChangesDuringDispatch(t *testing.T) {
	tr, root, _, target := chain(t)
	b := NewBus()
	var got recorder
	var second ListenerID
	b.AddListener(target.ID(), "click", func(e *Event) {
		got = append(got, "first")
		b.RemoveListener(target.ID(), "click", second, Bubbling)
		b.AddListener(target.ID(), "click", got.listener("late"))
		b.AddListener(root.ID(), "click", got.listener("root-added"))
	})
	second = b.AddListener(target.ID(), "click", got.listener("second"))

	_, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, recorder{"first", "root-added:bubbling"}, got)
}

func TestReplaceKeepsPosition(t *testing.T) {
	tr, _, _, target := chain(t)
	b := NewBus()
	var got recorder
	id := b.AddListener(target.ID(), "click", got.listener("a"))
	b.AddListener(target.ID(), "click", got.listener("b"))
	assert.True(t, b.Replace(target.ID(), "click", id, got.listener("c")))

	_, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
	assert.Equal(t, recorder{"c:at-target", "b:at-target"}, got)
}

func TestRemoveAll(t *testing.T) {
	tr, _, _, target := chain(t)
	b := NewBus()
	b.AddListener(target.ID(), "click", func(*Event) { t.Fatal("removed listener ran") })
	b.AddListener(target.ID(), "keydown", func(*Event) { t.Fatal("removed listener ran") }, Capture())
	b.RemoveAll(target.ID())
	assert.False(t, b.HasListeners(target.ID(), "click"))
	_, err := b.Dispatch(tr, New("click", target.ID()))
	require.NoError(t, err)
}

func TestEventPayloads(t *testing.T) {
	tests := []struct {
		name   string
		ev     *Event
		check  func(*testing.T, *Event)
		cancel bool
	}{
		{"pointer", New("click", 1, WithPointer(10, 20)), func(t *testing.T, e *Event) {
			require.NotNil(t, e.Pointer)
			assert.Equal(t, 10.0, e.Pointer.ClientX)
			assert.Equal(t, 20.0, e.Pointer.ClientY)
			assert.Nil(t, e.Keyboard)
		}, true},
		{"keyboard", New("keydown", 1, WithKeyboard(KeyboardData{Key: "a", Code: "KeyA", KeyCode: 65})), func(t *testing.T, e *Event) {
			require.NotNil(t, e.Keyboard)
			assert.Equal(t, "KeyA", e.Keyboard.Code)
			assert.Nil(t, e.Pointer)
		}, true},
		{"not cancelable", New("load", 1, NotCancelable(), WithDetail(42)), func(t *testing.T, e *Event) {
			assert.Equal(t, 42, e.Detail)
		}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, tt.ev)
			tt.ev.PreventDefault()
			assert.Equal(t, tt.cancel, tt.ev.DefaultPrevented())
		})
	}
}
