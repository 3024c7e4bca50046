package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/staffdesk/internal/notify"
	"github.com/kingrea/staffdesk/internal/portal"
)

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drive feeds every message produced by cmd back into the controller and
// the sink until nothing is left, returning the navigations emitted.
func drive[T any](c *Controller[T], sink *notify.Sink, cmd tea.Cmd) []NavigateMsg {
	var navs []NavigateMsg
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		if sink != nil && sink.Update(msg) {
			continue
		}
		if nav, ok := msg.(NavigateMsg); ok {
			navs = append(navs, nav)
			continue
		}
		queue = append(queue, collect(c.Update(msg))...)
	}
	return navs
}

func fastConfig(sink *notify.Sink) Config {
	return Config{
		Name:                 "test",
		RedirectTo:           "/dashboard/supervisor",
		RedirectDelay:        time.Millisecond,
		NotificationDuration: time.Millisecond,
		Sink:                 sink,
	}
}

func loadOK(items ...string) LoadFunc[[]string] {
	return func(context.Context) ([]string, error) { return items, nil }
}

func TestLoadThenSubmitSuccessRedirectsOnce(t *testing.T) {
	sink := notify.New()
	c := New(loadOK("a", "b"), fastConfig(sink))
	require.Equal(t, PhaseIdle, c.Phase())

	navs := drive(c, sink, c.Start())
	require.Empty(t, navs)
	require.Equal(t, PhaseReady, c.Phase())
	data, ok := c.Data()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, data)

	calls := 0
	cmd, err := c.Submit(func(context.Context) portal.Result {
		calls++
		return portal.Succeeded(nil)
	})
	require.NoError(t, err)
	require.Equal(t, PhaseSubmitting, c.Phase())

	settled := collect(cmd)
	require.Len(t, settled, 1)
	next := c.Update(settled[0])
	require.Equal(t, PhaseRedirecting, c.Phase())
	n, visible := sink.Current()
	require.True(t, visible)
	assert.Equal(t, SuccessMessage, n.Message)
	assert.Equal(t, notify.VariantSuccess, n.Variant)

	navs = drive(c, sink, next)
	require.Len(t, navs, 1)
	assert.Equal(t, "/dashboard/supervisor", navs[0].Path)
	assert.True(t, navs[0].Outcome.OK())
	assert.Equal(t, PhaseDone, c.Phase())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Redirects())
	_, visible = sink.Current()
	assert.False(t, visible)
}

func TestSubmitFailureShowsGenericMessage(t *testing.T) {
	sink := notify.New()
	c := New(loadOK("a"), fastConfig(sink))
	drive(c, sink, c.Start())

	cmd, err := c.Submit(func(context.Context) portal.Result {
		return portal.Failed(errors.New("500 internal"))
	})
	require.NoError(t, err)
	next := c.Update(collect(cmd)[0])
	n, _ := sink.Current()
	assert.Equal(t, FailureMessage, n.Message)
	assert.Equal(t, notify.VariantError, n.Variant)

	navs := drive(c, sink, next)
	require.Len(t, navs, 1)
	assert.Equal(t, "/dashboard/supervisor", navs[0].Path)
	assert.False(t, navs[0].Outcome.OK())
	assert.Equal(t, 1, c.Redirects())
	res, settled := c.Result()
	require.True(t, settled)
	assert.EqualError(t, res.Cause, "500 internal")
}

func TestLoadFailureSkipsSelection(t *testing.T) {
	sink := notify.New()
	cfg := fastConfig(sink)
	cfg.LoadFailureRedirect = "/dashboard/7"
	c := New(func(context.Context) ([]string, error) {
		return nil, errors.New("unreachable")
	}, cfg)

	start := c.Start()
	loaded := collect(start)
	require.Len(t, loaded, 1)
	next := c.Update(loaded[0])
	require.Equal(t, PhaseRedirecting, c.Phase())
	n, _ := sink.Current()
	assert.Equal(t, FailureMessage, n.Message)

	_, err := c.Submit(func(context.Context) portal.Result { return portal.Succeeded(nil) })
	assert.ErrorIs(t, err, ErrNotReady)

	navs := drive(c, sink, next)
	require.Len(t, navs, 1)
	assert.Equal(t, "/dashboard/7", navs[0].Path)
	assert.Equal(t, 0, c.Submissions())
	assert.Equal(t, 1, c.Redirects())
}

func TestSecondSubmitIsRejectedWhileInFlight(t *testing.T) {
	c := New(loadOK("a"), fastConfig(nil))
	drive(c, nil, c.Start())

	calls := 0
	fn := func(context.Context) portal.Result {
		calls++
		return portal.Succeeded(nil)
	}
	first, err := c.Submit(fn)
	require.NoError(t, err)
	second, err := c.Submit(fn)
	assert.Nil(t, second)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	navs := drive(c, nil, first)
	require.Len(t, navs, 1)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Submissions())

	_, err = c.Submit(fn)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSubmitBeforeLoadIsRejected(t *testing.T) {
	c := New(loadOK(), fastConfig(nil))
	_, err := c.Submit(func(context.Context) portal.Result { return portal.Succeeded(nil) })
	assert.ErrorIs(t, err, ErrNotReady)
	c.Start()
	_, err = c.Submit(func(context.Context) portal.Result { return portal.Succeeded(nil) })
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestUnmountTurnsLateMessagesIntoNoOps(t *testing.T) {
	sink := notify.New()
	c := New(loadOK("a"), fastConfig(sink))
	drive(c, sink, c.Start())

	var sawCancel bool
	cmd, err := c.Submit(func(ctx context.Context) portal.Result {
		sawCancel = ctx.Err() != nil
		return portal.Failed(ctx.Err())
	})
	require.NoError(t, err)
	c.Unmount()

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.True(t, sawCancel)
	assert.Nil(t, c.Update(msgs[0]))
	assert.Equal(t, PhaseSubmitting, c.Phase())
	assert.Equal(t, 0, c.Redirects())
	_, visible := sink.Current()
	assert.False(t, visible)

	_, err = c.Submit(func(context.Context) portal.Result { return portal.Succeeded(nil) })
	assert.ErrorIs(t, err, ErrUnmounted)
	assert.Nil(t, c.Start())
}

func TestControllersIgnoreEachOthersMessages(t *testing.T) {
	a := New(loadOK("a"), fastConfig(nil))
	b := New(loadOK("b"), fastConfig(nil))
	msgs := collect(a.Start())
	b.Start()
	require.Len(t, msgs, 1)
	assert.Nil(t, b.Update(msgs[0]))
	assert.Equal(t, PhaseLoading, b.Phase())
	a.Update(msgs[0])
	assert.Equal(t, PhaseReady, a.Phase())
}

func TestNilLoadIsReadyImmediately(t *testing.T) {
	c := New[struct{}](nil, fastConfig(nil))
	drive(c, nil, c.Start())
	assert.Equal(t, PhaseReady, c.Phase())
}

func TestObserversSeeEveryTransition(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var seen []Transition
	c := New(loadOK("a"), fastConfig(nil),
		WithObserver(func(tr Transition) { seen = append(seen, tr) }),
		WithClock(func() time.Time { return fixed }),
	)
	drive(c, nil, c.Start())
	cmd, err := c.Submit(func(context.Context) portal.Result { return portal.Succeeded(nil) })
	require.NoError(t, err)
	drive(c, nil, cmd)

	want := []Phase{PhaseLoading, PhaseReady, PhaseSubmitting, PhaseSettled, PhaseRedirecting, PhaseDone}
	require.Len(t, seen, len(want))
	for i, tr := range seen {
		assert.Equal(t, want[i], tr.To)
		assert.Equal(t, "test", tr.Controller)
		assert.Equal(t, fixed, tr.At)
	}
	assert.Equal(t, PhaseIdle, seen[0].From)
}

func TestPhaseBusy(t *testing.T) {
	assert.True(t, PhaseLoading.Busy())
	assert.True(t, PhaseSubmitting.Busy())
	assert.False(t, PhaseReady.Busy())
	assert.Equal(t, "redirecting", PhaseRedirecting.String())
}
