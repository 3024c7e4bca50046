package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/staffdesk/internal/notify"
	"github.com/kingrea/staffdesk/internal/portal"
)

const (
	// SuccessMessage is shown after a successful submission.
	SuccessMessage = "Success!"
	// FailureMessage is shown for every failure, whatever its kind.
	FailureMessage = "An error has occurred. Please try again."

	DefaultRedirectDelay        = 1000 * time.Millisecond
	DefaultNotificationDuration = 1000 * time.Millisecond
)

var (
	// ErrNotReady rejects a submit before loading finished or after settling.
	ErrNotReady = errors.New("workflow: not ready for submission")
	// ErrSubmitInFlight rejects a second submit while one is pending.
	ErrSubmitInFlight = errors.New("workflow: submission already in flight")
	// ErrUnmounted rejects calls after the screen went away.
	ErrUnmounted = errors.New("workflow: controller unmounted")
)

var nextID atomic.Int64

// LoadFunc fetches the data a screen needs.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// SubmitFunc performs one mutation.
type SubmitFunc func(ctx context.Context) portal.Result

// NavigateMsg asks the router to show Path.
type NavigateMsg struct {
	Path    string
	Outcome portal.Result
}

type loadedMsg[T any] struct {
	id   int64
	data T
	err  error
}

type settledMsg struct {
	id     int64
	result portal.Result
}

type redirectMsg struct {
	id     int64
	target string
}

// Config describes one workflow instance.
type Config struct {
	// Name labels transitions in logs.
	Name string
	// RedirectTo is the route shown after a submission settles.
	RedirectTo string
	// LoadFailureRedirect overrides RedirectTo when loading fails.
	LoadFailureRedirect  string
	RedirectDelay        time.Duration
	NotificationDuration time.Duration
	Sink                 *notify.Sink
}

// Option customizes controller construction.
type Option func(*options)

type options struct {
	observers []func(Transition)
	clock     func() time.Time
}

// WithObserver subscribes fn to every phase change.
func WithObserver(fn func(Transition)) Option {
	return func(o *options) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// Controller is one run of the load/select/submit/notify/redirect workflow.
type Controller[T any] struct {
	id   int64
	cfg  Config
	load LoadFunc[T]
	opts options

	ctx    context.Context
	cancel context.CancelFunc

	phase     Phase
	data      T
	loaded    bool
	result    portal.Result
	settled   bool
	redirects int
	submits   int
	unmounted bool
}

// New prepares a controller in PhaseIdle. A nil load makes the controller
// ready as soon as it starts, for screens that only submit.
func New[T any](load LoadFunc[T], cfg Config, opts ...Option) *Controller[T] {
	if load == nil {
		load = func(context.Context) (T, error) {
			var zero T
			return zero, nil
		}
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = DefaultRedirectDelay
	}
	if cfg.NotificationDuration <= 0 {
		cfg.NotificationDuration = DefaultNotificationDuration
	}
	if cfg.LoadFailureRedirect == "" {
		cfg.LoadFailureRedirect = cfg.RedirectTo
	}
	o := options{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller[T]{
		id:     nextID.Add(1),
		cfg:    cfg,
		load:   load,
		opts:   o,
		ctx:    ctx,
		cancel: cancel,
		phase:  PhaseIdle,
	}
}

// Start moves Idle to Loading and returns the load command. Calling it again
// does nothing.
func (c *Controller[T]) Start() tea.Cmd {
	if c.unmounted || c.phase != PhaseIdle {
		return nil
	}
	c.transition(PhaseLoading)
	id, ctx, load := c.id, c.ctx, c.load
	return func() tea.Msg {
		data, err := load(ctx)
		return loadedMsg[T]{id: id, data: data, err: err}
	}
}

// Submit moves Ready to Submitting and returns the command running fn.
// Exactly one submission is accepted per controller.
func (c *Controller[T]) Submit(fn SubmitFunc) (tea.Cmd, error) {
	if c.unmounted {
		return nil, ErrUnmounted
	}
	switch c.phase {
	case PhaseReady:
	case PhaseSubmitting:
		return nil, ErrSubmitInFlight
	default:
		return nil, fmt.Errorf("%w (phase %s)", ErrNotReady, c.phase)
	}
	if fn == nil {
		return nil, fmt.Errorf("workflow: submit function is required")
	}
	c.transition(PhaseSubmitting)
	c.submits++
	id, ctx := c.id, c.ctx
	return func() tea.Msg {
		return settledMsg{id: id, result: fn(ctx)}
	}, nil
}

// Update consumes this controller's messages and ignores everything else.
// After Unmount every message is a no-op.
func (c *Controller[T]) Update(msg tea.Msg) tea.Cmd {
	if c.unmounted {
		return nil
	}
	switch m := msg.(type) {
	case loadedMsg[T]:
		if m.id != c.id || c.phase != PhaseLoading {
			return nil
		}
		if m.err != nil {
			return c.settle(portal.Failed(m.err), c.cfg.LoadFailureRedirect)
		}
		c.data = m.data
		c.loaded = true
		c.transition(PhaseReady)
		return nil
	case settledMsg:
		if m.id != c.id || c.phase != PhaseSubmitting {
			return nil
		}
		return c.settle(m.result, c.cfg.RedirectTo)
	case redirectMsg:
		if m.id != c.id || c.phase != PhaseRedirecting {
			return nil
		}
		c.transition(PhaseDone)
		if c.cfg.Sink != nil {
			c.cfg.Sink.Clear()
		}
		nav := NavigateMsg{Path: m.target, Outcome: c.result}
		return func() tea.Msg { return nav }
	}
	return nil
}

// settle records the outcome, shows the notification, and schedules the
// single redirect.
func (c *Controller[T]) settle(result portal.Result, target string) tea.Cmd {
	c.result = result
	c.settled = true
	c.transition(PhaseSettled)
	c.transition(PhaseRedirecting)
	c.redirects++

	var show tea.Cmd
	if c.cfg.Sink != nil {
		message, variant := FailureMessage, notify.VariantError
		if result.OK() {
			message, variant = SuccessMessage, notify.VariantSuccess
		}
		show = c.cfg.Sink.Show(message, variant, c.cfg.NotificationDuration)
	}
	id := c.id
	redirect := tea.Tick(c.cfg.RedirectDelay, func(time.Time) tea.Msg {
		return redirectMsg{id: id, target: target}
	})
	return tea.Batch(show, redirect)
}

// Unmount cancels in-flight work and turns later messages into no-ops.
func (c *Controller[T]) Unmount() {
	if c.unmounted {
		return
	}
	c.unmounted = true
	c.cancel()
}

func (c *Controller[T]) transition(to Phase) {
	from := c.phase
	if !canTransition(from, to) {
		panic(fmt.Sprintf("workflow %s: illegal transition %s -> %s", c.cfg.Name, from, to))
	}
	c.phase = to
	t := Transition{Controller: c.cfg.Name, From: from, To: to, At: c.opts.clock()}
	for _, fn := range c.opts.observers {
		fn(t)
	}
}

// Phase returns the current phase.
func (c *Controller[T]) Phase() Phase { return c.phase }

// Data returns the loaded data once the controller reached Ready.
func (c *Controller[T]) Data() (T, bool) { return c.data, c.loaded }

// Result returns the settled outcome.
func (c *Controller[T]) Result() (portal.Result, bool) { return c.result, c.settled }

// Redirects counts entries into PhaseRedirecting.
func (c *Controller[T]) Redirects() int { return c.redirects }

// Submissions counts accepted submits.
func (c *Controller[T]) Submissions() int { return c.submits }

// Unmounted reports whether the owning screen went away.
func (c *Controller[T]) Unmounted() bool { return c.unmounted }

// Name returns the configured label.
func (c *Controller[T]) Name() string { return c.cfg.Name }
