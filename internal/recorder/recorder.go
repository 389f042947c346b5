package recorder

import (
	"log/slog"
	"sync"

	"github.com/mj1618/desktop-recorder/internal/model"
)

// Options configures a Recorder.
type Options struct {
	Config  Config
	Rules   []Rule       // nil = DefaultRules()
	Session *Session     // nil = NewSession()
	Logger  *slog.Logger // nil = slog.Default()
}

// Recorder groups an ordered event log into windows and dispatches each
// window as it completes. A window opens at every hook down transition and
// collects the app events that follow it; up transitions never open one.
// App events seen before any hook event form a window with no hook.
//
// A Recorder is safe for concurrent use; calls are serialised.
type Recorder struct {
	mu         sync.Mutex
	dispatcher *Dispatcher
	window     *EventPattern
	logger     *slog.Logger
}

// New returns a Recorder resolving elements through tree.
func New(tree *model.Tree, opts Options) *Recorder {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	session := opts.Session
	if session == nil {
		session = NewSession()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session", session.ID)
	return &Recorder{
		dispatcher: &Dispatcher{
			Rules:   rules,
			Tree:    tree,
			Session: session,
			Config:  opts.Config,
			Logger:  logger,
		},
		logger: logger,
	}
}

// Session returns the recorder's session state.
func (r *Recorder) Session() *Session {
	return r.dispatcher.Session
}

// Feed adds one event to the log and returns any lines produced by the
// window it completed.
func (r *Recorder) Feed(ev Event) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case ev.Hook != nil:
		if ev.Hook.Transition != KeyDown {
			return nil
		}
		lines := r.finishWindow()
		h := *ev.Hook
		r.window = &EventPattern{Hook: &h}
		return lines
	case ev.App != nil:
		if r.window == nil {
			r.window = &EventPattern{}
		}
		r.window.AppEvents = append(r.window.AppEvents, *ev.App)
	}
	return nil
}

// Flush completes the open window, if any, without ending the session.
func (r *Recorder) Flush() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishWindow()
}

// Close completes the open window and flushes pending typed text.
func (r *Recorder) Close() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.finishWindow()
	return append(lines, r.dispatcher.Session.FlushText()...)
}

// Reset drops the open window and clears session state.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.window = nil
	r.dispatcher.Session.Reset()
}

func (r *Recorder) finishWindow() []string {
	if r.window == nil {
		return nil
	}
	w := *r.window
	r.window = nil
	return r.dispatcher.Process(w)
}

// Generate runs a whole event log through a fresh Recorder and returns the
// generated lines.
func Generate(tree *model.Tree, events []Event, opts Options) []string {
	r := New(tree, opts)
	var lines []string
	for _, ev := range events {
		lines = append(lines, r.Feed(ev)...)
	}
	return append(lines, r.Close()...)
}
