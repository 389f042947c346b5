package recorder

import (
	"log/slog"

	"github.com/mj1618/desktop-recorder/internal/model"
)

// Rule pairs a template pattern with the handler run when it matches.
type Rule struct {
	Name     string
	Template EventPattern
	Handler  Handler
}

func hook(k HookKey, t Transition) *HookEvent {
	return &HookEvent{Key: k, Transition: t}
}

func appEvents(events ...AppEvent) []AppEvent {
	return events
}

// DefaultRules returns the handler catalog in priority order: templates
// with more app events come first. Dispatcher.match breaks ties between
// equal-length templates by occurrence order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "menu_opened",
			Template: EventPattern{AppEvents: appEvents(NewAppEvent(MenuOpened))},
			Handler:  MenuOpenedHandler{},
		},
		{
			Name:     "menu_closed",
			Template: EventPattern{AppEvents: appEvents(NewAppEvent(MenuClosed))},
			Handler:  MenuClosedHandler{},
		},
		{
			Name:     "expand_collapse",
			Template: EventPattern{AppEvents: appEvents(NewPropertyEvent(ToggleState, nil))},
			Handler:  ExpandCollapseHandler{},
		},
		{
			Name:     "selection_changed",
			Template: EventPattern{AppEvents: appEvents(NewAppEvent(SelectionElementSelected))},
			Handler:  SelectionChangedHandler{},
		},
		{
			Name:     "left_click",
			Template: EventPattern{Hook: hook(MouseLeftButton, KeyDown)},
			Handler:  MouseClickHandler{},
		},
		{
			Name:     "right_click",
			Template: EventPattern{Hook: hook(MouseRightButton, KeyDown)},
			Handler:  MouseClickHandler{},
		},
		{
			Name:     "middle_click",
			Template: EventPattern{Hook: hook(MouseMiddleButton, KeyDown)},
			Handler:  MouseClickHandler{},
		},
		{
			Name:     "keyboard",
			Template: EventPattern{Hook: hook(KeyboardKey, KeyDown)},
			Handler:  KeyboardHandler{},
		},
	}
}

// Dispatcher matches windows of the event log against an ordered rule table.
type Dispatcher struct {
	Rules   []Rule
	Tree    *model.Tree
	Session *Session
	Config  Config
	Logger  *slog.Logger
}

// Process runs the best matching rule against window, removes the events it
// consumed (the hook event included) and repeats on what is left, so each
// event feeds at most one handler. Pending typed text is flushed before any
// rule that does not itself buffer text. Generated lines are returned in the
// order the handlers ran.
func (d *Dispatcher) Process(window EventPattern) []string {
	var lines []string
	for !window.Empty() {
		rule, bound, idx, ok := d.match(window)
		if !ok {
			break
		}
		ctx := &Context{
			Pattern: bound,
			Subtree: d.Tree.SubTreeFrom(d.anchor(bound)),
			Tree:    d.Tree,
			Session: d.Session,
			Config:  d.Config,
			Logger:  d.logger(),
		}
		d.logger().Debug("pattern matched", "rule", rule.Name, "app_events", len(bound.AppEvents))
		if _, typing := rule.Handler.(textBuffering); !typing {
			lines = append(lines, d.Session.FlushText()...)
		}
		if line, emitted := rule.Handler.Run(ctx); emitted {
			lines = append(lines, line)
		}

		rest := window.without(idx, window.Hook != nil)
		if len(rest.AppEvents) == len(window.AppEvents) && rest.Hook == window.Hook {
			break
		}
		window = rest
	}
	return lines
}

// match picks the rule to run next. Templates with more app events win;
// among equal lengths the template whose first consumed event occurred
// earliest wins, so app events are handled in occurrence order. Remaining
// ties keep table order.
func (d *Dispatcher) match(window EventPattern) (Rule, EventPattern, []int, bool) {
	var (
		best    Rule
		bestIdx []int
		found   bool
	)
	for _, r := range d.Rules {
		idx, ok := window.SubpatternIndexes(r.Template)
		if !ok {
			continue
		}
		if found && !earlier(idx, bestIdx) {
			continue
		}
		best, bestIdx, found = r, idx, true
	}
	if !found {
		return Rule{}, EventPattern{}, nil, false
	}
	bound, _ := window.Subpattern(best.Template)
	return best, bound, bestIdx, true
}

// earlier reports whether a match consuming idx beats one consuming cur.
func earlier(idx, cur []int) bool {
	if len(idx) != len(cur) {
		return len(idx) > len(cur)
	}
	return len(idx) > 0 && idx[0] < cur[0]
}

// anchor picks the element a handler acts on: the sender of the first bound
// app event that has one, else the element under the hook event, else the
// first top-level window.
func (d *Dispatcher) anchor(bound EventPattern) *model.Node {
	for _, e := range bound.AppEvents {
		if e.Sender == nil {
			continue
		}
		if n := d.Tree.Node(*e.Sender); n != nil {
			return n
		}
	}
	if bound.Hook != nil && bound.Hook.Node != nil {
		return bound.Hook.Node
	}
	if d.Tree != nil {
		if roots := d.Tree.Roots(); len(roots) > 0 {
			return roots[0]
		}
	}
	return nil
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
