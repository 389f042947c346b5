package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T, cfg Config) *Dispatcher {
	t.Helper()
	return &Dispatcher{
		Rules:   DefaultRules(),
		Tree:    notepadTree(t),
		Session: NewSession(),
		Config:  cfg,
	}
}

func TestDefaultRules_LongerTemplatesFirst(t *testing.T) {
	rules := DefaultRules()
	for i := 1; i < len(rules); i++ {
		assert.GreaterOrEqual(t, len(rules[i-1].Template.AppEvents), len(rules[i].Template.AppEvents),
			"rule %s should not precede %s", rules[i-1].Name, rules[i].Name)
	}
}

func TestDispatcher_MenuOpenedThenClosed(t *testing.T) {
	d := newDispatcher(t, Config{})

	lines := d.Process(EventPattern{AppEvents: []AppEvent{
		NewAppEvent(MenuOpened).WithSender(3),
		NewAppEvent(MenuClosed).WithSender(3),
	}})

	assert.Equal(t, []string{"app.Notepad.menu_select('File')\n"}, lines)
	assert.Empty(t, d.Session.MenuPath)
}

func TestDispatcher_NestedMenu(t *testing.T) {
	d := newDispatcher(t, Config{})

	assert.Empty(t, d.Process(EventPattern{AppEvents: []AppEvent{NewAppEvent(MenuOpened).WithSender(3)}}))
	assert.Empty(t, d.Process(EventPattern{AppEvents: []AppEvent{NewAppEvent(MenuOpened).WithSender(10)}}))
	lines := d.Process(EventPattern{AppEvents: []AppEvent{NewAppEvent(MenuClosed).WithSender(10)}})

	assert.Equal(t, []string{"app.Notepad.menu_select('File -> Save As')\n"}, lines)
	assert.Empty(t, d.Session.MenuPath)
}

func TestDispatcher_CloseBeforeOpenKeepsOccurrenceOrder(t *testing.T) {
	d := newDispatcher(t, Config{})
	require.Empty(t, d.Process(EventPattern{AppEvents: []AppEvent{NewAppEvent(MenuOpened).WithSender(3)}}))

	lines := d.Process(EventPattern{
		Hook: &HookEvent{Key: MouseLeftButton, Transition: KeyDown, X: 50, Y: 30, Node: d.Tree.Node(4)},
		AppEvents: []AppEvent{
			NewAppEvent(MenuClosed).WithSender(3),
			NewAppEvent(MenuOpened).WithSender(4),
		},
	})

	assert.Equal(t, []string{"app.Notepad.menu_select('File')\n"}, lines)
	assert.Equal(t, []string{"Format"}, d.Session.MenuPath)
}

func TestEarlier(t *testing.T) {
	tests := []struct {
		idx, cur []int
		want     bool
	}{
		{[]int{0, 1}, []int{0}, true},
		{[]int{3}, []int{0, 1}, false},
		{[]int{0}, []int{1}, true},
		{[]int{2}, []int{1}, false},
		{nil, nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, earlier(tt.idx, tt.cur), "earlier(%v, %v)", tt.idx, tt.cur)
	}
}

func TestDispatcher_ExpandUnderKeyOnlyRoot(t *testing.T) {
	d := newDispatcher(t, Config{KeyOnly: true})

	lines := d.Process(EventPattern{
		Hook:      &HookEvent{Key: MouseLeftButton, Transition: KeyDown, X: 10, Y: 570, Node: d.Tree.Node(7)},
		AppEvents: []AppEvent{NewPropertyEvent(ToggleState, 1).WithSender(7)},
	})

	// The click that caused the expand is consumed with it.
	assert.Equal(t, []string{"app[u'Notepad'][u'DocumentsTreeItem'].expand()\n"}, lines)
}

func TestDispatcher_ClickWhenNoAppEventMatches(t *testing.T) {
	d := newDispatcher(t, Config{})

	lines := d.Process(EventPattern{
		Hook:      &HookEvent{Key: MouseLeftButton, Transition: KeyDown, X: 400, Y: 300, Node: d.Tree.Node(5)},
		AppEvents: []AppEvent{NewAppEvent(Invoked).WithSender(5)},
	})

	assert.Equal(t, []string{"app.Notepad.TextEditor.click_input(button='left', coords=(400, 300))\n"}, lines)
}

func TestDispatcher_EachEventFeedsOneHandler(t *testing.T) {
	d := newDispatcher(t, Config{})

	lines := d.Process(EventPattern{AppEvents: []AppEvent{
		NewPropertyEvent(ToggleState, 1).WithSender(7),
		NewPropertyEvent(ToggleState, 0).WithSender(7),
	}})

	assert.Equal(t, []string{
		"app.Notepad.DocumentsTreeItem.expand()\n",
		"app.Notepad.DocumentsTreeItem.collapse()\n",
	}, lines)
}

func TestDispatcher_NothingMatches(t *testing.T) {
	d := newDispatcher(t, Config{})

	lines := d.Process(EventPattern{
		Hook:      &HookEvent{Key: MouseLeftButton, Transition: KeyUp},
		AppEvents: []AppEvent{NewAppEvent(Invoked), NewPropertyEvent(Name, "x")},
	})

	assert.Empty(t, lines)
}

func TestDispatcher_AnchorFallsBackToFirstWindow(t *testing.T) {
	d := newDispatcher(t, Config{})

	lines := d.Process(EventPattern{AppEvents: []AppEvent{NewAppEvent(SelectionElementSelected)}})

	require.Len(t, lines, 1)
	assert.Equal(t, "app.Notepad.Notepad.select('Untitled - Notepad')\n", lines[0])
}
