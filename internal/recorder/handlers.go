package recorder

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mj1618/desktop-recorder/internal/model"
)

// Handler turns a bound pattern into script output. It returns one
// newline-terminated line (or block) of code, or false when the pattern only
// advanced session state.
type Handler interface {
	Run(ctx *Context) (string, bool)
}

// Context is everything a handler may read or mutate for one matched window.
type Context struct {
	// Pattern is the bound sub-pattern taken from the log.
	Pattern EventPattern
	// Subtree is the anchor element followed by its descendants.
	Subtree []*model.Node
	Tree    *model.Tree
	Session *Session
	Config  Config
	Logger  *slog.Logger
}

// item returns the anchor element of the window, or nil.
func (c *Context) item() *model.Node {
	if len(c.Subtree) == 0 {
		return nil
	}
	return c.Subtree[0]
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// RootName returns the accessor of the window containing the anchor element.
func (c *Context) RootName() (string, bool) {
	root := c.Tree.Root(c.item())
	if root == nil || root.PreferredName == "" {
		return "", false
	}
	return AccessName(root.PreferredName, c.Config.KeyOnly), true
}

// ItemName returns the accessor of the anchor element itself.
func (c *Context) ItemName() (string, bool) {
	n := c.item()
	if n == nil || n.PreferredName == "" {
		return "", false
	}
	return AccessName(n.PreferredName, c.Config.KeyOnly), true
}

// unresolved is the placeholder emitted when an element cannot be addressed.
func unresolved(action string) string {
	return "# " + action + ": element has no resolvable name\n"
}

// MenuOpenedHandler pushes the opened menu's text onto the session's menu path.
type MenuOpenedHandler struct{}

func (MenuOpenedHandler) Run(ctx *Context) (string, bool) {
	name := ctx.item().FirstTextName()
	if name == "" {
		ctx.logger().Debug("menu opened without text name")
		return "", false
	}
	ctx.Session.PushMenu(name)
	ctx.logger().Debug("menu opened", "name", name, "depth", len(ctx.Session.MenuPath))
	return "", false
}

// MenuClosedHandler emits a menu_select call for the accumulated menu path
// ending at the closing item, then clears the path.
type MenuClosedHandler struct{}

func (MenuClosedHandler) Run(ctx *Context) (string, bool) {
	path := ctx.Session.DrainMenu()
	n := ctx.item()
	if last := n.FirstTextName(); last != "" && (len(path) == 0 || path[len(path)-1] != last) {
		path = append(path, last)
	}
	if len(path) == 0 {
		ctx.logger().Debug("menu closed with empty path")
		return "", false
	}
	window, ok := WindowAccess(ctx.Tree, n, ctx.Config.KeyOnly)
	if !ok {
		return unresolved("menu_select"), true
	}
	return window + ".menu_select(" + quote(strings.Join(path, " -> ")) + ")\n", true
}

// ExpandCollapseHandler emits expand() or collapse() for a toggle-state change.
// Values other than 0 and 1 produce no output.
type ExpandCollapseHandler struct{}

func (ExpandCollapseHandler) Run(ctx *Context) (string, bool) {
	ev, ok := lastOfKind(ctx.Pattern, NewPropertyEvent(ToggleState, nil))
	if !ok {
		return "", false
	}
	state, ok := intValue(ev.NewValue)
	if !ok || (state != 0 && state != 1) {
		ctx.logger().Debug("unhandled toggle state", "value", ev.NewValue)
		return "", false
	}
	access, ok := ItemAccess(ctx.Tree, ctx.item(), ctx.Config.KeyOnly)
	if !ok {
		return unresolved("expand/collapse"), true
	}
	if state == 1 {
		return access + ".expand()\n", true
	}
	return access + ".collapse()\n", true
}

// SelectionChangedHandler emits a select() call naming the selected item.
// With a sender, the sender is the selected item and its parent receives the
// call; without one, the anchor element plays both parts.
type SelectionChangedHandler struct{}

func (SelectionChangedHandler) Run(ctx *Context) (string, bool) {
	ev, ok := lastOfKind(ctx.Pattern, NewAppEvent(SelectionElementSelected))
	if !ok {
		return "", false
	}
	target := ctx.item()
	text := target.FirstTextName()
	if ev.Sender != nil {
		if selected := ctx.Tree.Node(*ev.Sender); selected != nil {
			text = selected.FirstTextName()
			target = ctx.Tree.Parent(selected)
		} else {
			ctx.logger().Debug("selection sender not in control tree", "sender", *ev.Sender)
		}
	}
	access, ok := ItemAccess(ctx.Tree, target, ctx.Config.KeyOnly)
	if !ok {
		return unresolved("select"), true
	}
	return access + ".select(" + quote(text) + ")\n", true
}

// MouseClickHandler emits a click for a mouse-button-down hook event.
type MouseClickHandler struct{}

func (MouseClickHandler) Run(ctx *Context) (string, bool) {
	hook := ctx.Pattern.Hook
	if hook == nil || !hook.IsMouse() {
		return "", false
	}
	button := buttonLabel(hook.Key)

	if hook.Node == nil {
		return fmt.Sprintf("pywinauto.mouse.click(button='%s', coords=(%d, %d))\n", button, hook.X, hook.Y), true
	}

	access, ok := ItemAccess(ctx.Tree, hook.Node, ctx.Config.KeyOnly)
	if !ok {
		return unresolved("click_input"), true
	}

	rect := hook.Node.Rect
	if !ctx.Config.ScaleClick || rect.Width() <= 0 || rect.Height() <= 0 {
		return fmt.Sprintf("%s.click_input(button='%s', coords=(%d, %d))\n", access, button, hook.X, hook.Y), true
	}

	sx := formatScale(float64(hook.X-rect.Left) / float64(rect.Width()))
	sy := formatScale(float64(hook.Y-rect.Top) / float64(rect.Height()))
	var b strings.Builder
	fmt.Fprintf(&b, "# Clicking on object '%s' with scale (%s, %s)\n", hook.Node.PreferredName, sx, sy)
	fmt.Fprintf(&b, "_elem = %s.wrapper_object()\n", access)
	b.WriteString("_rect = _elem.rectangle()\n")
	fmt.Fprintf(&b, "_x = int((_rect.right - _rect.left) * %s)\n", sx)
	fmt.Fprintf(&b, "_y = int((_rect.bottom - _rect.top) * %s)\n", sy)
	fmt.Fprintf(&b, "_elem.click_input(button='%s', coords=(_x, _y))\n", button)
	return b.String(), true
}

// KeyboardHandler buffers typed keys per control; the buffer is flushed as
// a type_keys call once something other than typing happens.
type KeyboardHandler struct{}

// textBuffering marks handlers that add to the pending text instead of
// ending it.
type textBuffering interface {
	buffersText()
}

func (KeyboardHandler) buffersText() {}

func (KeyboardHandler) Run(ctx *Context) (string, bool) {
	hook := ctx.Pattern.Hook
	if hook == nil || hook.IsMouse() {
		return "", false
	}
	keys := sendKeysCode(hook.KeyName)
	if keys == "" {
		return "", false
	}
	access := ""
	if hook.Node != nil {
		if a, ok := ItemAccess(ctx.Tree, hook.Node, ctx.Config.KeyOnly); ok {
			access = a
		}
	}
	ctx.Session.AppendText(access, keys)
	return "", false
}

// buttonLabel maps a mouse device to the button name used by pywinauto.
func buttonLabel(k HookKey) string {
	switch k {
	case MouseRightButton:
		return "right"
	case MouseMiddleButton:
		return "wheel"
	default:
		return "left"
	}
}

// formatScale renders a ratio so integral values keep a decimal point.
func formatScale(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// lastOfKind returns the last event in p of the same kind as want.
func lastOfKind(p EventPattern, want AppEvent) (AppEvent, bool) {
	for i := len(p.AppEvents) - 1; i >= 0; i-- {
		if p.AppEvents[i].SameKind(want) {
			return p.AppEvents[i], true
		}
	}
	return AppEvent{}, false
}

// intValue converts a decoded property value to an int. Floats must be whole.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// namedKeys maps key names to pywinauto send_keys codes.
var namedKeys = map[string]string{
	"enter":     "{ENTER}",
	"return":    "{ENTER}",
	"tab":       "{TAB}",
	"backspace": "{BACKSPACE}",
	"delete":    "{DELETE}",
	"escape":    "{ESC}",
	"esc":       "{ESC}",
	"space":     " ",
	"up":        "{UP}",
	"down":      "{DOWN}",
	"left":      "{LEFT}",
	"right":     "{RIGHT}",
	"home":      "{HOME}",
	"end":       "{END}",
}

// sendKeysCode converts a key name to send_keys syntax, escaping the
// characters send_keys treats as modifiers or grouping.
func sendKeysCode(key string) string {
	if key == "" {
		return ""
	}
	if code, ok := namedKeys[strings.ToLower(key)]; ok {
		return code
	}
	if len([]rune(key)) == 1 {
		if strings.ContainsAny(key, "+^%~(){}[]") {
			return "{" + key + "}"
		}
		return key
	}
	return "{" + strings.ToUpper(key) + "}"
}
