package recorder

import (
	"fmt"

	"github.com/mj1618/desktop-recorder/internal/model"
)

// HookKey identifies the device class of a hook event.
type HookKey int

const (
	KeyboardKey HookKey = iota
	MouseLeftButton
	MouseRightButton
	MouseMiddleButton
)

var hookKeyNames = map[HookKey]string{
	KeyboardKey:       "key",
	MouseLeftButton:   "mouse_left",
	MouseRightButton:  "mouse_right",
	MouseMiddleButton: "mouse_middle",
}

func (k HookKey) String() string {
	if s, ok := hookKeyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("HookKey(%d)", int(k))
}

// Transition is the direction of a key or button change.
type Transition int

const (
	KeyDown Transition = iota
	KeyUp
)

func (t Transition) String() string {
	switch t {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	default:
		return fmt.Sprintf("Transition(%d)", int(t))
	}
}

// ParseTransition converts "down" or "up" to a Transition.
func ParseTransition(s string) (Transition, error) {
	switch s {
	case "down":
		return KeyDown, nil
	case "up":
		return KeyUp, nil
	default:
		return KeyDown, fmt.Errorf("unknown transition %q (expected down or up)", s)
	}
}

// HookEvent is a low-level keyboard or mouse transition. Key and Transition
// identify the event for matching; everything else is payload.
type HookEvent struct {
	Key        HookKey
	Transition Transition

	// KeyName is the pressed key for keyboard events ("a", "Enter").
	KeyName string

	// X and Y are screen coordinates for mouse events.
	X, Y int

	// Node is the element under the pointer at capture time. Nil when the
	// pointer was over nothing the control tree knows about.
	Node *model.Node
}

// IsMouse reports whether the event came from a mouse button.
func (e HookEvent) IsMouse() bool {
	return e.Key != KeyboardKey
}

// SameKind compares the device class and transition only.
func (e HookEvent) SameKind(other HookEvent) bool {
	return e.Key == other.Key && e.Transition == other.Transition
}

func (e HookEvent) String() string {
	if e.IsMouse() {
		return fmt.Sprintf("%s %s (%d, %d)", e.Key, e.Transition, e.X, e.Y)
	}
	return fmt.Sprintf("%s %s %q", e.Key, e.Transition, e.KeyName)
}

// EventName is the semantic name of an application event.
type EventName int

const (
	Invoked EventName = iota
	SelectionElementSelected
	SelectionElementAddedToSelection
	SelectionElementRemovedFromSelection
	MenuOpened
	MenuClosed
	MenuModeStart
	MenuModeEnd
	DragStart
	DragComplete
	ToolTipOpened
	ToolTipClosed
	WindowOpened
	WindowClosed
	StructureChanged
	PropertyChanged
)

var eventNames = [...]string{
	Invoked:                              "invoked",
	SelectionElementSelected:             "selection_element_selected",
	SelectionElementAddedToSelection:     "selection_element_added_to_selection",
	SelectionElementRemovedFromSelection: "selection_element_removed_from_selection",
	MenuOpened:                           "menu_opened",
	MenuClosed:                           "menu_closed",
	MenuModeStart:                        "menu_mode_start",
	MenuModeEnd:                          "menu_mode_end",
	DragStart:                            "drag_start",
	DragComplete:                         "drag_complete",
	ToolTipOpened:                        "tooltip_opened",
	ToolTipClosed:                        "tooltip_closed",
	WindowOpened:                         "window_opened",
	WindowClosed:                         "window_closed",
	StructureChanged:                     "structure_changed",
	PropertyChanged:                      "property_changed",
}

func (n EventName) String() string {
	if n >= 0 && int(n) < len(eventNames) {
		return eventNames[n]
	}
	return fmt.Sprintf("EventName(%d)", int(n))
}

// ParseEventName converts a snake_case event name to an EventName.
func ParseEventName(s string) (EventName, error) {
	for i, name := range eventNames {
		if name == s {
			return EventName(i), nil
		}
	}
	return Invoked, fmt.Errorf("unknown event name %q", s)
}

// PropertyName identifies the property reported by a property event.
type PropertyName int

const (
	SelectionItemIsSelected PropertyName = iota
	Name
	ToggleState
	ExpandCollapseState
	Value
	Culture
	HasKeyboardFocus
	IsEnabled
)

var propertyNames = [...]string{
	SelectionItemIsSelected: "selection_item_is_selected",
	Name:                    "name",
	ToggleState:             "toggle_state",
	ExpandCollapseState:     "expand_collapse_state",
	Value:                   "value",
	Culture:                 "culture",
	HasKeyboardFocus:        "has_keyboard_focus",
	IsEnabled:               "is_enabled",
}

func (p PropertyName) String() string {
	if p >= 0 && int(p) < len(propertyNames) {
		return propertyNames[p]
	}
	return fmt.Sprintf("PropertyName(%d)", int(p))
}

// ParsePropertyName converts a snake_case property name to a PropertyName.
func ParsePropertyName(s string) (PropertyName, error) {
	for i, name := range propertyNames {
		if name == s {
			return PropertyName(i), nil
		}
	}
	return Name, fmt.Errorf("unknown property name %q", s)
}

// AppEvent is a semantic accessibility notification. A property event is an
// AppEvent named PropertyChanged; its Property and NewValue are set.
type AppEvent struct {
	Name     EventName
	Property PropertyName
	NewValue any

	// Sender is the element ID of the element that raised the event, nil
	// when the event source did not report one.
	Sender *int
}

// NewAppEvent returns an application event with no sender.
func NewAppEvent(name EventName) AppEvent {
	return AppEvent{Name: name}
}

// NewPropertyEvent returns a property-change event carrying newValue
// (nil when the new value is unknown).
func NewPropertyEvent(prop PropertyName, newValue any) AppEvent {
	return AppEvent{Name: PropertyChanged, Property: prop, NewValue: newValue}
}

// WithSender returns a copy of e raised by element id.
func (e AppEvent) WithSender(id int) AppEvent {
	e.Sender = &id
	return e
}

// IsProperty reports whether e is a property-change event.
func (e AppEvent) IsProperty() bool {
	return e.Name == PropertyChanged
}

// SameKind compares the event name and, for property events, the property
// name. Sender and NewValue are payload.
func (e AppEvent) SameKind(other AppEvent) bool {
	if e.Name != other.Name {
		return false
	}
	if e.IsProperty() {
		return e.Property == other.Property
	}
	return true
}

func (e AppEvent) String() string {
	if e.IsProperty() {
		return fmt.Sprintf("property %s = %v", e.Property, e.NewValue)
	}
	return e.Name.String()
}

// Event is one record of the event log: exactly one of Hook and App is set.
type Event struct {
	Hook *HookEvent
	App  *AppEvent
}
