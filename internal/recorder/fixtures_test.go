package recorder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mj1618/desktop-recorder/internal/model"
)

// notepadTree builds the control tree used by dispatcher and golden tests.
//
//	Notepad (id=1, Window)
//	├── Application (id=2, MenuBar)
//	│   ├── File (id=3, MenuItem)
//	│   │   └── Save As (id=10, MenuItem)
//	│   └── Format (id=4, MenuItem)
//	├── TextEditor (id=5, Edit)
//	├── Folders (id=6, Tree)
//	│   └── Documents (id=7, TreeItem)
//	└── Encoding (id=8, List)
//	    └── UTF-8 (id=9, ListItem)
func notepadTree(t *testing.T) *model.Tree {
	t.Helper()
	tree, err := model.NewTree([]model.Element{
		{
			ID: 1, ControlType: "Window", Name: "Notepad", Title: "Untitled - Notepad",
			Rect: model.Rect{Left: 0, Top: 0, Right: 800, Bottom: 600},
			Children: []model.Element{
				{
					ID: 2, ControlType: "MenuBar", Title: "Application",
					Rect: model.Rect{Left: 0, Top: 20, Right: 800, Bottom: 40},
					Children: []model.Element{
						{
							ID: 3, ControlType: "MenuItem", Title: "File",
							Rect: model.Rect{Left: 0, Top: 20, Right: 40, Bottom: 40},
							Children: []model.Element{
								{ID: 10, ControlType: "MenuItem", Title: "Save As", Rect: model.Rect{Left: 0, Top: 40, Right: 120, Bottom: 60}},
							},
						},
						{ID: 4, ControlType: "MenuItem", Title: "Format", Rect: model.Rect{Left: 40, Top: 20, Right: 100, Bottom: 40}},
					},
				},
				{ID: 5, ControlType: "Edit", Name: "TextEditor", Rect: model.Rect{Left: 0, Top: 40, Right: 800, Bottom: 560}},
				{
					ID: 6, ControlType: "Tree", Title: "Folders",
					Rect: model.Rect{Left: 0, Top: 560, Right: 200, Bottom: 600},
					Children: []model.Element{
						{ID: 7, ControlType: "TreeItem", Title: "Documents", Rect: model.Rect{Left: 0, Top: 560, Right: 200, Bottom: 580}},
					},
				},
				{
					ID: 8, ControlType: "List", Title: "Encoding",
					Rect: model.Rect{Left: 200, Top: 560, Right: 400, Bottom: 600},
					Children: []model.Element{
						{ID: 9, ControlType: "ListItem", Title: "UTF-8", Rect: model.Rect{Left: 200, Top: 560, Right: 400, Bottom: 580}},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	return tree
}

func mouseDown(tree *model.Tree, key HookKey, x, y int) Event {
	return Event{Hook: &HookEvent{Key: key, Transition: KeyDown, X: x, Y: y, Node: tree.NodeFromPoint(x, y)}}
}

func mouseUp(key HookKey, x, y int) Event {
	return Event{Hook: &HookEvent{Key: key, Transition: KeyUp, X: x, Y: y}}
}

func keyPress(node *model.Node, name string) []Event {
	return []Event{
		{Hook: &HookEvent{Key: KeyboardKey, Transition: KeyDown, KeyName: name, Node: node}},
		{Hook: &HookEvent{Key: KeyboardKey, Transition: KeyUp, KeyName: name, Node: node}},
	}
}

func app(e AppEvent) Event {
	return Event{App: &e}
}

// notepadSession opens File > Save As, types into the editor, expands a
// folder, picks an encoding, right-clicks the editor and middle-clicks
// outside every window.
func notepadSession(t *testing.T, tree *model.Tree) []Event {
	t.Helper()
	var events []Event
	events = append(events,
		mouseDown(tree, MouseLeftButton, 20, 30),
		mouseUp(MouseLeftButton, 20, 30),
		app(NewAppEvent(MenuOpened).WithSender(3)),
		mouseDown(tree, MouseLeftButton, 20, 50),
		app(NewAppEvent(MenuOpened).WithSender(10)),
		app(NewAppEvent(MenuClosed).WithSender(10)),
		mouseUp(MouseLeftButton, 20, 50),
	)
	editor := tree.Node(5)
	events = append(events, keyPress(editor, "h")...)
	events = append(events, keyPress(editor, "i")...)
	events = append(events, keyPress(editor, "Enter")...)
	events = append(events,
		mouseDown(tree, MouseLeftButton, 10, 570),
		app(NewPropertyEvent(ToggleState, 1).WithSender(7)),
		mouseUp(MouseLeftButton, 10, 570),
		mouseDown(tree, MouseLeftButton, 300, 570),
		app(NewAppEvent(SelectionElementSelected).WithSender(9)),
		app(NewPropertyEvent(SelectionItemIsSelected, true).WithSender(9)),
		mouseUp(MouseLeftButton, 300, 570),
		mouseDown(tree, MouseRightButton, 400, 300),
		mouseUp(MouseRightButton, 400, 300),
		mouseDown(tree, MouseMiddleButton, 900, 900),
		mouseUp(MouseMiddleButton, 900, 900),
	)
	return events
}
