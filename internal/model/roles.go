package model

// ClassSuffix maps UIA control types to the friendly class name appended to
// a title when deriving a preferred name ("OK" + "Button" = "OKButton").
var ClassSuffix = map[string]string{
	"Button":      "Button",
	"CheckBox":    "CheckBox",
	"ComboBox":    "ComboBox",
	"Edit":        "Edit",
	"Hyperlink":   "Hyperlink",
	"List":        "ListBox",
	"ListItem":    "ListItem",
	"Menu":        "Menu",
	"MenuBar":     "MenuBar",
	"MenuItem":    "MenuItem",
	"RadioButton": "RadioButton",
	"Tab":         "TabControl",
	"TabItem":     "TabItem",
	"Text":        "Static",
	"ToolBar":     "Toolbar",
	"Tree":        "TreeView",
	"TreeItem":    "TreeItem",
	"Window":      "Dialog",
	"Pane":        "Pane",
	"Document":    "Document",
}

// MapClass converts a control type to its friendly class suffix.
func MapClass(controlType string) string {
	if short, ok := ClassSuffix[controlType]; ok {
		return short
	}
	return controlType
}

// preferredName returns the name used to address an element: an explicit
// Name wins, otherwise the title with its class suffix, otherwise the bare
// class suffix.
func preferredName(el Element) string {
	if el.Name != "" {
		return el.Name
	}
	return el.Title + MapClass(el.ControlType)
}

// textNames returns the display names of an element: explicit Texts win,
// otherwise the title alone.
func textNames(el Element) []string {
	if len(el.Texts) > 0 {
		out := make([]string, len(el.Texts))
		copy(out, el.Texts)
		return out
	}
	if el.Title != "" {
		return []string{el.Title}
	}
	return nil
}
