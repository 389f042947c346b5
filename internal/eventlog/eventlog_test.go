package eventlog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mj1618/desktop-recorder/internal/model"
	"github.com/mj1618/desktop-recorder/internal/recorder"
)

func loadNotepad(t *testing.T) *model.Tree {
	t.Helper()
	tree, err := LoadTree(filepath.Join("testdata", "notepad_tree.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestLoadTree(t *testing.T) {
	tree := loadNotepad(t)
	if tree.Len() != 10 {
		t.Fatalf("expected 10 nodes, got %d", tree.Len())
	}
	if n := tree.Node(9); n == nil || n.PreferredName != "UTF-8ListItem" {
		t.Errorf("node 9 = %+v, want preferred name UTF-8ListItem", n)
	}
}

func TestDecodeTree_UnknownField(t *testing.T) {
	_, err := DecodeTree(strings.NewReader("- id: 1\n  colour: red\n"), FormatYAML)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoad_ResolvesMouseElements(t *testing.T) {
	tree := loadNotepad(t)
	events, err := Load(filepath.Join("testdata", "notepad_session.yaml"), tree)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 24 {
		t.Fatalf("expected 24 events, got %d", len(events))
	}
	first := events[0].Hook
	if first == nil || first.Key != recorder.MouseLeftButton || first.Transition != recorder.KeyDown {
		t.Fatalf("first event = %+v, want left down", events[0])
	}
	if first.Node == nil || first.Node.ID != 3 {
		t.Errorf("first click should resolve to node 3, got %+v", first.Node)
	}
	key := events[7].Hook
	if key == nil || key.KeyName != "h" || key.Node == nil || key.Node.ID != 5 {
		t.Errorf("key event = %+v, want h on node 5", key)
	}
	prop := events[14].App
	if prop == nil || !prop.IsProperty() || prop.Property != recorder.ToggleState {
		t.Fatalf("event 14 = %+v, want toggle_state property", events[14])
	}
	if prop.NewValue != 1 {
		t.Errorf("toggle value = %#v, want 1", prop.NewValue)
	}
	if prop.Sender == nil || *prop.Sender != 7 {
		t.Errorf("toggle sender = %v, want 7", prop.Sender)
	}
	if events[22].Hook.Node != nil {
		t.Errorf("click outside every window should have no element")
	}
}

func TestLoad_GeneratesScript(t *testing.T) {
	tree := loadNotepad(t)
	events, err := Load(filepath.Join("testdata", "notepad_session.yaml"), tree)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(recorder.Generate(tree, events, recorder.Options{}), "")
	want := "app.Notepad.menu_select('File -> Save As')\n" +
		"app.Notepad.TextEditor.type_keys(u'hi{ENTER}')\n" +
		"app.Notepad.DocumentsTreeItem.expand()\n" +
		"app.Notepad.EncodingListBox.select('UTF-8')\n" +
		"app.Notepad.TextEditor.click_input(button='right', coords=(400, 300))\n" +
		"pywinauto.mouse.click(button='wheel', coords=(900, 900))\n"
	if got != want {
		t.Errorf("script mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestLoad_JSONNumbers(t *testing.T) {
	tree := loadNotepad(t)
	events, err := Load(filepath.Join("testdata", "expand.json"), tree)
	if err != nil {
		t.Fatal(err)
	}
	lines := recorder.Generate(tree, events, recorder.Options{Config: recorder.Config{KeyOnly: true}})
	if len(lines) != 1 || lines[0] != "app[u'Notepad'][u'DocumentsTreeItem'].collapse()\n" {
		t.Errorf("lines = %q", lines)
	}
}

func TestDecode_InvalidRecords(t *testing.T) {
	tree := loadNotepad(t)
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown kind", "- {kind: scroll}"},
		{"unknown event", "- {kind: app, event: exploded}"},
		{"unknown property", "- {kind: property, property: colour}"},
		{"bad button", "- {kind: mouse, button: fourth, transition: down}"},
		{"bad transition", "- {kind: key, key: a, transition: sideways}"},
		{"key without name", "- {kind: key, transition: down}"},
		{"missing element", "- {kind: key, key: a, transition: down, element: 99}"},
	}
	for _, tt := range tests {
		_, err := DecodeString(tt.doc, FormatYAML, tree)
		if !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("%s: expected ErrInvalidRecord, got %v", tt.name, err)
		}
	}
}

func TestDecode_EmptyDocument(t *testing.T) {
	events, err := DecodeString("", FormatYAML, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"log.json": FormatJSON,
		"LOG.JSON": FormatJSON,
		"log.yaml": FormatYAML,
		"log.yml":  FormatYAML,
		"log":      FormatYAML,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDecodePattern(t *testing.T) {
	doc := `
- {kind: mouse, button: left, transition: down, x: 1, y: 1}
- {kind: app, event: menu_opened}
- {kind: property, property: name, value: x}
`
	p, err := DecodePattern(doc, FormatYAML, nil)
	if err != nil {
		t.Fatalf("DecodePattern: %v", err)
	}
	if p.Hook == nil || p.Hook.Key != recorder.MouseLeftButton {
		t.Fatalf("hook = %v, want left mouse", p.Hook)
	}
	if len(p.AppEvents) != 2 {
		t.Fatalf("app events = %d, want 2", len(p.AppEvents))
	}
	if p.AppEvents[1].Property != recorder.Name {
		t.Errorf("second event property = %v", p.AppEvents[1].Property)
	}
}

func TestDecodePattern_TwoHooks(t *testing.T) {
	doc := `
- {kind: key, key: a, transition: down}
- {kind: key, key: b, transition: down}
`
	_, err := DecodePattern(doc, FormatYAML, nil)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestMouseRecordHookKeys(t *testing.T) {
	tests := []struct {
		button string
		want   recorder.HookKey
	}{
		{"left", recorder.MouseLeftButton},
		{"right", recorder.MouseRightButton},
		{"middle", recorder.MouseMiddleButton},
		{"wheel", recorder.MouseMiddleButton},
	}
	for _, tt := range tests {
		ev, err := Record{Kind: "mouse", Button: tt.button, Transition: "down"}.ToEvent(nil)
		if err != nil {
			t.Fatalf("button %q: %v", tt.button, err)
		}
		if ev.Hook.Key != tt.want {
			t.Errorf("button %q: key = %v, want %v", tt.button, ev.Hook.Key, tt.want)
		}
	}
}
