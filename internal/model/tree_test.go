package model

import (
	"errors"
	"testing"
)

// buildNotepadTree mimics a small editor window.
//
//	Untitled - Notepad (id=1, Window)
//	├── Application (id=2, MenuBar)
//	│   ├── File (id=3, MenuItem)
//	│   └── Edit (id=4, MenuItem)
//	└── Text Editor (id=5, Edit)
func buildNotepadTree() []Element {
	return []Element{
		{
			ID: 1, ControlType: "Window", Title: "Untitled - Notepad",
			Rect: Rect{0, 0, 800, 600},
			Children: []Element{
				{
					ID: 2, ControlType: "MenuBar", Title: "Application",
					Rect: Rect{0, 20, 800, 40},
					Children: []Element{
						{ID: 3, ControlType: "MenuItem", Title: "File", Rect: Rect{0, 20, 40, 40}},
						{ID: 4, ControlType: "MenuItem", Title: "Edit", Rect: Rect{40, 20, 80, 40}},
					},
				},
				{ID: 5, ControlType: "Edit", Name: "TextEditor", Title: "Text Editor", Rect: Rect{0, 40, 800, 600}},
			},
		},
	}
}

func mustTree(t *testing.T, elements []Element) *Tree {
	t.Helper()
	tree, err := NewTree(elements)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestNewTree_FlattensAllNodes(t *testing.T) {
	tree := mustTree(t, buildNotepadTree())
	if tree.Len() != 5 {
		t.Fatalf("expected 5 nodes, got %d", tree.Len())
	}
	file := tree.Node(3)
	if file == nil {
		t.Fatal("node 3 not found")
	}
	if file.Parent != 2 {
		t.Errorf("file parent = %d, want 2", file.Parent)
	}
	if file.PreferredName != "FileMenuItem" {
		t.Errorf("file preferred name = %q, want FileMenuItem", file.PreferredName)
	}
	if file.FirstTextName() != "File" {
		t.Errorf("file text name = %q, want File", file.FirstTextName())
	}
	menu := tree.Node(2)
	if len(menu.Children) != 2 || menu.Children[0] != 3 || menu.Children[1] != 4 {
		t.Errorf("menu children = %v, want [3 4]", menu.Children)
	}
}

func TestNewTree_DuplicateID(t *testing.T) {
	_, err := NewTree([]Element{
		{ID: 1, Children: []Element{{ID: 1}}},
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestTree_RootIsOwnParent(t *testing.T) {
	tree := mustTree(t, buildNotepadTree())
	root := tree.Node(1)
	if !root.IsRoot() {
		t.Fatal("node 1 should be a root")
	}
	if tree.Parent(root) != root {
		t.Error("root's parent should be itself")
	}
	if got := tree.Root(tree.Node(4)); got != root {
		t.Errorf("Root(4) = %v, want node 1", got)
	}
	if roots := tree.Roots(); len(roots) != 1 || roots[0].ID != 1 {
		t.Errorf("Roots() = %v", roots)
	}
}

func TestTree_NodeFromPoint(t *testing.T) {
	tree := mustTree(t, buildNotepadTree())
	tests := []struct {
		x, y   int
		wantID int
	}{
		{10, 30, 3},
		{50, 30, 4},
		{500, 30, 2},
		{100, 300, 5},
	}
	for _, tt := range tests {
		n := tree.NodeFromPoint(tt.x, tt.y)
		if n == nil {
			t.Errorf("NodeFromPoint(%d,%d) = nil, want %d", tt.x, tt.y, tt.wantID)
			continue
		}
		if n.ID != tt.wantID {
			t.Errorf("NodeFromPoint(%d,%d) = %d, want %d", tt.x, tt.y, n.ID, tt.wantID)
		}
	}
	if n := tree.NodeFromPoint(900, 900); n != nil {
		t.Errorf("point outside every window should give nil, got %d", n.ID)
	}
}

func TestTree_SubTreeFrom(t *testing.T) {
	tree := mustTree(t, buildNotepadTree())
	sub := tree.SubTreeFrom(tree.Node(1))
	var ids []int
	for _, n := range sub {
		ids = append(ids, n.ID)
	}
	want := []int{1, 2, 3, 4, 5}
	if len(ids) != len(want) {
		t.Fatalf("subtree ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("subtree ids = %v, want %v", ids, want)
		}
	}
	if got := tree.SubTreeFrom(nil); got != nil {
		t.Errorf("SubTreeFrom(nil) = %v, want nil", got)
	}
}

func TestRect_Dimensions(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 110, Bottom: 70}
	if r.Width() != 100 || r.Height() != 50 {
		t.Errorf("got %dx%d, want 100x50", r.Width(), r.Height())
	}
	if !r.Contains(10, 20) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(110, 70) {
		t.Error("bottom-right corner should be outside")
	}
}
