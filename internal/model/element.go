package model

// Element is one UI element in a control-tree snapshot, as read from a
// snapshot file. Children nest; NewTree flattens them into index form.
type Element struct {
	ID          int       `yaml:"id"               json:"id"`
	ControlType string    `yaml:"type,omitempty"   json:"type,omitempty"`  // UIA control type, e.g. "MenuItem"
	Title       string    `yaml:"title,omitempty"  json:"title,omitempty"` // Visible label
	Name        string    `yaml:"name,omitempty"   json:"name,omitempty"`  // Preferred name override
	Texts       []string  `yaml:"texts,omitempty"  json:"texts,omitempty"` // Text-derived names override
	Rect        Rect      `yaml:"rect"             json:"rect"`
	Children    []Element `yaml:"children,omitempty" json:"children,omitempty"`
}

// Rect is a screen rectangle in absolute pixels.
type Rect struct {
	Left   int `yaml:"left"   json:"left"`
	Top    int `yaml:"top"    json:"top"`
	Right  int `yaml:"right"  json:"right"`
	Bottom int `yaml:"bottom" json:"bottom"`
}

// Width returns Right - Left.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Contains reports whether the point lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Node is an element in an index-based control tree. The root's Parent is
// its own ID, so walking parents always terminates without a nil check.
type Node struct {
	ID            int
	Parent        int
	ControlType   string
	PreferredName string
	TextNames     []string
	Rect          Rect
	Children      []int
}

// IsRoot reports whether the node is the top of its tree.
func (n *Node) IsRoot() bool {
	return n.Parent == n.ID
}

// FirstTextName returns the first text-derived name, or "" when the node has none.
func (n *Node) FirstTextName() string {
	if n == nil || len(n.TextNames) == 0 {
		return ""
	}
	return n.TextNames[0]
}
