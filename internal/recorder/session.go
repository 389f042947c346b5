package recorder

import (
	"strings"

	"github.com/google/uuid"
)

// Config holds the recorder flags consumed by handlers.
type Config struct {
	// KeyOnly forces "[u'name']" accessors even for valid identifiers.
	KeyOnly bool
	// ScaleClick emits clicks relative to the element's rectangle instead
	// of raw screen coordinates.
	ScaleClick bool
}

// Session is the mutable state of one recording session. It is only touched
// by handlers, one at a time; callers that share a Session across goroutines
// must serialise access themselves (see Recorder).
type Session struct {
	ID string

	// MenuPath holds the text of menus opened so far, oldest first.
	MenuPath []string

	text  map[string]*strings.Builder
	order []string // access expressions in first-typed order
}

// NewSession returns an empty session with a fresh ID.
func NewSession() *Session {
	return &Session{
		ID:   uuid.Must(uuid.NewV7()).String(),
		text: make(map[string]*strings.Builder),
	}
}

// Reset clears all pending state, keeping the session ID.
func (s *Session) Reset() {
	s.MenuPath = nil
	s.text = make(map[string]*strings.Builder)
	s.order = nil
}

// PushMenu records an opened menu item.
func (s *Session) PushMenu(name string) {
	s.MenuPath = append(s.MenuPath, name)
}

// DrainMenu returns the pending menu path and clears it.
func (s *Session) DrainMenu() []string {
	path := s.MenuPath
	s.MenuPath = nil
	return path
}

// AppendText adds typed text to the pending buffer of the control addressed
// by access.
func (s *Session) AppendText(access, text string) {
	if s.text == nil {
		s.text = make(map[string]*strings.Builder)
	}
	b, ok := s.text[access]
	if !ok {
		b = &strings.Builder{}
		s.text[access] = b
		s.order = append(s.order, access)
	}
	b.WriteString(text)
}

// PendingText returns the buffered text for access.
func (s *Session) PendingText(access string) string {
	if b, ok := s.text[access]; ok {
		return b.String()
	}
	return ""
}

// FlushText emits one type_keys line per control with pending text, in the
// order the controls were first typed into, and empties the buffers. Text
// typed with no known target (access "") becomes a global send_keys call.
func (s *Session) FlushText() []string {
	var lines []string
	for _, access := range s.order {
		text := s.text[access].String()
		if text == "" {
			continue
		}
		if access == "" {
			lines = append(lines, "pywinauto.keyboard.send_keys(u"+quote(text)+")\n")
			continue
		}
		lines = append(lines, access+".type_keys(u"+quote(text)+")\n")
	}
	s.text = make(map[string]*strings.Builder)
	s.order = nil
	return lines
}
