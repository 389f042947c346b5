package recorder

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/mj1618/desktop-recorder/internal/model"
)

// appVar is the script variable holding the application under test.
const appVar = "app"

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// IsIdentifier reports whether name can be used as a bare attribute name in
// the generated script: a letter or underscore followed by letters, digits
// or underscores.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// NormalizeName returns name in Unicode NFC, the form every emitted name uses.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// AccessName renders the accessor used to reach an element called name from
// its parent: ".name" for identifiers, "[u'name']" otherwise or whenever
// keyOnly is set.
func AccessName(name string, keyOnly bool) string {
	name = NormalizeName(name)
	if !keyOnly && IsIdentifier(name) {
		return "." + name
	}
	return "[u'" + literalEscaper.Replace(name) + "']"
}

// quote renders s as a single-quoted script literal.
func quote(s string) string {
	return "'" + literalEscaper.Replace(NormalizeName(s)) + "'"
}

// WindowAccess returns the expression addressing the top-level window that
// contains n, e.g. "app[u'Notepad']". It reports false when the window has
// no preferred name.
func WindowAccess(tree *model.Tree, n *model.Node, keyOnly bool) (string, bool) {
	root := tree.Root(n)
	if root == nil || root.PreferredName == "" {
		return "", false
	}
	return appVar + AccessName(root.PreferredName, keyOnly), true
}

// ItemAccess returns the expression addressing n through its window, e.g.
// "app[u'Notepad'][u'FileMenuItem']".
func ItemAccess(tree *model.Tree, n *model.Node, keyOnly bool) (string, bool) {
	window, ok := WindowAccess(tree, n, keyOnly)
	if !ok || n.PreferredName == "" {
		return "", false
	}
	return window + AccessName(n.PreferredName, keyOnly), true
}
