// Package eventlog decodes captured event logs and control-tree snapshots
// from YAML or JSON files into the recorder's event model.
package eventlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/desktop-recorder/internal/model"
	"github.com/mj1618/desktop-recorder/internal/platform"
	"github.com/mj1618/desktop-recorder/internal/recorder"
)

// ErrInvalidRecord is wrapped by every decode error caused by a malformed record.
var ErrInvalidRecord = errors.New("invalid event record")

// Format is the encoding of a log or snapshot file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension; anything that is
// not .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Record is one entry of an event log file.
type Record struct {
	Kind string `yaml:"kind" json:"kind"` // key, mouse, app or property

	// key and mouse records
	Key        string `yaml:"key,omitempty"        json:"key,omitempty"`
	Button     string `yaml:"button,omitempty"     json:"button,omitempty"`
	Transition string `yaml:"transition,omitempty" json:"transition,omitempty"`
	X          int    `yaml:"x,omitempty"          json:"x,omitempty"`
	Y          int    `yaml:"y,omitempty"          json:"y,omitempty"`
	Element    *int   `yaml:"element,omitempty"    json:"element,omitempty"`

	// app and property records
	Event    string `yaml:"event,omitempty"    json:"event,omitempty"`
	Property string `yaml:"property,omitempty" json:"property,omitempty"`
	Value    any    `yaml:"value,omitempty"    json:"value,omitempty"`
	Sender   *int   `yaml:"sender,omitempty"   json:"sender,omitempty"`
}

// Decode reads a list of records and converts them to events. Mouse records
// without an explicit element are resolved to the element under the pointer.
func Decode(r io.Reader, format Format, tree *model.Tree) ([]recorder.Event, error) {
	var records []Record
	if err := decode(r, format, &records); err != nil {
		return nil, fmt.Errorf("decode event log: %w", err)
	}
	events := make([]recorder.Event, 0, len(records))
	for i, rec := range records {
		ev, err := rec.ToEvent(tree)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// DecodeString is Decode over an in-memory document.
func DecodeString(s string, format Format, tree *model.Tree) ([]recorder.Event, error) {
	return Decode(strings.NewReader(s), format, tree)
}

// Load reads an event log file.
func Load(path string, tree *model.Tree) ([]recorder.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path), tree)
}

// ToEvent converts the record into a recorder event.
func (rec Record) ToEvent(tree *model.Tree) (recorder.Event, error) {
	switch strings.ToLower(rec.Kind) {
	case "key":
		return rec.keyEvent(tree)
	case "mouse":
		return rec.mouseEvent(tree)
	case "app":
		name, err := recorder.ParseEventName(rec.Event)
		if err != nil {
			return recorder.Event{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		ev := recorder.AppEvent{Name: name, Sender: rec.Sender}
		return recorder.Event{App: &ev}, nil
	case "property":
		prop, err := recorder.ParsePropertyName(rec.Property)
		if err != nil {
			return recorder.Event{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		ev := recorder.NewPropertyEvent(prop, rec.Value)
		ev.Sender = rec.Sender
		return recorder.Event{App: &ev}, nil
	default:
		return recorder.Event{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, rec.Kind)
	}
}

func (rec Record) keyEvent(tree *model.Tree) (recorder.Event, error) {
	if rec.Key == "" {
		return recorder.Event{}, fmt.Errorf("%w: key record without key", ErrInvalidRecord)
	}
	tr, err := recorder.ParseTransition(rec.Transition)
	if err != nil {
		return recorder.Event{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	node, err := rec.element(tree)
	if err != nil {
		return recorder.Event{}, err
	}
	return recorder.Event{Hook: &recorder.HookEvent{
		Key:        recorder.KeyboardKey,
		Transition: tr,
		KeyName:    rec.Key,
		Node:       node,
	}}, nil
}

func (rec Record) mouseEvent(tree *model.Tree) (recorder.Event, error) {
	button, err := platform.ParseMouseButton(rec.Button)
	if err != nil {
		return recorder.Event{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	tr, err := recorder.ParseTransition(rec.Transition)
	if err != nil {
		return recorder.Event{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	node, err := rec.element(tree)
	if err != nil {
		return recorder.Event{}, err
	}
	if rec.Element == nil {
		node = tree.NodeFromPoint(rec.X, rec.Y)
	}
	return recorder.Event{Hook: &recorder.HookEvent{
		Key:        HookKey(button),
		Transition: tr,
		X:          rec.X,
		Y:          rec.Y,
		Node:       node,
	}}, nil
}

func (rec Record) element(tree *model.Tree) (*model.Node, error) {
	if rec.Element == nil {
		return nil, nil
	}
	n := tree.Node(*rec.Element)
	if n == nil {
		return nil, fmt.Errorf("%w: element %d not in control tree", ErrInvalidRecord, *rec.Element)
	}
	return n, nil
}

// HookKey maps a mouse button to its hook device class.
func HookKey(b platform.MouseButton) recorder.HookKey {
	switch b {
	case platform.MouseRight:
		return recorder.MouseRightButton
	case platform.MouseMiddle:
		return recorder.MouseMiddleButton
	default:
		return recorder.MouseLeftButton
	}
}

// DecodeTree reads a control-tree snapshot: a list of top-level elements.
func DecodeTree(r io.Reader, format Format) (*model.Tree, error) {
	var elements []model.Element
	if err := decode(r, format, &elements); err != nil {
		return nil, fmt.Errorf("decode control tree: %w", err)
	}
	return model.NewTree(elements)
}

// LoadTree reads a control-tree snapshot file.
func LoadTree(path string) (*model.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open control tree: %w", err)
	}
	defer f.Close()
	return DecodeTree(f, FormatFromPath(path))
}

func decode(r io.Reader, format Format, v any) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	case FormatYAML, "":
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Pattern folds decoded events into an EventPattern: at most one hook event,
// plus the app events in order.
func Pattern(events []recorder.Event) (recorder.EventPattern, error) {
	var p recorder.EventPattern
	for i, ev := range events {
		switch {
		case ev.Hook != nil:
			if p.Hook != nil {
				return recorder.EventPattern{}, fmt.Errorf("%w: record %d: pattern has more than one hook event", ErrInvalidRecord, i)
			}
			p.Hook = ev.Hook
		case ev.App != nil:
			p.AppEvents = append(p.AppEvents, *ev.App)
		}
	}
	return p, nil
}

// DecodePattern decodes a record list and folds it with Pattern.
func DecodePattern(s string, format Format, tree *model.Tree) (recorder.EventPattern, error) {
	events, err := DecodeString(s, format, tree)
	if err != nil {
		return recorder.EventPattern{}, err
	}
	return Pattern(events)
}
