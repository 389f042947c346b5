package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/mj1618/desktop-recorder/internal/eventlog"
	"github.com/mj1618/desktop-recorder/internal/model"
	"github.com/mj1618/desktop-recorder/internal/recorder"
)

// StringParam extracts a string argument from an MCP tool call.
func StringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// IntParam extracts an integer argument. JSON numbers arrive as float64.
func IntParam(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			if n == math.Trunc(n) {
				return int(n)
			}
		case int:
			return n
		}
	}
	return def
}

// BoolParam extracts a boolean argument.
func BoolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// recorderConfig returns the handler flags, with per-call overrides taken
// from params when present.
func recorderConfig(params map[string]interface{}) recorder.Config {
	return recorder.Config{
		KeyOnly:    BoolParam(params, "key_only", appConfig.Recorder.KeyOnly),
		ScaleClick: BoolParam(params, "scale_click", appConfig.Recorder.ScaleClick),
	}
}

// loadInputs reads the control-tree snapshot and the event log resolved against it.
func loadInputs(eventsPath, treePath string) (*model.Tree, []recorder.Event, error) {
	if strings.TrimSpace(eventsPath) == "" {
		return nil, nil, fmt.Errorf("--events is required")
	}
	var tree *model.Tree
	if strings.TrimSpace(treePath) != "" {
		t, err := eventlog.LoadTree(treePath)
		if err != nil {
			return nil, nil, err
		}
		tree = t
	}
	events, err := eventlog.Load(eventsPath, tree)
	if err != nil {
		return nil, nil, err
	}
	return tree, events, nil
}

// writeFile writes data to path, or to stdout when path is "-".
func writeFile(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
