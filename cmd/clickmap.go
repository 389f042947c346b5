package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/mj1618/desktop-recorder/internal/model"
	"github.com/mj1618/desktop-recorder/internal/recorder"
	"github.com/spf13/cobra"
)

var clickmapCmd = &cobra.Command{
	Use:   "clickmap",
	Short: "Draw the recorded clicks of an event log onto a PNG",
	Long: `Render every mouse-down of an event log as a numbered marker, with the
top-level windows of the control tree and the clicked elements outlined.
Useful for checking which element each recorded click resolved to.

Examples:
  desktop-recorder clickmap --events session.yaml --tree tree.yaml --out clicks.png
  desktop-recorder clickmap --events session.yaml --tree tree.yaml --background screen.png --names`,
	RunE: runClickmap,
}

func init() {
	rootCmd.AddCommand(clickmapCmd)
	clickmapCmd.Flags().String("events", "", "Event log file (YAML or JSON)")
	clickmapCmd.Flags().String("tree", "", "Control-tree snapshot file (YAML or JSON)")
	clickmapCmd.Flags().String("out", "clickmap.png", "Output PNG path (- for stdout)")
	clickmapCmd.Flags().String("background", "", "PNG screenshot covering the control tree's screen area")
	clickmapCmd.Flags().Bool("names", false, "Label clicks with the clicked element's name")
	clickmapCmd.MarkFlagRequired("events") //nolint:errcheck
}

func runClickmap(cmd *cobra.Command, args []string) error {
	eventsPath, _ := cmd.Flags().GetString("events")
	treePath, _ := cmd.Flags().GetString("tree")
	outPath, _ := cmd.Flags().GetString("out")
	bgPath, _ := cmd.Flags().GetString("background")
	names, _ := cmd.Flags().GetBool("names")

	tree, events, err := loadInputs(eventsPath, treePath)
	if err != nil {
		return err
	}
	clicks := collectClicks(events)
	screen := screenArea(tree, clicks)

	var base image.Image
	if bgPath != "" {
		data, err := os.ReadFile(bgPath)
		if err != nil {
			return fmt.Errorf("read background: %w", err)
		}
		base, err = png.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decode background: %w", err)
		}
	} else {
		canvas := image.NewRGBA(image.Rect(0, 0, screen.Dx(), screen.Dy()))
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 255}), image.Point{}, draw.Src)
		base = canvas
	}

	mode := LabelSeq
	if names {
		mode = LabelNames
	}
	annotated := AnnotateClicks(base, tree, clicks, screen, mode)

	var buf bytes.Buffer
	if err := png.Encode(&buf, annotated); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := writeFile(outPath, buf.Bytes()); err != nil {
		return err
	}
	appLogger.Info("click map written", "path", outPath, "clicks", len(clicks))
	return nil
}

// collectClicks returns the mouse-down events of a log, numbered from 1.
func collectClicks(events []recorder.Event) []clickMark {
	var clicks []clickMark
	for _, ev := range events {
		h := ev.Hook
		if h == nil || !h.IsMouse() || h.Transition != recorder.KeyDown {
			continue
		}
		clicks = append(clicks, clickMark{
			Seq:    len(clicks) + 1,
			X:      h.X,
			Y:      h.Y,
			Button: buttonName(h.Key),
			Node:   h.Node,
		})
	}
	return clicks
}

func buttonName(k recorder.HookKey) string {
	switch k {
	case recorder.MouseRightButton:
		return "right"
	case recorder.MouseMiddleButton:
		return "middle"
	default:
		return "left"
	}
}

// screenArea is the union of the top-level window rectangles and every click
// point, padded so markers at the edge stay visible.
func screenArea(tree *model.Tree, clicks []clickMark) image.Rectangle {
	const pad = 20
	var area image.Rectangle
	if tree != nil {
		for _, root := range tree.Roots() {
			area = area.Union(image.Rect(root.Rect.Left, root.Rect.Top, root.Rect.Right, root.Rect.Bottom))
		}
	}
	for _, c := range clicks {
		area = area.Union(image.Rect(c.X, c.Y, c.X+1, c.Y+1))
	}
	if area.Empty() {
		return image.Rect(0, 0, 2*pad, 2*pad)
	}
	return area.Inset(-pad)
}
