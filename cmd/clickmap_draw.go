package cmd

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/mj1618/desktop-recorder/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// clickMark is one recorded mouse-down drawn on the click map.
type clickMark struct {
	Seq    int
	X, Y   int
	Button string
	Node   *model.Node
}

// LabelMode controls what text is drawn next to each click.
type LabelMode int

const (
	// LabelSeq draws "#n" click sequence numbers.
	LabelSeq LabelMode = iota
	// LabelNames draws "#n Name" with the clicked element's preferred name.
	LabelNames
)

var (
	boxColor     = color.RGBA{R: 255, G: 0, B: 0, A: 100}   // element outline
	windowColor  = color.RGBA{R: 0, G: 120, B: 255, A: 160} // top-level windows
	markColor    = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// AnnotateClicks draws window outlines, clicked element boxes and click markers
// on img. screen is the screen-space rectangle the image covers; points are
// mapped by the ratio of image size to screen size.
func AnnotateClicks(img image.Image, tree *model.Tree, clicks []clickMark, screen image.Rectangle, mode LabelMode) *image.RGBA {
	rgba := ImageToRGBA(img)

	imgBounds := img.Bounds()
	scaleX, scaleY := 1.0, 1.0
	if screen.Dx() > 0 {
		scaleX = float64(imgBounds.Dx()) / float64(screen.Dx())
	}
	if screen.Dy() > 0 {
		scaleY = float64(imgBounds.Dy()) / float64(screen.Dy())
	}
	toImage := func(x, y int) (int, int) {
		return imgBounds.Min.X + int(float64(x-screen.Min.X)*scaleX),
			imgBounds.Min.Y + int(float64(y-screen.Min.Y)*scaleY)
	}

	if tree != nil {
		for _, root := range tree.Roots() {
			x1, y1 := toImage(root.Rect.Left, root.Rect.Top)
			x2, y2 := toImage(root.Rect.Right, root.Rect.Bottom)
			drawRectangle(rgba, x1, y1, x2, y2, windowColor)
		}
	}

	for _, c := range clicks {
		if c.Node != nil && !c.Node.IsRoot() {
			x1, y1 := toImage(c.Node.Rect.Left, c.Node.Rect.Top)
			x2, y2 := toImage(c.Node.Rect.Right, c.Node.Rect.Bottom)
			drawRectangle(rgba, x1, y1, x2, y2, boxColor)
		}
		x, y := toImage(c.X, c.Y)
		drawCross(rgba, x, y, 4, markColor)
		drawTextWithOutline(rgba, clickLabel(c, mode), x, y-10, textColor, outlineColor)
	}
	return rgba
}

func clickLabel(c clickMark, mode LabelMode) string {
	label := fmt.Sprintf("#%d", c.Seq)
	if c.Button != "left" {
		label += " " + c.Button
	}
	if mode == LabelNames && c.Node != nil && c.Node.PreferredName != "" {
		label += " " + c.Node.PreferredName
	}
	return label
}

// ImageToRGBA converts any image to RGBA
func ImageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// isWithinBounds checks if a point is within the image bounds
func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a rectangle outline on the image
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()

	// Clamp to image bounds
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if x2 > bounds.Max.X {
		x2 = bounds.Max.X
	}
	if y2 > bounds.Max.Y {
		y2 = bounds.Max.Y
	}

	if x2 <= x1 || y2 <= y1 {
		return // Empty rectangle
	}

	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawCross draws a plus-shaped marker of the given arm length centred on (x, y).
func drawCross(img *image.RGBA, x, y, arm int, c color.Color) {
	bounds := img.Bounds()
	for d := -arm; d <= arm; d++ {
		if isWithinBounds(bounds, x+d, y) {
			img.Set(x+d, y, c)
		}
		if isWithinBounds(bounds, x, y+d) {
			img.Set(x, y+d, c)
		}
	}
}

// drawTextWithOutline draws text centred at (x, y) with a one-pixel outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	// basicfont.Face7x13 glyphs are 7px wide, 13px tall.
	textWidth := len(text) * 7
	textHeight := 13

	offsetX := x - textWidth/2
	offsetY := y + textHeight/2

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, offsetX+dx, offsetY+dy, outlineColor)
		}
	}
	drawString(img, text, offsetX, offsetY, textColor)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
