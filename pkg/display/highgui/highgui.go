// Package highgui implements display.Display with OpenCV windows.
package highgui

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/menta2k/voc-review/pkg/display"
	"github.com/menta2k/voc-review/pkg/processing"
)

// Display shows frames in OpenCV HighGUI windows
type Display struct{}

// New creates an OpenCV backed display
func New() *Display {
	return &Display{}
}

// Open creates a resizable window of the given size
func (d *Display) Open(title string, width, height int) (display.Window, error) {
	return &gocvWindow{win: gocv.NewWindow(title), width: width, height: height}, nil
}

type gocvWindow struct {
	win    *gocv.Window
	width  int
	height int
}

func (w *gocvWindow) Show(frame image.Image) error {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return fmt.Errorf("failed to convert frame: %w", err)
	}
	defer mat.Close()

	b := frame.Bounds()
	w.win.ResizeWindow(b.Dx(), b.Dy())
	w.win.IMShow(mat)
	return nil
}

func (w *gocvWindow) ShowStatus(lines []string) error {
	mat, err := gocv.ImageToMatRGB(processing.StatusFrame(w.width, w.height))
	if err != nil {
		return fmt.Errorf("failed to create status frame: %w", err)
	}
	defer mat.Close()

	y := 40
	for _, line := range lines {
		gocv.PutText(&mat, line, image.Pt(20, y), gocv.FontHersheySimplex, 0.7, color.RGBA{255, 255, 255, 255}, 1)
		y += 32
	}

	w.win.ResizeWindow(w.width, w.height)
	w.win.IMShow(mat)
	return nil
}

// WaitKey blocks until a key is pressed. HighGUI returns -1 at once when the
// window has been closed, which ParseKey reports as KeyNone.
func (w *gocvWindow) WaitKey() display.Key {
	return display.ParseKey(w.win.WaitKey(0))
}

func (w *gocvWindow) Close() error {
	return w.win.Close()
}
