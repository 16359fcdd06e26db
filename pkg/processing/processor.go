package processing

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	reviewerr "github.com/menta2k/voc-review/internal/errors"
	"github.com/menta2k/voc-review/pkg/types"
)

// Overlay weights: result = image*ImageWeight + mask*MaskWeight on labelled pixels
const (
	ImageWeight = 0.7
	MaskWeight  = 0.3
)

// ColorLookup resolves a class name to its display colour
type ColorLookup interface {
	Color(name string) (color.RGBA, bool)
}

// Processor handles image loading and review frame composition
type Processor struct {
	// Outline draws a border of this many pixels in the class colour around
	// each registered box after blending. 0 disables it.
	Outline int
}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	img, openErr := imaging.Open(path)
	if openErr == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, reviewerr.NewIOError(path, "open image", err)
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, reviewerr.NewIOError(path, "decode image", openErr)
}

// RenderMask rasterises the record's boxes into a Width x Height mask.
// Unlabelled pixels stay transparent black; boxes of unknown classes are
// skipped and later boxes paint over earlier ones.
func (p *Processor) RenderMask(rec *types.AnnotationRecord, classes ColorLookup) *image.RGBA {
	mask := image.NewRGBA(image.Rect(0, 0, rec.Width, rec.Height))
	gc := draw2dimg.NewGraphicContext(mask)

	for _, box := range rec.Boxes {
		c, ok := classes.Color(box.Name)
		if !ok {
			continue
		}
		c.A = 255
		r := box.Rect()
		gc.SetFillColor(c)
		draw2dkit.Rectangle(gc, float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
		gc.Fill()
	}

	return mask
}

// Blend overlays the mask on img with the fixed review weights
func (p *Processor) Blend(img image.Image, mask image.Image) *image.NRGBA {
	return imaging.Overlay(img, mask, image.Pt(0, 0), MaskWeight)
}

// Compose renders, blends and outlines one review frame
func (p *Processor) Compose(img image.Image, rec *types.AnnotationRecord, classes ColorLookup) *image.NRGBA {
	out := p.Blend(img, p.RenderMask(rec, classes))
	if p.Outline > 0 {
		for _, box := range rec.Boxes {
			c, ok := classes.Color(box.Name)
			if !ok {
				continue
			}
			drawBox(out, box.Rect(), color.NRGBA{c.R, c.G, c.B, 255}, p.Outline)
		}
	}
	return out
}

// ScaleFactor returns the factor fitting w x h into the display, never above 1
func ScaleFactor(w, h, displayW, displayH int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	ratio := math.Min(float64(displayW)/float64(w), float64(displayH)/float64(h))
	return math.Min(ratio, 1.0)
}

// DisplaySize returns the frame size shown for a w x h image
func DisplaySize(w, h, displayW, displayH int) (int, int, float64) {
	scale := ScaleFactor(w, h, displayW, displayH)
	if scale >= 1 {
		return w, h, 1
	}
	sw := maxInt(1, int(math.Round(float64(w)*scale)))
	sh := maxInt(1, int(math.Round(float64(h)*scale)))
	return sw, sh, scale
}

// FitToDisplay downscales img to fit the display; smaller images are returned as is
func (p *Processor) FitToDisplay(img image.Image, displayW, displayH int) (image.Image, float64) {
	b := img.Bounds()
	sw, sh, scale := DisplaySize(b.Dx(), b.Dy(), displayW, displayH)
	if scale >= 1 {
		return img, 1
	}
	return imaging.Resize(img, sw, sh, imaging.Linear), scale
}

// StatusFrame returns a dark background used when a pair cannot be shown
func StatusFrame(w, h int) *image.NRGBA {
	return imaging.New(maxInt(w, 1), maxInt(h, 1), color.NRGBA{24, 24, 24, 255})
}

// Describe summarises a record for logs
func Describe(rec *types.AnnotationRecord, classes ColorLookup) string {
	known := 0
	for _, box := range rec.Boxes {
		if _, ok := classes.Color(box.Name); ok {
			known++
		}
	}
	return fmt.Sprintf("%dx%d, %d boxes (%d drawn)", rec.Width, rec.Height, len(rec.Boxes), known)
}

// Helper functions
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func drawBox(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, c)
		drawHLine(img, y1-1-s, x0, x1, c)
		drawVLine(img, x0+s, y0, y1, c)
		drawVLine(img, x1-1-s, y0, y1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
