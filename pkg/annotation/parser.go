package annotation

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	reviewerr "github.com/menta2k/voc-review/internal/errors"
	"github.com/menta2k/voc-review/pkg/types"
)

type vocDocument struct {
	Filename string      `xml:"filename"`
	Path     string      `xml:"path"`
	Size     *vocSize    `xml:"size"`
	Objects  []vocObject `xml:"object"`
}

type vocSize struct {
	Width  *string `xml:"width"`
	Height *string `xml:"height"`
}

type vocObject struct {
	Name   *string    `xml:"name"`
	BndBox *vocBndBox `xml:"bndbox"`
}

type vocBndBox struct {
	XMin *string `xml:"xmin"`
	YMin *string `xml:"ymin"`
	XMax *string `xml:"xmax"`
	YMax *string `xml:"ymax"`
}

// ParseFile reads a Pascal VOC annotation file
func ParseFile(path string) (*types.AnnotationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, reviewerr.NewIOError(path, "open annotation", err)
	}
	defer f.Close()

	return parse(f, path)
}

// Parse reads a Pascal VOC annotation document from r
func Parse(r io.Reader) (*types.AnnotationRecord, error) {
	return parse(r, "")
}

func parse(r io.Reader, source string) (*types.AnnotationRecord, error) {
	var doc vocDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, reviewerr.NewParseError(source, "malformed XML", err)
	}

	if doc.Size == nil {
		return nil, reviewerr.NewParseError(source, "missing <size> element", nil)
	}
	width, err := positiveField(source, "size/width", doc.Size.Width)
	if err != nil {
		return nil, err
	}
	height, err := positiveField(source, "size/height", doc.Size.Height)
	if err != nil {
		return nil, err
	}

	rec := &types.AnnotationRecord{
		Filename: strings.TrimSpace(doc.Filename),
		Path:     strings.TrimSpace(doc.Path),
		Width:    width,
		Height:   height,
		Boxes:    make([]types.BoundingBox, 0, len(doc.Objects)),
	}

	for i, obj := range doc.Objects {
		box, err := toBox(source, i, obj)
		if err != nil {
			return nil, err
		}
		rec.Boxes = append(rec.Boxes, box)
	}

	return rec, nil
}

func toBox(source string, idx int, obj vocObject) (types.BoundingBox, error) {
	if obj.Name == nil || strings.TrimSpace(*obj.Name) == "" {
		return types.BoundingBox{}, reviewerr.NewParseError(source, fmt.Sprintf("object %d: missing <name>", idx), nil)
	}
	if obj.BndBox == nil {
		return types.BoundingBox{}, reviewerr.NewParseError(source, fmt.Sprintf("object %d: missing <bndbox>", idx), nil)
	}

	fields := []struct {
		name string
		raw  *string
	}{
		{"xmin", obj.BndBox.XMin},
		{"ymin", obj.BndBox.YMin},
		{"xmax", obj.BndBox.XMax},
		{"ymax", obj.BndBox.YMax},
	}
	var coords [4]int
	for i, f := range fields {
		v, err := intField(source, fmt.Sprintf("object %d: bndbox/%s", idx, f.name), f.raw)
		if err != nil {
			return types.BoundingBox{}, err
		}
		coords[i] = v
	}

	box := types.BoundingBox{
		Name: strings.TrimSpace(*obj.Name),
		XMin: coords[0],
		YMin: coords[1],
		XMax: coords[2],
		YMax: coords[3],
	}
	if box.XMin < 0 || box.YMin < 0 || box.XMin >= box.XMax || box.YMin >= box.YMax {
		return types.BoundingBox{}, reviewerr.NewParseError(source,
			fmt.Sprintf("object %d: invalid box (%d,%d)-(%d,%d)", idx, box.XMin, box.YMin, box.XMax, box.YMax), nil)
	}
	return box, nil
}

func intField(source, name string, raw *string) (int, error) {
	if raw == nil {
		return 0, reviewerr.NewParseError(source, fmt.Sprintf("missing <%s>", name), nil)
	}
	v, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return 0, reviewerr.NewParseError(source, fmt.Sprintf("<%s> is not an integer", name), err)
	}
	return v, nil
}

func positiveField(source, name string, raw *string) (int, error) {
	v, err := intField(source, name, raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, reviewerr.NewParseError(source, fmt.Sprintf("<%s> must be positive, got %d", name, v), nil)
	}
	return v, nil
}
