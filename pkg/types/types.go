package types

import (
	"image"
	"image/color"
)

// ClassColor pairs a class name with its display colour
type ClassColor struct {
	Name  string     `json:"name"`
	Color color.RGBA `json:"color"`
}

// BoundingBox is an axis-aligned labelled region in pixel coordinates.
// Both corners are inclusive, as in Pascal VOC.
type BoundingBox struct {
	Name string `json:"name"`
	XMin int    `json:"xmin"`
	YMin int    `json:"ymin"`
	XMax int    `json:"xmax"`
	YMax int    `json:"ymax"`
}

// Rect returns the half-open rectangle covering the box's pixels
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.XMin, b.YMin, b.XMax+1, b.YMax+1)
}

// AnnotationRecord is the content of one annotation file
type AnnotationRecord struct {
	Filename string        `json:"filename"`
	Path     string        `json:"path"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Boxes    []BoundingBox `json:"boxes"`
}

// Pair is an annotation file and the image it describes
type Pair struct {
	Annotation string `json:"annotation"`
	Image      string `json:"image"`
}
