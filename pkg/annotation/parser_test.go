package annotation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	reviewerr "github.com/menta2k/voc-review/internal/errors"
	"github.com/menta2k/voc-review/pkg/types"
)

func vocXML(w, h int, boxes ...types.BoundingBox) string {
	var sb strings.Builder
	sb.WriteString("<annotation>\n<folder>imgs</folder>\n<filename>sample.png</filename>\n")
	sb.WriteString("<path>C:\\data\\imgs\\sample.png</path>\n")
	fmt.Fprintf(&sb, "<size><width>%d</width><height>%d</height><depth>3</depth></size>\n", w, h)
	for _, b := range boxes {
		fmt.Fprintf(&sb, "<object><name>%s</name><difficult>0</difficult>"+
			"<bndbox><xmin>%d</xmin><ymin>%d</ymin><xmax>%d</xmax><ymax>%d</ymax></bndbox></object>\n",
			b.Name, b.XMin, b.YMin, b.XMax, b.YMax)
	}
	sb.WriteString("</annotation>\n")
	return sb.String()
}

func TestParse(t *testing.T) {
	boxes := []types.BoundingBox{
		{Name: "car", XMin: 10, YMin: 20, XMax: 110, YMax: 220},
		{Name: "person", XMin: 0, YMin: 0, XMax: 5, YMax: 5},
		{Name: "car", XMin: 300, YMin: 100, XMax: 639, YMax: 479},
	}

	rec, err := Parse(strings.NewReader(vocXML(640, 480, boxes...)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if rec.Width != 640 || rec.Height != 480 {
		t.Errorf("Expected 640x480, got %dx%d", rec.Width, rec.Height)
	}
	if rec.Filename != "sample.png" {
		t.Errorf("Expected filename sample.png, got %q", rec.Filename)
	}
	if len(rec.Boxes) != len(boxes) {
		t.Fatalf("Expected %d boxes, got %d", len(boxes), len(rec.Boxes))
	}
	for i := range boxes {
		if rec.Boxes[i] != boxes[i] {
			t.Errorf("Box %d: expected %+v, got %+v", i, boxes[i], rec.Boxes[i])
		}
	}
}

func TestParseNoObjects(t *testing.T) {
	rec, err := Parse(strings.NewReader(vocXML(32, 16)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(rec.Boxes) != 0 {
		t.Errorf("Expected no boxes, got %d", len(rec.Boxes))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "this is not xml"},
		{"unclosed", "<annotation><size><width>10</width>"},
		{"missing size", "<annotation><filename>a.png</filename></annotation>"},
		{"missing width", "<annotation><size><height>10</height></size></annotation>"},
		{"missing height", "<annotation><size><width>10</width></size></annotation>"},
		{"zero width", "<annotation><size><width>0</width><height>10</height></size></annotation>"},
		{"non integer size", "<annotation><size><width>ten</width><height>10</height></size></annotation>"},
		{"missing coordinate", "<annotation><size><width>10</width><height>10</height></size>" +
			"<object><name>car</name><bndbox><xmin>1</xmin><ymin>1</ymin><xmax>5</xmax></bndbox></object></annotation>"},
		{"missing bndbox", "<annotation><size><width>10</width><height>10</height></size>" +
			"<object><name>car</name></object></annotation>"},
		{"missing name", "<annotation><size><width>10</width><height>10</height></size>" +
			"<object><bndbox><xmin>1</xmin><ymin>1</ymin><xmax>5</xmax><ymax>5</ymax></bndbox></object></annotation>"},
		{"float coordinate", "<annotation><size><width>10</width><height>10</height></size>" +
			"<object><name>car</name><bndbox><xmin>1.5</xmin><ymin>1</ymin><xmax>5</xmax><ymax>5</ymax></bndbox></object></annotation>"},
		{"inverted box", "<annotation><size><width>10</width><height>10</height></size>" +
			"<object><name>car</name><bndbox><xmin>6</xmin><ymin>1</ymin><xmax>5</xmax><ymax>5</ymax></bndbox></object></annotation>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !reviewerr.IsParseError(err) {
				t.Errorf("Expected PARSE_ERROR, got %v", err)
			}
		})
	}
}

func TestParseOutOfImageBoundsAllowed(t *testing.T) {
	doc := vocXML(10, 10, types.BoundingBox{Name: "car", XMin: 5, YMin: 5, XMax: 50, YMax: 50})
	rec, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Boxes outside the image must not be rejected: %v", err)
	}
	if rec.Boxes[0].XMax != 50 {
		t.Errorf("Expected xmax 50, got %d", rec.Boxes[0].XMax)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.xml")
	if err := os.WriteFile(path, []byte(vocXML(8, 8, types.BoundingBox{Name: "x", XMin: 1, YMin: 1, XMax: 2, YMax: 2})), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(rec.Boxes) != 1 {
		t.Errorf("Expected 1 box, got %d", len(rec.Boxes))
	}

	_, err = ParseFile(filepath.Join(dir, "missing.xml"))
	if !reviewerr.IsIOError(err) {
		t.Errorf("Expected IO_ERROR for missing file, got %v", err)
	}

	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(bad, []byte("<annotation>"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ParseFile(bad)
	if !reviewerr.IsParseError(err) {
		t.Errorf("Expected PARSE_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), bad) {
		t.Errorf("Expected error to name %s, got %v", bad, err)
	}
}
