package classes

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	reviewerr "github.com/menta2k/voc-review/internal/errors"
)

func TestParse(t *testing.T) {
	input := "car 255 0 0\nperson 0 255 0\n\ntruck 0 0 255 extra\n"

	reg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if reg.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", reg.Len())
	}

	expectedNames := []string{"car", "person", "truck"}
	expectedColors := []color.RGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
	}
	for i := range expectedNames {
		if reg.Names[i] != expectedNames[i] {
			t.Errorf("Names[%d]: expected %s, got %s", i, expectedNames[i], reg.Names[i])
		}
		if reg.Colors[i] != expectedColors[i] {
			t.Errorf("Colors[%d]: expected %v, got %v", i, expectedColors[i], reg.Colors[i])
		}
		c, ok := reg.Color(expectedNames[i])
		if !ok || c != expectedColors[i] {
			t.Errorf("Color(%s): expected %v, got %v (ok=%v)", expectedNames[i], expectedColors[i], c, ok)
		}
	}

	if _, ok := reg.Color("bicycle"); ok {
		t.Error("Unregistered class should not resolve")
	}
}

func TestParseDuplicateLastWins(t *testing.T) {
	reg, err := Parse(strings.NewReader("car 1 2 3\ncar 4 5 6\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	c, _ := reg.Color("car")
	if c != (color.RGBA{4, 5, 6, 255}) {
		t.Errorf("Expected last occurrence to win, got %v", c)
	}
	if reg.Len() != 1 {
		t.Errorf("Expected 1 distinct class, got %d", reg.Len())
	}
	if len(reg.Entries()) != 2 {
		t.Errorf("Expected entries to keep both lines, got %d", len(reg.Entries()))
	}
}

func TestParseFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few fields", "car 255 0\n"},
		{"non integer", "car 255 x 0\n"},
		{"out of range", "car 256 0 0\n"},
		{"negative", "car -1 0 0\n"},
		{"bad second line", "car 1 2 3\nperson\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !reviewerr.IsFormatError(err) {
				t.Errorf("Expected FORMAT_ERROR, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.txt")
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "class"+string(rune('a'+i))+" 10 20 30")
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reg.Len() != 20 {
		t.Errorf("Expected 20 entries, got %d", reg.Len())
	}
	if reg.Names[0] != "classa" || reg.Names[19] != "classt" {
		t.Errorf("Unexpected order: %v", reg.Names)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if !reviewerr.IsIOError(err) {
		t.Errorf("Expected IO_ERROR, got %v", err)
	}
}
