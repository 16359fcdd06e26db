package annotation

import (
	"path/filepath"
	"testing"

	"github.com/menta2k/voc-review/pkg/types"
)

func TestExtensionResolver(t *testing.T) {
	r, err := NewResolver(StrategyExtension, ".jpg")
	if err != nil {
		t.Fatal(err)
	}
	if r.NeedsRecord() {
		t.Error("Extension strategy should not need the record")
	}

	got, _ := r.Resolve(filepath.Join("data", "set", "foo.bar.xml"), nil)
	want := filepath.Join("data", "set", "foo.bar.jpg")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestDefaultStrategy(t *testing.T) {
	r, err := NewResolver("", "")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := r.Resolve("foo.xml", nil)
	if got != "foo.png" {
		t.Errorf("Expected foo.png, got %s", got)
	}
}

func TestDeclaredPathResolver(t *testing.T) {
	r, err := NewResolver(StrategyDeclaredPath, "")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		rec  types.AnnotationRecord
		want string
	}{
		{"unix path", types.AnnotationRecord{Path: "/home/u/imgs/a.jpg"}, "a.jpg"},
		{"windows path", types.AnnotationRecord{Path: `C:\data\imgs\b.png`}, "b.png"},
		{"filename fallback", types.AnnotationRecord{Filename: "c.bmp"}, "c.bmp"},
	}

	dir := filepath.Join("in", "sub")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			got, err := r.Resolve(filepath.Join(dir, "ann.xml"), &rec)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if want := filepath.Join(dir, tt.want); got != want {
				t.Errorf("Expected %s, got %s", want, got)
			}
		})
	}

	if _, err := r.Resolve("ann.xml", &types.AnnotationRecord{}); err == nil {
		t.Error("Expected error when neither path nor filename is declared")
	}
	if _, err := r.Resolve("ann.xml", nil); err == nil {
		t.Error("Expected error without a record")
	}
}

func TestUnknownStrategy(t *testing.T) {
	if _, err := NewResolver("guess", "png"); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}
