package annotation

import (
	"fmt"
	"path/filepath"
	"strings"

	reviewerr "github.com/menta2k/voc-review/internal/errors"
	"github.com/menta2k/voc-review/pkg/types"
)

// Companion image resolution strategies
const (
	StrategyExtension    = "ext"
	StrategyDeclaredPath = "path"
)

// Resolver locates the image an annotation file describes
type Resolver interface {
	// NeedsRecord reports whether Resolve reads the parsed annotation.
	NeedsRecord() bool
	Resolve(annotationPath string, rec *types.AnnotationRecord) (string, error)
}

// NewResolver returns the resolver for a strategy name
func NewResolver(strategy, ext string) (Resolver, error) {
	switch strategy {
	case StrategyExtension, "":
		if ext == "" {
			ext = "png"
		}
		return ExtensionResolver{Ext: strings.TrimPrefix(ext, ".")}, nil
	case StrategyDeclaredPath:
		return DeclaredPathResolver{}, nil
	default:
		return nil, fmt.Errorf("unknown companion strategy %q (use %q or %q)", strategy, StrategyExtension, StrategyDeclaredPath)
	}
}

// ExtensionResolver swaps the annotation's extension for Ext: a/b/foo.xml -> a/b/foo.png
type ExtensionResolver struct {
	Ext string
}

func (r ExtensionResolver) NeedsRecord() bool { return false }

func (r ExtensionResolver) Resolve(annotationPath string, _ *types.AnnotationRecord) (string, error) {
	base := strings.TrimSuffix(annotationPath, filepath.Ext(annotationPath))
	return base + "." + r.Ext, nil
}

// DeclaredPathResolver uses the basename of the annotation's <path> (or <filename>)
// and looks for it next to the annotation file.
type DeclaredPathResolver struct{}

func (DeclaredPathResolver) NeedsRecord() bool { return true }

func (DeclaredPathResolver) Resolve(annotationPath string, rec *types.AnnotationRecord) (string, error) {
	if rec == nil {
		return "", reviewerr.NewParseError(annotationPath, "no annotation record to read the image path from", nil)
	}
	declared := rec.Path
	if declared == "" {
		declared = rec.Filename
	}
	name := baseName(declared)
	if name == "" {
		return "", reviewerr.NewParseError(annotationPath, "missing <path> and <filename>", nil)
	}
	return filepath.Join(filepath.Dir(annotationPath), name), nil
}

// baseName strips both / and \ directories; labelImg on Windows writes the latter.
func baseName(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' || p[i] == '\\' {
			return p[i+1:]
		}
	}
	return p
}
