package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	reviewerr "github.com/menta2k/voc-review/internal/errors"
	"github.com/menta2k/voc-review/pkg/types"
)

// EnsureDir creates a directory if it doesn't exist and reports whether it did
func EnsureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, err
	}
	return true, os.MkdirAll(dir, 0o755)
}

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsAnnotationFile checks if a file has the .xml extension
func IsAnnotationFile(filename string) bool {
	return GetFileExtension(filename) == "xml"
}

// ListAnnotationFiles recursively lists all annotation files in a directory
func ListAnnotationFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && IsAnnotationFile(path) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && info.IsDir()
}

// MoveFile renames src into dir keeping its basename. It refuses to overwrite.
func MoveFile(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	if _, err := os.Lstat(dst); err == nil {
		return "", reviewerr.NewIOError(dst, "move "+filepath.Base(src), os.ErrExist)
	}
	if err := os.Rename(src, dst); err != nil {
		return "", reviewerr.NewIOError(src, "move "+filepath.Base(src), err)
	}
	return dst, nil
}

// MovePair moves an image and its annotation into dir, image first.
// Nothing is moved unless dir exists, the image exists and the annotation
// name is free in dir. If the annotation cannot be moved the image is put back.
func MovePair(pair types.Pair, dir string) (types.Pair, error) {
	if !DirExists(dir) {
		return types.Pair{}, reviewerr.NewIOError(dir, "move "+filepath.Base(pair.Annotation), os.ErrNotExist)
	}
	if !FileExists(pair.Image) {
		return types.Pair{}, reviewerr.NewIOError(pair.Image, "move "+filepath.Base(pair.Image), os.ErrNotExist)
	}
	if _, err := os.Lstat(filepath.Join(dir, filepath.Base(pair.Annotation))); err == nil {
		return types.Pair{}, reviewerr.NewIOError(filepath.Join(dir, filepath.Base(pair.Annotation)),
			"move "+filepath.Base(pair.Annotation), os.ErrExist)
	}

	img, err := MoveFile(pair.Image, dir)
	if err != nil {
		return types.Pair{}, err
	}

	ann, err := MoveFile(pair.Annotation, dir)
	if err != nil {
		if rerr := os.Rename(img, pair.Image); rerr != nil {
			return types.Pair{}, fmt.Errorf("%w; rollback of %s also failed: %v", err, img, rerr)
		}
		return types.Pair{}, err
	}

	return types.Pair{Annotation: ann, Image: img}, nil
}
