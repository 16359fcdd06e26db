package classes

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	reviewerr "github.com/menta2k/voc-review/internal/errors"
	"github.com/menta2k/voc-review/pkg/types"
)

// Registry maps class names to display colours.
// Names and Colors keep file order; lookups use the last occurrence of a name.
type Registry struct {
	Names  []string
	Colors []color.RGBA
	byName map[string]color.RGBA
}

// Load reads a class colour file with one "name R G B" entry per line
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, reviewerr.NewIOError(path, "open class file", err)
	}
	defer f.Close()

	return parse(f, path)
}

// Parse reads class colour lines from r
func Parse(r io.Reader) (*Registry, error) {
	return parse(r, "")
}

func parse(r io.Reader, source string) (*Registry, error) {
	reg := &Registry{byName: make(map[string]color.RGBA)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, reviewerr.NewFormatError(source, lineNo,
				fmt.Sprintf("expected \"name R G B\", got %d fields", len(fields)), nil)
		}

		var rgb [3]uint8
		for i, s := range fields[1:4] {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, reviewerr.NewFormatError(source, lineNo,
					fmt.Sprintf("colour component %q is not an integer", s), err)
			}
			if v < 0 || v > 255 {
				return nil, reviewerr.NewFormatError(source, lineNo,
					fmt.Sprintf("colour component %d out of range 0-255", v), nil)
			}
			rgb[i] = uint8(v)
		}

		c := color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
		reg.Names = append(reg.Names, fields[0])
		reg.Colors = append(reg.Colors, c)
		reg.byName[fields[0]] = c
	}
	if err := scanner.Err(); err != nil {
		return nil, reviewerr.NewIOError(source, "read class file", err)
	}

	return reg, nil
}

// Color returns the display colour for a class name
func (r *Registry) Color(name string) (color.RGBA, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Len returns the number of distinct class names
func (r *Registry) Len() int {
	return len(r.byName)
}

// Entries returns the classes in file order
func (r *Registry) Entries() []types.ClassColor {
	out := make([]types.ClassColor, len(r.Names))
	for i, name := range r.Names {
		out[i] = types.ClassColor{Name: name, Color: r.Colors[i]}
	}
	return out
}
