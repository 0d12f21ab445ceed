// Package assets locates the shader sources used by the renderer.
//
// Sources are looked up in an overlay of directories on disk first, then in
// the set of shaders compiled into the binary, so a user can override any
// shader by dropping a file with the same name into one of the directories.
package assets

import (
	"embed"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/db47h/ofs"
	"github.com/pkg/errors"
)

//go:embed shaders/*.glsl
var embedded embed.FS

const embeddedDir = "shaders"

var (
	// ErrMissingSource is returned when a shader source cannot be found or read.
	ErrMissingSource = errors.New("shader source not found")
	// ErrEmptySource is returned when a shader source holds no code.
	ErrEmptySource = errors.New("shader source is empty")
)

// Source provides shading-language source text by name
type Source interface {
	ShaderSource(name string) (string, error)
}

type overlay struct {
	disk     ofs.FileSystem // nil when no directory exists
	fallback fs.FS
}

// NewShaderSource returns a Source reading from the given directories, in
// overlay order, and falling back to the embedded shaders. Directories
// that do not exist are skipped.
func NewShaderSource(dirs ...string) (Source, error) {
	var existing []string
	for _, d := range dirs {
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			existing = append(existing, d)
		}
	}

	o := &overlay{fallback: embedded}
	if len(existing) > 0 {
		var ovl ofs.Overlay
		if err := ovl.Add(false, existing...); err != nil {
			return nil, errors.Wrap(err, "mount shader directories")
		}
		o.disk = &ovl
	}
	return o, nil
}

// Embedded returns a Source backed only by the shaders compiled into the binary
func Embedded() Source {
	return &overlay{fallback: embedded}
}

func (o *overlay) ShaderSource(name string) (string, error) {
	if o.disk != nil {
		if f, err := o.disk.Open(name); err == nil {
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return "", errors.Wrapf(ErrMissingSource, "%s: %v", name, err)
			}
			return checkSource(name, data)
		}
	}

	data, err := fs.ReadFile(o.fallback, path.Join(embeddedDir, name))
	if err != nil {
		return "", errors.Wrap(ErrMissingSource, name)
	}
	return checkSource(name, data)
}

func checkSource(name string, data []byte) (string, error) {
	src := string(data)
	if strings.TrimSpace(src) == "" {
		return "", errors.Wrap(ErrEmptySource, name)
	}
	return src, nil
}

// Map is a Source backed by a map of names to sources
type Map map[string]string

func (m Map) ShaderSource(name string) (string, error) {
	src, ok := m[name]
	if !ok {
		return "", errors.Wrap(ErrMissingSource, name)
	}
	return checkSource(name, []byte(src))
}
