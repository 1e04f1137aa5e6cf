package static

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"strings"
)

//go:embed all:public
var assets embed.FS

// ErrNotFound reports a path with no backing resource.
var ErrNotFound = errors.New("static: resource not found")

// Resolver reads the byte payload for a resolved resource path.
type Resolver interface {
	Read(path string) ([]byte, error)
}

// FS serves resources from a file system tree; paths are rooted at the
// tree ("/index.html" reads index.html).
type FS struct {
	fsys fs.FS
}

// NewEmbedded serves the asset tree compiled into the binary.
func NewEmbedded() *FS {
	sub, err := fs.Sub(assets, "public")
	if err != nil {
		// The embedded tree always contains public/.
		panic(err)
	}
	return &FS{fsys: sub}
}

// NewDir serves resources from a directory on disk.
func NewDir(dir string) *FS {
	return &FS{fsys: os.DirFS(dir)}
}

func (f *FS) Read(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "/")
	if !fs.ValidPath(name) || name == "." {
		return nil, ErrNotFound
	}

	data, err := fs.ReadFile(f.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
