// Package disk provides read-only access to the static site deployed on the local filesystem.
// Lookups go through an os.Root, so no name can resolve outside the site directory,
// whether through ".." segments or symlinks.
package disk

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinoosan/sitehost/internal/errs"
)

const (
	// IndexDocument is served for directory paths.
	IndexDocument = "index.html"
	// NotFoundDocument, when present at the root, is the body of 404 responses.
	NotFoundDocument = "404.html"
)

// Store serves assets below a single directory.
type Store struct {
	dir  string
	root *os.Root
}

// Asset is an opened regular file ready to be served. Callers must Close it.
type Asset struct {
	// Name is the slash-separated path of the file relative to the root.
	Name    string
	ModTime time.Time
	Size    int64
	// Index reports that the asset was resolved from a directory path.
	Index   bool
	Content io.ReadSeeker

	file *os.File
}

// Close releases the underlying file.
func (a *Asset) Close() error { return a.file.Close() }

// Open validates dir and opens it as the site root.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: static dir is empty", errs.ErrInvalid)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir %q: %w", dir, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("static dir %q: %w", abs, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: static dir %q is not a directory", errs.ErrInvalid, abs)
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("open static root %q: %w", abs, err)
	}
	return &Store{dir: abs, root: root}, nil
}

// Dir returns the absolute path of the site root.
func (s *Store) Dir() string { return s.dir }

// Close releases the root handle.
func (s *Store) Close() error { return s.root.Close() }

// Open resolves a request path to a regular file. A directory resolves to its
// index document. Every failure to resolve, including attempts to leave the
// root, is reported as errs.ErrNotFound.
func (s *Store) Open(name string) (*Asset, error) {
	rel, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	f, fi, err := s.openStat(rel)
	if err != nil {
		return nil, err
	}
	index := false
	if fi.IsDir() {
		_ = f.Close()
		rel = path.Join(rel, IndexDocument)
		if f, fi, err = s.openStat(rel); err != nil {
			return nil, err
		}
		index = true
	}
	if !fi.Mode().IsRegular() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is not a regular file", errs.ErrNotFound, rel)
	}
	return &Asset{
		Name:    rel,
		ModTime: fi.ModTime(),
		Size:    fi.Size(),
		Index:   index,
		Content: f,
		file:    f,
	}, nil
}

func (s *Store) openStat(rel string) (*os.File, os.FileInfo, error) {
	f, err := s.root.Open(rel)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", errs.ErrNotFound, rel, err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%w: %s: %v", errs.ErrNotFound, rel, err)
	}
	return f, fi, nil
}

// cleanName turns a URL path into a root-relative name. The path is cleaned
// as if rooted, so ".." can never climb above the site directory.
func cleanName(name string) (string, error) {
	if strings.ContainsAny(name, "\x00\\") {
		return "", fmt.Errorf("%w: invalid path %q", errs.ErrNotFound, name)
	}
	rel := strings.TrimPrefix(path.Clean("/"+name), "/")
	if rel == "" {
		rel = "."
	}
	return rel, nil
}
