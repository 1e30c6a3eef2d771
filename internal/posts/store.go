package posts

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// StoreConfig describes where posts live.
type StoreConfig struct {
	// Dir is reported in file paths and errors. It is not read when the store
	// is built on an explicit fs.FS.
	Dir string
	// Extension defaults to ".md".
	Extension string
}

// Store is a flat directory of post files. Slug is the filename without its
// extension; sub-directories are ignored.
type Store struct {
	fs  fs.FS
	dir string
	ext string
}

// File is a raw post read from the store.
type File struct {
	Slug    string
	Path    string
	Data    []byte
	ModTime time.Time
}

// NewStore constructs a Store over filesystem rooted at the content directory.
func NewStore(filesystem fs.FS, cfg StoreConfig) *Store {
	ext := strings.TrimSpace(cfg.Extension)
	if ext == "" {
		ext = ".md"
	}
	return &Store{
		fs:  filesystem,
		dir: filepath.Clean(cfg.Dir),
		ext: ext,
	}
}

// NewDirStore constructs a Store on the local directory cfg.Dir.
func NewDirStore(cfg StoreConfig) *Store {
	return NewStore(os.DirFS(cfg.Dir), cfg)
}

// Dir returns the configured content directory.
func (s *Store) Dir() string { return s.dir }

// Extension returns the content extension including its dot.
func (s *Store) Extension() string { return s.ext }

// Slugs enumerates post identifiers in lexical order.
func (s *Store) Slugs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(s.fs, ".")
	if err != nil {
		return nil, storeUnavailable("read dir", s.dir, err)
	}

	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || path.Ext(name) != s.ext {
			continue
		}
		slug := strings.TrimSuffix(name, s.ext)
		if !safeSlug(slug) {
			continue
		}
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)
	return slugs, nil
}

// Read loads the raw file for slug. Unknown or unsafe slugs return
// ErrPostNotFound; other failures return ErrContentStoreUnavailable.
func (s *Store) Read(ctx context.Context, slug string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !safeSlug(slug) {
		return nil, notFound(slug)
	}

	name := slug + s.ext
	data, err := fs.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(slug)
		}
		return nil, storeUnavailable("read", s.filePath(name), err)
	}

	var modTime time.Time
	if info, err := fs.Stat(s.fs, name); err == nil {
		modTime = info.ModTime()
	}

	return &File{
		Slug:    slug,
		Path:    s.filePath(name),
		Data:    data,
		ModTime: modTime,
	}, nil
}

func (s *Store) filePath(name string) string {
	if s.dir == "" || s.dir == "." {
		return name
	}
	return filepath.Join(s.dir, name)
}

// safeSlug accepts a single path element. Dots inside a name are fine; the
// element ".." is not.
func safeSlug(slug string) bool {
	if strings.TrimSpace(slug) == "" || slug == "." || slug == ".." {
		return false
	}
	if strings.ContainsAny(slug, `/\`) {
		return false
	}
	return fs.ValidPath(slug)
}
