package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryPage    writeCategory = "page"
	categoryAsset   writeCategory = "asset"
	categorySitemap writeCategory = "sitemap"
	categoryRobots  writeCategory = "robots"
	categoryFeed    writeCategory = "feed"
)

// writeFileRequest describes a file write operation routed through the artifact writer.
type writeFileRequest struct {
	Path        string
	Content     io.Reader
	Category    writeCategory
	ContentType string
}

// artifactWriter abstracts where generator outputs land.
type artifactWriter interface {
	Clean(ctx context.Context) error
	WriteFile(ctx context.Context, req writeFileRequest) error
}

func newArtifactWriter(outputDir string, dryRun bool) artifactWriter {
	if dryRun {
		return noopWriter{}
	}
	return &fsWriter{root: outputDir}
}

// fsWriter writes artifacts under root on the local filesystem.
type fsWriter struct {
	root string
}

func (w *fsWriter) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	root := filepath.Clean(w.root)
	if root == "." || root == "/" || root == "" {
		return fmt.Errorf("generator: refusing to clean %q", w.root)
	}
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("generator: clean %s: %w", root, err)
	}
	return nil
}

func (w *fsWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}

	target := filepath.Join(w.root, filepath.FromSlash(req.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("generator: ensure dir for %s: %w", req.Path, err)
	}
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("generator: create %s: %w", req.Path, err)
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		_ = file.Close()
		return fmt.Errorf("generator: write %s: %w", req.Path, err)
	}
	return file.Close()
}

type noopWriter struct{}

func (noopWriter) Clean(context.Context) error { return nil }

func (noopWriter) WriteFile(context.Context, writeFileRequest) error { return nil }
