package diagrams

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

var graphExtensions = []string{".mmd", ".mermaid", ".md"}

// GraphResult describes one standalone graph source.
type GraphResult struct {
	Source    string
	Artifacts []string
	Err       error
}

// GenerateGraphs renders standalone diagram files from GraphsDir into
// GraphsOutputDir as <name>.svg. Markdown sources may hold several blocks;
// those are written as <name>-<n>.svg. Files are processed one at a time and
// a failing file does not stop the rest.
func (s *Service) GenerateGraphs(ctx context.Context) ([]GraphResult, error) {
	if s.engine == nil {
		return nil, errors.New("diagrams: engine is required")
	}
	if _, err := os.Stat(s.cfg.GraphsDir); errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("diagrams.graphs.none", "dir", s.cfg.GraphsDir)
		return nil, nil
	}
	if err := os.MkdirAll(s.cfg.GraphsOutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("diagrams: create graphs output dir: %w", err)
	}

	files, err := s.discover(s.cfg.GraphsDir, func(path string) bool {
		ext := strings.ToLower(filepath.Ext(path))
		for _, candidate := range graphExtensions {
			if ext == candidate {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		s.logger.Info("diagrams.graphs.none", "dir", s.cfg.GraphsDir)
		return nil, nil
	}

	results := make([]GraphResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := s.generateGraph(ctx, path)
		if result.Err != nil {
			s.logger.Error("diagrams.graph.failed", "path", path, "error", result.Err)
		} else {
			s.logger.Info("diagrams.graph.generated", "path", path, "artifacts", len(result.Artifacts))
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) generateGraph(ctx context.Context, path string) GraphResult {
	result := GraphResult{Source: path}
	source, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("diagrams: read %s: %w", path, err)
		return result
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var codes []string
	if strings.EqualFold(filepath.Ext(path), ".md") {
		for _, block := range Scan(source, s.cfg.Language) {
			codes = append(codes, block.Code)
		}
	} else if code := strings.TrimSpace(string(source)); code != "" {
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		result.Err = fmt.Errorf("diagrams: %s holds no diagram", path)
		return result
	}

	for i, code := range codes {
		target := name + ".svg"
		if len(codes) > 1 {
			target = fmt.Sprintf("%s-%d.svg", name, i+1)
		}
		svg, err := s.engine.Render(ctx, code, interfaces.DiagramThemeLight)
		if err != nil {
			result.Err = blockFailed(name, string(interfaces.DiagramThemeLight), err)
			return result
		}
		target = filepath.Join(s.cfg.GraphsOutputDir, target)
		if err := os.WriteFile(target, svg, 0o644); err != nil {
			result.Err = fmt.Errorf("diagrams: write %s: %w", target, err)
			return result
		}
		result.Artifacts = append(result.Artifacts, target)
	}
	return result
}
