package diagrams

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// CLIConfig configures the mermaid-cli engine.
type CLIConfig struct {
	// Bin is the mmdc executable, "mmdc" when empty.
	Bin        string
	Background string
}

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// CLIEngine renders diagrams by shelling out to mermaid-cli. Every call uses
// its own temporary directory, so concurrent use is safe.
type CLIEngine struct {
	cfg CLIConfig
	run commandRunner
}

var _ interfaces.DiagramEngine = (*CLIEngine)(nil)

// NewCLIEngine constructs an mmdc backed engine.
func NewCLIEngine(cfg CLIConfig) *CLIEngine {
	if strings.TrimSpace(cfg.Bin) == "" {
		cfg.Bin = "mmdc"
	}
	if strings.TrimSpace(cfg.Background) == "" {
		cfg.Background = "transparent"
	}
	return &CLIEngine{cfg: cfg, run: runCommand}
}

// Render writes source to a temporary .mmd file and returns the SVG mmdc
// produces for it.
func (e *CLIEngine) Render(ctx context.Context, source string, theme interfaces.DiagramTheme) ([]byte, error) {
	dir, err := os.MkdirTemp("", "folio-mmdc-*")
	if err != nil {
		return nil, fmt.Errorf("mmdc: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.mmd")
	output := filepath.Join(dir, "output.svg")
	if err := os.WriteFile(input, []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("mmdc: write input: %w", err)
	}

	args := []string{
		"-i", input,
		"-o", output,
		"-t", EngineTheme(theme),
		"-b", e.cfg.Background,
		"--quiet",
	}
	if out, err := e.run(ctx, e.cfg.Bin, args...); err != nil {
		return nil, fmt.Errorf("mmdc: %w: %s", err, strings.TrimSpace(string(out)))
	}

	svg, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("mmdc: read output: %w", err)
	}
	return svg, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
