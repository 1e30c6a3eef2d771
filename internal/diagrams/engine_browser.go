package diagrams

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// BrowserConfig configures the headless Chrome engine.
type BrowserConfig struct {
	// Bin overrides the browser executable; rod downloads one when empty.
	Bin string
	// ControlURL connects to an already running browser instead of launching.
	ControlURL string
	// Script is the URL of the mermaid bundle injected into the page.
	Script     string
	Background string
}

const renderScript = `async (id, code, theme, background) => {
	mermaid.initialize({
		startOnLoad: false,
		theme: theme,
		securityLevel: 'loose',
		fontFamily: 'monospace',
		themeVariables: { background: background },
	});
	const { svg } = await mermaid.render(id, code);
	return svg;
}`

// browserProcess is the part of *launcher.Launcher the engine drives.
type browserProcess interface {
	Launch() (string, error)
	Kill()
	Cleanup()
}

type connectFunc func(ctx context.Context, controlURL, script string) (*rod.Browser, *rod.Page, error)

// BrowserEngine loads mermaid.js into a headless page and calls
// mermaid.render. Calls are serialized on a single page.
type BrowserEngine struct {
	cfg     BrowserConfig
	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
	proc    browserProcess
	seq     atomic.Int64

	newProcess func(BrowserConfig) browserProcess
	connect    connectFunc
}

var _ interfaces.DiagramEngine = (*BrowserEngine)(nil)

// NewBrowserEngine returns an engine that starts the browser lazily.
func NewBrowserEngine(cfg BrowserConfig) *BrowserEngine {
	if strings.TrimSpace(cfg.Script) == "" {
		cfg.Script = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"
	}
	if strings.TrimSpace(cfg.Background) == "" {
		cfg.Background = "transparent"
	}
	return &BrowserEngine{
		cfg:        cfg,
		newProcess: newLauncher,
		connect:    connectPage,
	}
}

func newLauncher(cfg BrowserConfig) browserProcess {
	l := launcher.New().Headless(true)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	return l
}

// Render evaluates mermaid.render for source in the requested theme.
func (e *BrowserEngine) Render(ctx context.Context, source string, theme interfaces.DiagramTheme) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	page, err := e.ensurePage(ctx)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("folio-diagram-%d", e.seq.Add(1))
	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           renderScript,
		JSArgs:       []any{id, source, EngineTheme(theme), e.cfg.Background},
		AwaitPromise: true,
		ByValue:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: mermaid render: %w", err)
	}
	svg := res.Value.Str()
	if strings.TrimSpace(svg) == "" {
		return nil, fmt.Errorf("browser: mermaid render returned no svg")
	}
	return []byte(svg), nil
}

// Close shuts the browser down and kills a browser process the engine launched.
func (e *BrowserEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if e.browser != nil {
		err = e.browser.Close()
	}
	e.stopProcess()
	e.browser, e.page = nil, nil
	return err
}

func (e *BrowserEngine) stopProcess() {
	if e.proc == nil {
		return
	}
	e.proc.Kill()
	e.proc.Cleanup()
	e.proc = nil
}

func (e *BrowserEngine) ensurePage(ctx context.Context) (*rod.Page, error) {
	if e.page != nil {
		return e.page, nil
	}

	controlURL := e.cfg.ControlURL
	if controlURL == "" {
		proc := e.newProcess(e.cfg)
		u, err := proc.Launch()
		if err != nil {
			proc.Kill()
			proc.Cleanup()
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		e.proc = proc
		controlURL = u
	}

	browser, page, err := e.connect(ctx, controlURL, e.cfg.Script)
	if err != nil {
		e.stopProcess()
		return nil, err
	}

	e.browser = browser
	e.page = page
	return page, nil
}

func connectPage(ctx context.Context, controlURL, script string) (*rod.Browser, *rod.Page, error) {
	// The browser outlives any single call; only evaluations take ctx.
	browser := rod.New().ControlURL(controlURL).Context(context.WithoutCancel(ctx))
	if err := browser.Connect(); err != nil {
		return nil, nil, fmt.Errorf("browser: connect: %w", err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return nil, nil, fmt.Errorf("browser: open page: %w", err)
	}
	if err := page.AddScriptTag(script, ""); err != nil {
		_ = browser.Close()
		return nil, nil, fmt.Errorf("browser: load mermaid %s: %w", script, err)
	}
	return browser, page, nil
}
