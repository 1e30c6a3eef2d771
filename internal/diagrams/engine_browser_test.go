package diagrams

import (
	"context"
	"errors"
	"testing"

	"github.com/go-rod/rod"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

type fakeProcess struct {
	url       string
	launchErr error
	launched  int
	killed    int
	cleaned   int
}

func (p *fakeProcess) Launch() (string, error) {
	p.launched++
	return p.url, p.launchErr
}

func (p *fakeProcess) Kill()    { p.killed++ }
func (p *fakeProcess) Cleanup() { p.cleaned++ }

func newTestBrowserEngine(proc *fakeProcess, connect connectFunc) *BrowserEngine {
	engine := NewBrowserEngine(BrowserConfig{})
	engine.newProcess = func(BrowserConfig) browserProcess { return proc }
	engine.connect = connect
	return engine
}

func TestBrowserEngineKillsLaunchedBrowserWhenConnectFails(t *testing.T) {
	proc := &fakeProcess{url: "ws://127.0.0.1:9222/devtools/browser/x"}
	var gotURL string
	engine := newTestBrowserEngine(proc, func(_ context.Context, controlURL, _ string) (*rod.Browser, *rod.Page, error) {
		gotURL = controlURL
		return nil, nil, errors.New("connection refused")
	})

	if _, err := engine.Render(context.Background(), "graph TD; A-->B;", interfaces.DiagramThemeLight); err == nil {
		t.Fatal("expected render error")
	}
	if gotURL != proc.url {
		t.Fatalf("expected connect to %q, got %q", proc.url, gotURL)
	}
	if proc.killed != 1 || proc.cleaned != 1 {
		t.Fatalf("expected launched browser to be killed and cleaned, got kill=%d cleanup=%d", proc.killed, proc.cleaned)
	}

	if _, err := engine.Render(context.Background(), "graph TD; A-->B;", interfaces.DiagramThemeDark); err == nil {
		t.Fatal("expected second render error")
	}
	if proc.launched != 2 || proc.killed != 2 {
		t.Fatalf("expected a fresh launch per attempt, got launch=%d kill=%d", proc.launched, proc.killed)
	}

	if err := engine.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if proc.killed != 2 {
		t.Fatalf("expected no extra kill after failed launches, got %d", proc.killed)
	}
}

func TestBrowserEngineKillsBrowserWhenLaunchFails(t *testing.T) {
	proc := &fakeProcess{launchErr: errors.New("no chrome")}
	engine := newTestBrowserEngine(proc, func(context.Context, string, string) (*rod.Browser, *rod.Page, error) {
		t.Fatal("connect should not run after a failed launch")
		return nil, nil, nil
	})

	if _, err := engine.Render(context.Background(), "graph TD; A-->B;", interfaces.DiagramThemeLight); err == nil {
		t.Fatal("expected launch error")
	}
	if proc.killed != 1 || proc.cleaned != 1 {
		t.Fatalf("expected cleanup after failed launch, got kill=%d cleanup=%d", proc.killed, proc.cleaned)
	}
}

func TestBrowserEngineCloseKillsLaunchedProcess(t *testing.T) {
	proc := &fakeProcess{}
	engine := NewBrowserEngine(BrowserConfig{})
	engine.proc = proc

	if err := engine.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if proc.killed != 1 || proc.cleaned != 1 {
		t.Fatalf("expected Close to kill the process, got kill=%d cleanup=%d", proc.killed, proc.cleaned)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if proc.killed != 1 {
		t.Fatalf("expected a single kill, got %d", proc.killed)
	}
}

func TestBrowserEngineControlURLSkipsLaunch(t *testing.T) {
	engine := NewBrowserEngine(BrowserConfig{ControlURL: "ws://remote:9222"})
	engine.newProcess = func(BrowserConfig) browserProcess {
		t.Fatal("no process should be launched with a control URL")
		return nil
	}
	engine.connect = func(_ context.Context, controlURL, _ string) (*rod.Browser, *rod.Page, error) {
		if controlURL != "ws://remote:9222" {
			t.Fatalf("unexpected control URL %q", controlURL)
		}
		return nil, nil, errors.New("unreachable")
	}

	if _, err := engine.Render(context.Background(), "graph TD; A-->B;", interfaces.DiagramThemeLight); err == nil {
		t.Fatal("expected connect error")
	}
}
