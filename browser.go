package html2md

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-html2md/internal/process"
)

// pageRenderer loads a local HTML file and returns the DOM after scripts ran.
// It is an interface so conversions can be tested without a browser.
type pageRenderer interface {
	RenderFile(ctx context.Context, path, waitSelector string) (string, error)
	Close() error
}

// Compile-time interface check.
var _ pageRenderer = (*rodRenderer)(nil)

// rodRenderer implements pageRenderer using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   logrus.FieldLogger
}

func newRodRenderer(timeout time.Duration, logger logrus.FieldLogger) *rodRenderer {
	return &rodRenderer{timeout: timeout, logger: logger}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use a pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox is required in CI and containers
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	r.logger.WithField("pid", l.PID()).Debug("browser launched")
	return nil
}

// RenderFile opens a local HTML file in headless Chrome, waits for the page
// to load and for waitSelector to match, then returns the serialized DOM.
// An empty waitSelector only waits for the load event.
func (r *rodRenderer) RenderFile(ctx context.Context, path, waitSelector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	if err := r.ensureBrowser(); err != nil {
		return "", err
	}

	target := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	page, err := r.browser.Page(proto.TargetCreateTarget{URL: target.String()})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Deadline from context wins over the configured timeout
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return "", context.DeadlineExceeded
		}
	}

	p := page.Context(ctx).Timeout(timeout)
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if waitSelector != "" {
		if _, err := p.Element(waitSelector); err != nil {
			return "", fmt.Errorf("%w: waiting for %q: %v", ErrPageLoad, waitSelector, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: reading DOM: %v", ErrPageLoad, err)
	}

	r.logger.WithFields(logrus.Fields{"path": abs, "bytes": len(html)}).Debug("page rendered")
	return html, nil
}

// Close releases the browser and kills any Chrome processes it left behind.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillTree(r.launcher.PID())
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}
