// Package browser wraps Playwright for the run loop: one browsing
// context per run, accessibility snapshots as the model's view of page
// state, and execution of the closed action set against the live page.
package browser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/gurney/pkg/logging"
)

const (
	viewportWidth  = 1280
	viewportHeight = 900

	// userAgent mirrors a desktop Chrome so sites serve their normal UI.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"

	// Navigation readiness bounds, in milliseconds.
	navigationTimeout  = 30000
	networkIdleTimeout = 15000
	hydrationDelay     = 3000
)

// screenshotsDir is where exit screenshots are written.
const screenshotsDir = "screenshots"

// Browser owns one Playwright browsing context for the duration of a
// run. It is exclusively owned by that run's loop and is not shared.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	log     *logging.Logger
}

// LaunchOptions configures browser startup.
type LaunchOptions struct {
	// Headless controls whether the browser runs without a window.
	Headless bool

	// Logger receives browser diagnostics; nil disables them.
	Logger *logging.Logger
}

// Launch installs Playwright if needed, starts Chromium, and opens a
// fresh page in an isolated context.
func Launch(opts LaunchOptions) (*Browser, error) {
	// Discard driver output so it cannot interleave with our own.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	chromium, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := chromium.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewportWidth,
			Height: viewportHeight,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
		UserAgent:         playwright.String(userAgent),
	})
	if err != nil {
		_ = chromium.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		_ = context.Close()
		_ = chromium.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: chromium,
		context: context,
		page:    page,
		log:     opts.Logger,
	}, nil
}

// URL returns the current page URL.
func (b *Browser) URL() string {
	return b.page.URL()
}

// Navigate loads a URL and waits for the page to be usable: DOM content
// first, then a bounded network-idle wait (best effort, heavy pages
// never go idle), then a fixed delay for client-side frameworks to
// finish hydrating.
func (b *Browser) Navigate(url string) error {
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navigationTimeout),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	if err := b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(networkIdleTimeout),
	}); err != nil {
		b.warnf("network idle timeout after navigation, continuing: %v", err)
	}

	b.page.WaitForTimeout(hydrationDelay)
	return nil
}

// Screenshot saves a full-page PNG under screenshots/ and returns its
// path.
func (b *Browser) Screenshot(label string) (string, error) {
	if err := os.MkdirAll(screenshotsDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create screenshots directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.png", label, time.Now().Format("20060102_150405"))
	path := filepath.Join(screenshotsDir, filename)

	if _, err := b.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}

	return path, nil
}

// Close tears down the page, context, browser, and driver. Errors from
// individual resources do not stop the rest of the cleanup.
func (b *Browser) Close() error {
	_ = b.page.Close()
	_ = b.context.Close()
	_ = b.browser.Close()

	if err := b.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

func (b *Browser) warnf(format string, v ...interface{}) {
	if b.log != nil {
		b.log.Warnf(format, v...)
	}
}

func (b *Browser) debugf(format string, v ...interface{}) {
	if b.log != nil {
		b.log.Debugf(format, v...)
	}
}
