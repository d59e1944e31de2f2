package browser

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"github.com/proxysurf/launcher/internal/models"
)

// LaunchOptions carries everything needed to bring up a proxied
// browser context.
type LaunchOptions struct {
	Engine   models.Engine
	Headless bool
	Args     []string

	// Proxy credentials, passed through to the automation library
	// untouched. Empty server means no proxy.
	ProxyServer   string
	ProxyUsername string
	ProxyPassword string

	// StorageStatePath restores a prior session when non-empty. The
	// library reads the file itself; we only hand over the path.
	StorageStatePath string

	// NavigationTimeout bounds page.Goto. Zero keeps the library
	// default.
	NavigationTimeout time.Duration
}

// Session is a live browser context. The launcher holds it for the
// duration of the process; the session controller borrows it as a
// snapshot source.
type Session struct {
	id      uuid.UUID
	engine  models.Engine
	opts    LaunchOptions
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// Launch starts the playwright driver, launches the requested engine
// with the proxy configuration and opens a single page.
func Launch(opts LaunchOptions) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType := engineType(pw, opts.Engine)

	b, err := browserType.Launch(launchOptions(opts))
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", opts.Engine, err)
	}

	context, err := b.NewContext(contextOptions(opts))
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	session := &Session{
		id:      uuid.New(),
		engine:  opts.Engine,
		opts:    opts,
		pw:      pw,
		browser: b,
		context: context,
		page:    page,
	}

	logrus.WithFields(logrus.Fields{
		"session":  session.id,
		"engine":   opts.Engine,
		"proxy":    len(opts.ProxyServer) > 0,
		"restored": len(opts.StorageStatePath) > 0,
	}).Infoln("Browser session started")

	return session, nil
}

// engineType maps our engine name onto the library's browser types.
func engineType(pw *playwright.Playwright, engine models.Engine) playwright.BrowserType {
	switch engine {
	case models.EngineFirefox:
		return pw.Firefox
	case models.EngineWebkit:
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// launchOptions builds the engine launch options, including the proxy
// pass-through. Username and password are only attached when set, so
// an unauthenticated proxy does not send empty credentials.
func launchOptions(opts LaunchOptions) playwright.BrowserTypeLaunchOptions {
	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.Args,
	}

	if len(opts.ProxyServer) > 0 {
		proxy := &playwright.Proxy{Server: opts.ProxyServer}
		if len(opts.ProxyUsername) > 0 {
			proxy.Username = playwright.String(opts.ProxyUsername)
			proxy.Password = playwright.String(opts.ProxyPassword)
		}
		launch.Proxy = proxy
	}

	return launch
}

// contextOptions builds the context options, restoring a snapshot file
// when the store validated one.
func contextOptions(opts LaunchOptions) playwright.BrowserNewContextOptions {
	context := playwright.BrowserNewContextOptions{}
	if len(opts.StorageStatePath) > 0 {
		context.StorageStatePath = playwright.String(opts.StorageStatePath)
	}
	return context
}

// ID returns the per-run session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Engine returns the engine this session was launched with.
func (s *Session) Engine() models.Engine {
	return s.engine
}

// Navigate loads the target URL in the session's page.
func (s *Session) Navigate(url string) error {
	gotoOpts := playwright.PageGotoOptions{}
	if s.opts.NavigationTimeout > 0 {
		gotoOpts.Timeout = playwright.Float(float64(s.opts.NavigationTimeout.Milliseconds()))
	}

	if _, err := s.page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	logrus.WithFields(logrus.Fields{
		"session": s.id,
		"url":     url,
	}).Infoln("Navigation complete")

	return nil
}

// CaptureSnapshot serializes the context's current storage state into
// an opaque snapshot. Implements sessions.SnapshotSource.
func (s *Session) CaptureSnapshot() (models.StorageSnapshot, error) {
	state, err := s.context.StorageState()
	if err != nil {
		return nil, fmt.Errorf("failed to capture storage state: %w", err)
	}
	return models.SnapshotFrom(state)
}

// Close tears down the context, the browser and the driver. Later
// failures do not stop earlier resources from being released; the
// first error wins.
func (s *Session) Close() error {
	var firstErr error

	if err := s.context.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.browser.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}

	logrus.WithFields(logrus.Fields{
		"session": s.id,
	}).Debugln("Browser session closed")

	return firstErr
}
