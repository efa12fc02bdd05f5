package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxSearches is the default number of searches before browser recycling.
const DefaultMaxSearches = 25

// BrowserManager manages browser lifecycle with automatic recycling to
// prevent memory accumulation. Chrome accumulates memory over time and the
// baseline never returns to initial levels even with proper page cleanup,
// which matters for a harvest that walks years of month windows in one
// process. Recycling the browser periodically addresses this.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	searchCount int64 // guarded by mu
	maxSearches int64
	mu          sync.Mutex
	closed      atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxSearches sets the maximum number of searches before the browser is
// recycled. Defaults to 25 if not specified.
func WithMaxSearches(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxSearches = n
	}
}

// NewBrowserManager creates a new BrowserManager that launches a headless
// Chrome browser. The browser will be recycled after maxSearches (default 25)
// searches have been run. Close must be called when the BrowserManager is no
// longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxSearches: DefaultMaxSearches,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}

	return bm, nil
}

// Session returns the browser for one search, recycling first if earlier
// sessions have reached the threshold. The returned done func counts the
// search toward the next recycle; call it once the search has finished, and
// skip it when the search fails so a retry does not burn the budget.
func (bm *BrowserManager) Session() (*rod.Browser, func()) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.searchCount >= bm.maxSearches {
		bm.recycleBrowser()
	}

	done := func() {
		bm.mu.Lock()
		bm.searchCount++
		bm.mu.Unlock()
	}
	return bm.browser, done
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.closeBrowser()
}

// launchBrowser starts a new browser instance with stability flags.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held.
func (bm *BrowserManager) recycleBrowser() {
	oldBrowser := bm.browser
	oldLauncher := bm.launcher
	bm.browser = nil
	bm.launcher = nil

	if err := bm.launchBrowser(); err != nil {
		// Keep the old browser when the new launch fails.
		bm.browser = oldBrowser
		bm.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	bm.searchCount = 0
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
