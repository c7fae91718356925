// Package browser provides Chrome automation for board verification runs.
// It wraps go-rod with session tracking so higher layers deal only in
// session IDs and never touch rod types directly.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"boardcheck/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
)

// Session describes the public metadata for a tracked browser page.
type Session struct {
	ID         string    `json:"id"`
	TargetID   string    `json:"target_id,omitempty"`
	URL        string    `json:"url,omitempty"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

type sessionRecord struct {
	meta Session
	page *rod.Page
}

// Config holds browser configuration.
type Config struct {
	DebuggerURL         string   `json:"debugger_url"`
	Launch              []string `json:"launch"`
	Headless            bool     `json:"headless"`
	ViewportWidth       int      `json:"viewport_width"`
	ViewportHeight      int      `json:"viewport_height"`
	NavigationTimeoutMs int      `json:"navigation_timeout_ms"`
	SessionStore        string   `json:"session_store"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
	}
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// SessionManager owns the Chrome instance and tracks active sessions.
type SessionManager struct {
	cfg        Config
	mu         sync.RWMutex
	browser    *rod.Browser
	sessions   map[string]*sessionRecord
	controlURL string // WebSocket URL for DevTools
}

// NewSessionManager creates a new session manager.
func NewSessionManager(cfg Config) *SessionManager {
	return &SessionManager{
		cfg:      cfg,
		sessions: make(map[string]*sessionRecord),
	}
}

// Start connects to an existing Chrome or launches a new one.
func (m *SessionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// If we already have a browser, verify it's still alive
	if m.browser != nil {
		_, err := m.browser.Version()
		if err == nil {
			return nil
		}
		logging.Browser("Stale browser connection detected, reconnecting")
		_ = m.browser.Close()
		m.browser = nil
		m.controlURL = ""
		m.sessions = make(map[string]*sessionRecord)
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" && len(m.cfg.Launch) > 0 {
		bin := m.cfg.Launch[0]
		launch := launcher.New().Bin(bin).Headless(m.cfg.Headless)
		for _, rawFlag := range m.cfg.Launch[1:] {
			flagStr := strings.TrimLeft(rawFlag, "-")
			name, val, hasVal := strings.Cut(flagStr, "=")
			if hasVal {
				launch = launch.Set(flags.Flag(name), val)
			} else {
				launch = launch.Set(flags.Flag(name))
			}
		}
		url, err := launch.Launch()
		if err != nil {
			// Retry without the extra flags before giving up.
			fallback := launcher.New().Bin(bin).Headless(m.cfg.Headless)
			if alt, altErr := fallback.Launch(); altErr == nil {
				controlURL = alt
			} else {
				return fmt.Errorf("launch chrome: %w (fallback: %v)", err, altErr)
			}
		} else {
			controlURL = url
		}
	}

	if controlURL == "" {
		url, err := launcher.New().Headless(m.cfg.Headless).Launch()
		if err != nil {
			return fmt.Errorf("no debugger_url and failed to launch: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	m.browser = browser
	m.controlURL = controlURL
	logging.Browser("Browser connected: %s", controlURL)
	return nil
}

func (m *SessionManager) ensureStarted(ctx context.Context) error {
	m.mu.RLock()
	if m.browser != nil {
		m.mu.RUnlock()
		return nil
	}
	m.mu.RUnlock()
	return m.Start(ctx)
}

// ControlURL returns the WebSocket debugger URL.
func (m *SessionManager) ControlURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.controlURL
}

// IsConnected returns whether the browser is connected.
func (m *SessionManager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser != nil
}

// Shutdown closes tracked pages and the browser.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, record := range m.sessions {
		if record.page != nil {
			_ = record.page.Close()
		}
		delete(m.sessions, id)
	}

	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	m.controlURL = ""
	logging.Browser("Browser shutdown complete")
	return err
}

// List returns metadata for all known sessions.
func (m *SessionManager) List() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]Session, 0, len(m.sessions))
	for _, record := range m.sessions {
		results = append(results, record.meta)
	}
	return results
}

// CreateSession opens a new incognito page and tracks it.
func (m *SessionManager) CreateSession(ctx context.Context, url string) (*Session, error) {
	if err := m.ensureStarted(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	browser := m.browser
	m.mu.RUnlock()
	if browser == nil {
		return nil, errors.New("browser not connected")
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             m.cfg.GetViewportWidth(),
		Height:            m.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		logging.Get(logging.CategoryBrowser).Warn("failed to set viewport: %v", err)
	}

	if err := page.Timeout(m.cfg.NavigationTimeout()).Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	meta := Session{
		ID:         uuid.NewString(),
		TargetID:   string(page.TargetID),
		URL:        url,
		Status:     "active",
		CreatedAt:  time.Now(),
		LastActive: time.Now(),
	}

	m.mu.Lock()
	m.sessions[meta.ID] = &sessionRecord{meta: meta, page: page}
	m.mu.Unlock()

	logging.Browser("Session %s created for %s", meta.ID, url)
	_ = m.persistSessions()
	return &meta, nil
}

// CloseSession closes and forgets a single session.
func (m *SessionManager) CloseSession(sessionID string) error {
	m.mu.Lock()
	rec, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown session: %s", sessionID)
	}
	if rec.page != nil {
		return rec.page.Close()
	}
	return nil
}

// Page returns the underlying rod page for a session.
func (m *SessionManager) Page(sessionID string) (*rod.Page, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return rec.page, true
}

// GetSession returns session metadata.
func (m *SessionManager) GetSession(sessionID string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return rec.meta, true
}

func (m *SessionManager) touch(sessionID, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.sessions[sessionID]
	if !ok {
		return
	}
	if url != "" {
		rec.meta.URL = url
	}
	rec.meta.LastActive = time.Now()
}

// Navigate navigates a session to a URL.
func (m *SessionManager) Navigate(ctx context.Context, sessionID, url string) error {
	page, ok := m.Page(sessionID)
	if !ok {
		return fmt.Errorf("unknown session: %s", sessionID)
	}
	if err := page.Context(ctx).Timeout(m.cfg.NavigationTimeout()).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	m.touch(sessionID, url)
	return nil
}

// Click clicks the first element matching the CSS selector.
func (m *SessionManager) Click(ctx context.Context, sessionID, selector string) error {
	page, ok := m.Page(sessionID)
	if !ok {
		return fmt.Errorf("unknown session: %s", sessionID)
	}
	el, err := page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %w", err)
	}
	m.touch(sessionID, "")
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// ClickByText clicks the first element matching the selector whose visible
// text equals the given text. Rod's ElementR matches by regex, so the text
// is anchored and quoted to force an exact match.
func (m *SessionManager) ClickByText(ctx context.Context, sessionID, selector, text string) error {
	page, ok := m.Page(sessionID)
	if !ok {
		return fmt.Errorf("unknown session: %s", sessionID)
	}
	el, err := page.Context(ctx).ElementR(selector, "/^"+regexp.QuoteMeta(text)+"$/")
	if err != nil {
		return fmt.Errorf("element with text %q not found: %w", text, err)
	}
	m.touch(sessionID, "")
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Type types text into the element matching the selector, replacing any
// existing value.
func (m *SessionManager) Type(ctx context.Context, sessionID, selector, text string) error {
	page, ok := m.Page(sessionID)
	if !ok {
		return fmt.Errorf("unknown session: %s", sessionID)
	}
	el, err := page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %w", err)
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	m.touch(sessionID, "")
	return el.Input(text)
}

// WaitVisible blocks until the element matching the selector is visible.
func (m *SessionManager) WaitVisible(ctx context.Context, sessionID, selector string) error {
	page, ok := m.Page(sessionID)
	if !ok {
		return fmt.Errorf("unknown session: %s", sessionID)
	}
	el, err := page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %w", err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element %s never became visible: %w", selector, err)
	}
	return nil
}

// ElementText returns the visible text of the element matching the selector.
func (m *SessionManager) ElementText(ctx context.Context, sessionID, selector string) (string, error) {
	page, ok := m.Page(sessionID)
	if !ok {
		return "", fmt.Errorf("unknown session: %s", sessionID)
	}
	el, err := page.Context(ctx).Element(selector)
	if err != nil {
		return "", fmt.Errorf("element not found: %w", err)
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read element text: %w", err)
	}
	return text, nil
}

// PageText returns the full visible text content of the current page as a
// single flattened string. This is the sole input the board locator consumes.
func (m *SessionManager) PageText(ctx context.Context, sessionID string) (string, error) {
	page, ok := m.Page(sessionID)
	if !ok {
		return "", fmt.Errorf("unknown session: %s", sessionID)
	}

	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           `() => document.body ? document.body.innerText : ""`,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return "", fmt.Errorf("read page text: %w", err)
	}
	m.touch(sessionID, "")
	return res.Value.Str(), nil
}

// Screenshot captures a screenshot of the session's page.
func (m *SessionManager) Screenshot(ctx context.Context, sessionID string, fullPage bool) ([]byte, error) {
	page, ok := m.Page(sessionID)
	if !ok {
		return nil, fmt.Errorf("unknown session: %s", sessionID)
	}
	return page.Context(ctx).Screenshot(fullPage, nil)
}

// persistSessions writes session metadata to disk.
func (m *SessionManager) persistSessions() error {
	if m.cfg.SessionStore == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]Session, 0, len(m.sessions))
	for _, rec := range m.sessions {
		sessions = append(sessions, rec.meta)
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(m.cfg.SessionStore), 0o755); err != nil {
		return err
	}
	return os.WriteFile(m.cfg.SessionStore, data, 0o644)
}
