// Package pages models the application's screens as thin flows over a single
// page-interaction capability. Flows compose the Interactor interface instead
// of inheriting from a base page object, so tests can drive them with a fake.
package pages

import (
	"context"
	"fmt"

	"boardcheck/internal/browser"
)

// Selectors for the application under test. Centralized so a markup change
// is a one-file fix.
const (
	SelectorUsername    = "#username"
	SelectorPassword    = "#password"
	SelectorLoginSubmit = "button[type='submit']"
	SelectorBoardRoot   = "main"
	SelectorProjectNav  = "nav button"
)

// Interactor is the page interaction capability: everything a flow may do to
// the page. Implemented once over the browser session manager; faked in tests.
type Interactor interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	ClickByText(ctx context.Context, selector, text string) error
	Fill(ctx context.Context, selector, value string) error
	WaitVisible(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)
	PageText(ctx context.Context) (string, error)
}

// SessionInteractor implements Interactor over one tracked browser session.
type SessionInteractor struct {
	manager   *browser.SessionManager
	sessionID string
}

// NewSessionInteractor binds an Interactor to an existing session.
func NewSessionInteractor(manager *browser.SessionManager, sessionID string) *SessionInteractor {
	return &SessionInteractor{manager: manager, sessionID: sessionID}
}

func (s *SessionInteractor) Navigate(ctx context.Context, url string) error {
	return s.manager.Navigate(ctx, s.sessionID, url)
}

func (s *SessionInteractor) Click(ctx context.Context, selector string) error {
	return s.manager.Click(ctx, s.sessionID, selector)
}

func (s *SessionInteractor) ClickByText(ctx context.Context, selector, text string) error {
	return s.manager.ClickByText(ctx, s.sessionID, selector, text)
}

func (s *SessionInteractor) Fill(ctx context.Context, selector, value string) error {
	return s.manager.Type(ctx, s.sessionID, selector, value)
}

func (s *SessionInteractor) WaitVisible(ctx context.Context, selector string) error {
	return s.manager.WaitVisible(ctx, s.sessionID, selector)
}

func (s *SessionInteractor) Text(ctx context.Context, selector string) (string, error) {
	return s.manager.ElementText(ctx, s.sessionID, selector)
}

func (s *SessionInteractor) PageText(ctx context.Context) (string, error) {
	return s.manager.PageText(ctx, s.sessionID)
}

// Credentials are the login inputs for the application under test.
type Credentials struct {
	Username string
	Password string
}

// LoginPage drives the login form.
type LoginPage struct {
	ix      Interactor
	baseURL string
}

// NewLoginPage creates the login flow for the given base URL.
func NewLoginPage(ix Interactor, baseURL string) *LoginPage {
	return &LoginPage{ix: ix, baseURL: baseURL}
}

// Login navigates to the application, submits the credentials, and waits for
// the board root to render. A board that never appears means the login was
// rejected or the app is down; either way the run cannot proceed.
func (p *LoginPage) Login(ctx context.Context, creds Credentials) error {
	if err := p.ix.Navigate(ctx, p.baseURL); err != nil {
		return fmt.Errorf("open application: %w", err)
	}
	if err := p.ix.Fill(ctx, SelectorUsername, creds.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := p.ix.Fill(ctx, SelectorPassword, creds.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := p.ix.Click(ctx, SelectorLoginSubmit); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	if err := p.ix.WaitVisible(ctx, SelectorBoardRoot); err != nil {
		return fmt.Errorf("board did not render after login: %w", err)
	}
	return nil
}

// BoardPage drives the kanban board screen.
type BoardPage struct {
	ix Interactor
}

// NewBoardPage creates the board flow.
func NewBoardPage(ix Interactor) *BoardPage {
	return &BoardPage{ix: ix}
}

// OpenProject selects the named project in the navigation sidebar and waits
// for the board to render.
func (p *BoardPage) OpenProject(ctx context.Context, name string) error {
	if err := p.ix.ClickByText(ctx, SelectorProjectNav, name); err != nil {
		return fmt.Errorf("open project %q: %w", name, err)
	}
	if err := p.ix.WaitVisible(ctx, SelectorBoardRoot); err != nil {
		return fmt.Errorf("board for project %q did not render: %w", name, err)
	}
	return nil
}

// Text returns the flattened visible-text snapshot of the rendered board,
// the sole input the column/tag locator consumes.
func (p *BoardPage) Text(ctx context.Context) (string, error) {
	text, err := p.ix.PageText(ctx)
	if err != nil {
		return "", fmt.Errorf("read board text: %w", err)
	}
	return text, nil
}
