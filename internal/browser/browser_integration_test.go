//go:build integration

package browser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boardcheck/internal/browser"

	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*browser.SessionManager, context.Context) {
	t.Helper()

	cfg := browser.DefaultConfig()
	cfg.Headless = true
	cfg.NavigationTimeoutMs = 10000

	sm := browser.NewSessionManager(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	t.Cleanup(func() {
		if err := sm.Shutdown(context.Background()); err != nil {
			t.Logf("Shutdown error: %v", err)
		}
	})

	require.NoError(t, sm.Start(ctx), "Failed to start browser")
	return sm, ctx
}

func TestSessionManager_PageText_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, `<html><body>
			<h2>To Do (2)</h2><div>Implement auth</div><div>Fix bug</div>
			<h2>In Progress (1)</h2><div>Design updates</div>
			<h2>Done (0)</h2>
		</body></html>`)
	}))
	defer ts.Close()

	sm, ctx := newManager(t)

	session, err := sm.CreateSession(ctx, ts.URL)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.Equal(t, ts.URL, session.URL)

	text, err := sm.PageText(ctx, session.ID)
	require.NoError(t, err)
	require.Contains(t, text, "To Do (2)")
	require.Contains(t, text, "Fix bug")
	require.Contains(t, text, "In Progress (1)")
}

func TestSessionManager_Interaction_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, `<html><body>
			<button id="btn1" onclick="document.getElementById('out').innerText='clicked'">Click Me</button>
			<input id="inp1" type="text" />
			<div id="out"></div>
		</body></html>`)
	}))
	defer ts.Close()

	sm, ctx := newManager(t)

	session, err := sm.CreateSession(ctx, ts.URL)
	require.NoError(t, err)

	require.NoError(t, sm.Click(ctx, session.ID, "#btn1"))
	require.NoError(t, sm.Type(ctx, session.ID, "#inp1", "hello"))

	out, err := sm.ElementText(ctx, session.ID, "#out")
	require.NoError(t, err)
	require.Equal(t, "clicked", out)
}

func TestSessionManager_ClickByText_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, `<html><body>
			<button onclick="document.title='wrong'">Web Application Extras</button>
			<button onclick="document.title='right'">Web Application</button>
			<div id="out"></div>
		</body></html>`)
	}))
	defer ts.Close()

	sm, ctx := newManager(t)

	session, err := sm.CreateSession(ctx, ts.URL)
	require.NoError(t, err)

	// Exact-text match must skip the button whose text merely contains the
	// target string.
	require.NoError(t, sm.ClickByText(ctx, session.ID, "button", "Web Application"))

	page, ok := sm.Page(session.ID)
	require.True(t, ok)
	info, err := page.Info()
	require.NoError(t, err)
	require.Equal(t, "right", info.Title)
}
