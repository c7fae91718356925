package pages

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInteractor records calls and can fail on demand.
type fakeInteractor struct {
	calls    []string
	failOn   string
	pageText string
}

func (f *fakeInteractor) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn != "" && call == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeInteractor) Navigate(_ context.Context, url string) error {
	return f.record("navigate " + url)
}

func (f *fakeInteractor) Click(_ context.Context, selector string) error {
	return f.record("click " + selector)
}

func (f *fakeInteractor) ClickByText(_ context.Context, selector, text string) error {
	return f.record(fmt.Sprintf("clicktext %s %s", selector, text))
}

func (f *fakeInteractor) Fill(_ context.Context, selector, value string) error {
	return f.record(fmt.Sprintf("fill %s %s", selector, value))
}

func (f *fakeInteractor) WaitVisible(_ context.Context, selector string) error {
	return f.record("wait " + selector)
}

func (f *fakeInteractor) Text(_ context.Context, selector string) (string, error) {
	return "", f.record("text " + selector)
}

func (f *fakeInteractor) PageText(_ context.Context) (string, error) {
	if err := f.record("pagetext"); err != nil {
		return "", err
	}
	return f.pageText, nil
}

func TestLoginPage_HappyPath(t *testing.T) {
	fake := &fakeInteractor{}
	page := NewLoginPage(fake, "https://board.example.com")

	err := page.Login(context.Background(), Credentials{Username: "alice", Password: "hunter2"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"navigate https://board.example.com",
		"fill " + SelectorUsername + " alice",
		"fill " + SelectorPassword + " hunter2",
		"click " + SelectorLoginSubmit,
		"wait " + SelectorBoardRoot,
	}, fake.calls)
}

func TestLoginPage_BoardNeverRenders(t *testing.T) {
	fake := &fakeInteractor{failOn: "wait " + SelectorBoardRoot}
	page := NewLoginPage(fake, "https://board.example.com")

	err := page.Login(context.Background(), Credentials{Username: "alice", Password: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "board did not render")
}

func TestLoginPage_FillFailurePropagates(t *testing.T) {
	fake := &fakeInteractor{failOn: "fill " + SelectorPassword + " x"}
	page := NewLoginPage(fake, "https://board.example.com")

	err := page.Login(context.Background(), Credentials{Username: "alice", Password: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fill password")
}

func TestBoardPage_OpenProject(t *testing.T) {
	fake := &fakeInteractor{}
	page := NewBoardPage(fake)

	require.NoError(t, page.OpenProject(context.Background(), "Web Application"))
	assert.Equal(t, []string{
		"clicktext " + SelectorProjectNav + " Web Application",
		"wait " + SelectorBoardRoot,
	}, fake.calls)
}

func TestBoardPage_OpenProject_MissingNavEntry(t *testing.T) {
	fake := &fakeInteractor{failOn: "clicktext " + SelectorProjectNav + " Ghost Project"}
	page := NewBoardPage(fake)

	err := page.OpenProject(context.Background(), "Ghost Project")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `open project "Ghost Project"`)
}

func TestBoardPage_Text(t *testing.T) {
	fake := &fakeInteractor{pageText: "To Do (1) Something Done (0)"}
	page := NewBoardPage(fake)

	text, err := page.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "To Do (1) Something Done (0)", text)
}
