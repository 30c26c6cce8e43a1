package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethanbaker/tubescript/pkg/history"
	"github.com/ethanbaker/tubescript/pkg/localstore"
	"github.com/ethanbaker/tubescript/pkg/orchestrator"
	"github.com/ethanbaker/tubescript/pkg/script"
	"github.com/ethanbaker/tubescript/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCLI(t *testing.T, input string) (*cli, *bytes.Buffer) {
	t.Helper()

	store := localstore.NewInMemoryStore()
	cache, err := history.Open(store)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a := &cli{
		cfg:     utils.NewConfig(nil),
		history: cache,
		in:      bufio.NewScanner(strings.NewReader(input)),
		out:     out,
	}
	a.orch = orchestrator.New(nil, store, orchestrator.WithHistory(cache))
	return a, out
}

func seed(t *testing.T, a *cli, titles ...string) {
	t.Helper()

	for _, title := range titles {
		_, err := a.history.Record(script.GeneratedScript{
			ID:       "id-" + title,
			Title:    title,
			Sections: []script.ScriptSection{{Title: "Intro", Content: "Hello"}},
		}, script.DefaultSeo(), "topic "+title)
		require.NoError(t, err)
	}
}

func TestHistoryCommands(t *testing.T) {
	a, out := newTestCLI(t, "")
	seed(t, a, "first", "second")
	ctx := context.Background()

	require.NoError(t, a.dispatch(ctx, "history", ""))
	assert.Contains(t, out.String(), "1. ")
	assert.Contains(t, out.String(), "second")

	require.NoError(t, a.dispatch(ctx, "show", "2"))
	require.NotNil(t, a.current)
	assert.Equal(t, "first", a.current.Script.Title)

	require.NoError(t, a.dispatch(ctx, "remove", "2"))
	assert.Nil(t, a.current)
	assert.Equal(t, 1, a.history.Len())

	assert.ErrorIs(t, a.dispatch(ctx, "show", "9"), history.ErrNotFound)
	assert.ErrorIs(t, a.dispatch(ctx, "text", ""), errNothingOpen)
	assert.Error(t, a.dispatch(ctx, "dance", ""))
}

func TestEditCommand(t *testing.T) {
	a, _ := newTestCLI(t, "New intro\n\n")
	seed(t, a, "only")
	ctx := context.Background()

	require.NoError(t, a.dispatch(ctx, "show", "1"))
	require.NoError(t, a.dispatch(ctx, "edit", "1"))

	assert.Equal(t, "New intro", a.current.Script.Sections[0].Title)
	assert.Equal(t, "Hello", a.current.Script.Sections[0].Content)

	item := a.history.List()[0]
	assert.Equal(t, "New intro", item.Script.Sections[0].Title)

	assert.Error(t, a.dispatch(ctx, "edit", "5"))
}

func TestExportMarkdownCommand(t *testing.T) {
	a, _ := newTestCLI(t, "")
	seed(t, a, "Dog 101")
	ctx := context.Background()

	require.NoError(t, a.dispatch(ctx, "show", "1"))

	path := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, a.dispatch(ctx, "export", "md "+path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Dog 101"))

	assert.Error(t, a.dispatch(ctx, "export", "ics tomorrow"))
	assert.Error(t, a.dispatch(ctx, "export", "pdf"))
}

func TestChooseTemplate(t *testing.T) {
	a, _ := newTestCLI(t, "")

	assert.Equal(t, script.TemplateTutorial, a.chooseTemplate("3"))
	assert.Equal(t, script.TemplateBookPromo, a.chooseTemplate("book_promo"))
	assert.Equal(t, script.TemplateGeneral, a.chooseTemplate("podcast"))
}
