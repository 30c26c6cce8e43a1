package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ethanbaker/tubescript/pkg/localstore"
	"github.com/ethanbaker/tubescript/pkg/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScript(title string) script.GeneratedScript {
	return script.GeneratedScript{
		ID:       "script-" + title,
		Title:    title,
		Sections: []script.ScriptSection{{Title: "Intro", Content: "Hello"}},
	}
}

func steppingClock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestRecordEvictsOldest(t *testing.T) {
	store := localstore.NewInMemoryStore()
	cache, err := Open(store, WithClock(steppingClock()))
	require.NoError(t, err)

	var first script.HistoryItem
	for i := 1; i <= 6; i++ {
		item, err := cache.Record(newScript(fmt.Sprint(i)), script.DefaultSeo(), fmt.Sprintf("topic %d", i))
		require.NoError(t, err)
		if i == 1 {
			first = item
		}
	}

	items := cache.List()
	require.Len(t, items, DefaultCapacity)
	assert.Equal(t, "6", items[0].Script.Title)
	assert.Equal(t, "2", items[4].Script.Title)

	_, err = cache.Load(first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Most recent first by timestamp
	for i := 1; i < len(items); i++ {
		assert.True(t, items[i-1].Timestamp.After(items[i].Timestamp))
	}
}

func TestCachePersistsEveryMutation(t *testing.T) {
	store := localstore.NewInMemoryStore()
	cache, err := Open(store)
	require.NoError(t, err)

	stored := func() []script.HistoryItem {
		raw, ok, err := store.Get(StorageKey)
		require.NoError(t, err)
		require.True(t, ok)

		var items []script.HistoryItem
		require.NoError(t, json.Unmarshal([]byte(raw), &items))
		return items
	}

	a, err := cache.Record(newScript("a"), script.DefaultSeo(), "a")
	require.NoError(t, err)
	b, err := cache.Record(newScript("b"), script.DefaultSeo(), "b")
	require.NoError(t, err)
	assert.Len(t, stored(), 2)

	require.NoError(t, cache.Remove(a.ID))
	items := stored()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	edited := b.Script
	edited.Title = "b (edited)"
	require.NoError(t, cache.UpdateScript(edited))
	assert.Equal(t, "b (edited)", stored()[0].Script.Title)

	require.NoError(t, cache.Clear())
	assert.Empty(t, stored())
	assert.Equal(t, 0, cache.Len())
}

func TestOpenRestoresHistory(t *testing.T) {
	store := localstore.NewInMemoryStore()

	first, err := Open(store)
	require.NoError(t, err)
	item, err := first.Record(newScript("kept"), script.SeoData{Tags: []string{"go"}}, "kept")
	require.NoError(t, err)

	second, err := Open(store)
	require.NoError(t, err)

	loaded, err := second.Load(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", loaded.Script.Title)
	assert.Equal(t, []string{"go"}, loaded.Seo.Tags)
	assert.NotNil(t, loaded.Seo.Hashtags)
}

func TestOpenDiscardsUnreadableHistory(t *testing.T) {
	store := localstore.NewInMemoryStore()
	require.NoError(t, store.Set(StorageKey, "[{broken"))

	cache, err := Open(store)
	require.NoError(t, err)
	assert.Empty(t, cache.List())
}

func TestSnapshotsAreIndependent(t *testing.T) {
	cache, err := Open(localstore.NewInMemoryStore())
	require.NoError(t, err)

	item, err := cache.Record(newScript("x"), script.DefaultSeo(), "x")
	require.NoError(t, err)

	loaded, err := cache.Load(item.ID)
	require.NoError(t, err)
	loaded.Script.Sections[0].Content = "mutated"

	again, err := cache.Load(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", again.Script.Sections[0].Content)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	cache, err := Open(localstore.NewInMemoryStore())
	require.NoError(t, err)

	_, err = cache.Record(newScript("x"), script.DefaultSeo(), "x")
	require.NoError(t, err)

	require.NoError(t, cache.Remove("missing"))
	assert.Equal(t, 1, cache.Len())
}

func TestUpdateScriptUnknown(t *testing.T) {
	cache, err := Open(localstore.NewInMemoryStore())
	require.NoError(t, err)

	assert.ErrorIs(t, cache.UpdateScript(newScript("nope")), ErrNotFound)
	assert.ErrorIs(t, cache.UpdateScript(script.GeneratedScript{}), ErrNotFound)
}

type failingStore struct {
	*localstore.InMemoryStore
}

func (failingStore) Set(string, string) error {
	return errors.New("disk full")
}

func TestFailedWriteKeepsState(t *testing.T) {
	cache, err := Open(failingStore{localstore.NewInMemoryStore()})
	require.NoError(t, err)

	_, err = cache.Record(newScript("x"), script.DefaultSeo(), "x")
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}
