package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethanbaker/tubescript/pkg/localstore"
	"github.com/ethanbaker/tubescript/pkg/script"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// StorageKey is the localstore key holding the serialized history
	StorageKey = "tubescript.history"

	// DefaultCapacity is how many results are kept
	DefaultCapacity = 5
)

// ErrNotFound is returned when no item has the requested id
var ErrNotFound = errors.New("history item not found")

// Cache is the bounded, most-recent-first list of past results. Every mutation is
// written through to the store.
type Cache struct {
	store    localstore.Store
	items    []script.HistoryItem
	capacity int
	now      func() time.Time
	log      *zap.Logger
	mutex    sync.Mutex
}

// Option configures a Cache
type Option func(*Cache)

// WithCapacity overrides DefaultCapacity
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithClock sets the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// Open loads the history held in store. A stored value that is not valid JSON is
// discarded and the cache starts empty.
func Open(store localstore.Store, opts ...Option) (*Cache, error) {
	c := &Cache{
		store:    store,
		items:    []script.HistoryItem{},
		capacity: DefaultCapacity,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	raw, ok, err := store.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if !ok || raw == "" {
		return c, nil
	}

	var items []script.HistoryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.log.Warn("[HISTORY]: discarding unreadable history", zap.Error(err))
		return c, nil
	}

	if len(items) > c.capacity {
		items = items[:c.capacity]
	}
	for _, item := range items {
		c.items = append(c.items, normalize(item))
	}
	return c, nil
}

// Record prepends a new item and drops the oldest beyond capacity
func (c *Cache) Record(s script.GeneratedScript, seo script.SeoData, topic string) (script.HistoryItem, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item := normalize(script.HistoryItem{
		ID:        uuid.NewString(),
		Timestamp: c.now(),
		Script:    s.Clone(),
		Seo:       seo.Clone(),
		Topic:     topic,
	})

	items := append([]script.HistoryItem{item}, c.items...)
	if len(items) > c.capacity {
		items = items[:c.capacity]
	}

	if err := c.persist(items); err != nil {
		return script.HistoryItem{}, err
	}
	return item.Clone(), nil
}

// Remove drops the item with id. Removing an unknown id is a no-op.
func (c *Cache) Remove(id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	items := make([]script.HistoryItem, 0, len(c.items))
	for _, item := range c.items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	if len(items) == len(c.items) {
		return nil
	}

	return c.persist(items)
}

// Load returns a snapshot of the item with id
func (c *Cache) Load(id string) (script.HistoryItem, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, item := range c.items {
		if item.ID == id {
			return item.Clone(), nil
		}
	}
	return script.HistoryItem{}, ErrNotFound
}

// List returns a snapshot of every item, most recent first
func (c *Cache) List() []script.HistoryItem {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	out := make([]script.HistoryItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out
}

// UpdateScript replaces the script of the item whose script has the same ID
func (c *Cache) UpdateScript(s script.GeneratedScript) error {
	if s.ID == "" {
		return ErrNotFound
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	for i, item := range c.items {
		if item.Script.ID != s.ID {
			continue
		}

		items := make([]script.HistoryItem, len(c.items))
		copy(items, c.items)
		items[i].Script = s.Clone()
		return c.persist(items)
	}
	return ErrNotFound
}

// Clear drops every item
func (c *Cache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.persist([]script.HistoryItem{})
}

func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.items)
}

// persist writes items to the store and, on success, makes them current
func (c *Cache) persist(items []script.HistoryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := c.store.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	c.items = items
	return nil
}

// normalize restores the non-nil slice guarantees after decoding
func normalize(item script.HistoryItem) script.HistoryItem {
	if item.Script.Sections == nil {
		item.Script.Sections = []script.ScriptSection{}
	}
	if item.Seo.OptimizedTitles == nil {
		item.Seo.OptimizedTitles = []string{}
	}
	if item.Seo.Tags == nil {
		item.Seo.Tags = []string{}
	}
	if item.Seo.Hashtags == nil {
		item.Seo.Hashtags = []string{}
	}
	return item
}
