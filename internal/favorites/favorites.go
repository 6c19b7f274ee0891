// Package favorites keeps the user's favorite book ids in local storage.
// Favorites never reach the backend.
package favorites

import (
	"encoding/json"
	"fmt"
	"sync"
)

// StorageKey is the local storage key holding the JSON id list.
const StorageKey = "favorites"

// Storage is the subset of localstore.Store the cache needs.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Cache reads and writes the favorites list. Each call re-reads storage, so
// writes from another process are picked up; concurrent writers race and the
// last one wins.
type Cache struct {
	mu      sync.Mutex
	storage Storage
}

// New returns a cache over storage.
func New(storage Storage) *Cache {
	return &Cache{storage: storage}
}

// List returns the favorite ids in insertion order.
func (c *Cache) List() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readLocked()
}

// IsFavorite reports whether id is in the list.
func (c *Cache) IsFavorite(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return indexOf(c.readLocked(), id) >= 0
}

// Add appends id unless it is already present.
func (c *Cache) Add(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := c.readLocked()
	if indexOf(ids, id) >= 0 {
		return nil
	}
	return c.writeLocked(append(ids, id))
}

// Remove drops id. Removing an absent id is a no-op.
func (c *Cache) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := c.readLocked()
	idx := indexOf(ids, id)
	if idx < 0 {
		return nil
	}
	return c.writeLocked(append(ids[:idx], ids[idx+1:]...))
}

// Toggle removes id when present, otherwise appends it. It returns whether id
// is a favorite afterwards.
func (c *Cache) Toggle(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := c.readLocked()
	if idx := indexOf(ids, id); idx >= 0 {
		if err := c.writeLocked(append(ids[:idx], ids[idx+1:]...)); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := c.writeLocked(append(ids, id)); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) readLocked() []string {
	raw, ok := c.storage.Get(StorageKey)
	if !ok || raw == "" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []string{}
	}
	return ids
}

func (c *Cache) writeLocked(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := c.storage.Set(StorageKey, string(payload)); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
