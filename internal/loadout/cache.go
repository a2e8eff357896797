package loadout

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/model"
)

// DefaultCacheTTL bounds how old a cached loadout cost may be.
const DefaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	cost     Cost
	storedAt time.Time
}

// Cache memoizes loadout costs. An entry is served for at most ttl, and the
// whole cache is dropped by Invalidate, which callers wire to change
// notifications of the equipment, employee and loadout directories.
type Cache struct {
	equipment EquipmentLookup
	employees EmployeeLookup
	ttl       time.Duration
	now       func() time.Time

	mu         sync.Mutex
	entries    map[uuid.UUID]cacheEntry
	generation uint64
}

// NewCache returns a cache whose entries live for at most ttl.
func NewCache(equipment EquipmentLookup, employees EmployeeLookup, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		equipment: equipment,
		employees: employees,
		ttl:       ttl,
		now:       time.Now,
		entries:   make(map[uuid.UUID]cacheEntry),
	}
}

// Cost returns the cached cost of l, computing it when absent or stale.
func (c *Cache) Cost(l model.Loadout) Cost {
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[l.ID]
	generation := c.generation
	c.mu.Unlock()
	if ok && now.Sub(entry.storedAt) < c.ttl {
		return entry.cost
	}

	cost := Aggregate(l, c.equipment, c.employees)

	// A cost computed across an Invalidate may be stale; return it but do not keep it.
	c.mu.Lock()
	if c.generation == generation {
		c.entries[l.ID] = cacheEntry{cost: cost, storedAt: now}
	}
	c.mu.Unlock()
	return cost
}

// Invalidate drops every entry. Stores call it on any mutation.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[uuid.UUID]cacheEntry)
	c.generation++
	c.mu.Unlock()
}
