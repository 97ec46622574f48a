package confcache

import (
	"maps"
	"sync"
)

// configCache holds one mapping per namespace. Mappings are replaced whole and
// never mutated once stored, so a reader sees the old or the new one.
type configCache struct {
	mu sync.RWMutex
	m  map[string]map[string]string
}

func newConfigCache() *configCache {
	return &configCache{m: make(map[string]map[string]string)}
}

func (c *configCache) set(ns string, v map[string]string) {
	cp := maps.Clone(v)
	if cp == nil {
		cp = make(map[string]string)
	}
	c.mu.Lock()
	c.m[ns] = cp
	c.mu.Unlock()
}

func (c *configCache) lookup(ns, key string) (string, bool) {
	c.mu.RLock()
	v, ok := c.m[ns][key]
	c.mu.RUnlock()
	return v, ok
}

func (c *configCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// merged copies overlays in order and then primary over them.
func (c *configCache) merged(primary string, overlays []string) map[string]string {
	out := make(map[string]string)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range overlays {
		maps.Copy(out, c.m[o])
	}
	maps.Copy(out, c.m[primary])
	return out
}

// nsTable is the namespace name -> server id table of the last discovery.
type nsTable struct {
	mu sync.RWMutex
	m  map[string]string
}

func (t *nsTable) replace(m map[string]string) {
	cp := maps.Clone(m)
	t.mu.Lock()
	t.m = cp
	t.mu.Unlock()
}

func (t *nsTable) snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.m))
	maps.Copy(out, t.m)
	return out
}
