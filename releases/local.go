package releases

import "sync"

// Local keeps release keys in-process.
type Local struct {
	mu   sync.RWMutex
	keys map[string]string
}

var _ Store = (*Local)(nil)

func NewLocal() *Local {
	return &Local{keys: make(map[string]string)}
}

func (s *Local) Get(ns string) (string, bool) {
	s.mu.RLock()
	k, ok := s.keys[ns]
	s.mu.RUnlock()
	return k, ok
}

// Changed is true for a namespace that has no recorded key yet, whatever key is.
func (s *Local) Changed(ns, key string) bool {
	cur, ok := s.Get(ns)
	return !ok || cur != key
}

func (s *Local) Set(ns, key string) {
	s.mu.Lock()
	s.keys[ns] = key
	s.mu.Unlock()
}

// Retain drops namespaces the server no longer lists, so one that comes back
// later is written again. Returns how many entries were dropped.
func (s *Local) Retain(keep map[string]string) int {
	dropped := 0
	s.mu.Lock()
	for ns := range s.keys {
		if _, ok := keep[ns]; !ok {
			delete(s.keys, ns)
			dropped++
		}
	}
	s.mu.Unlock()
	return dropped
}
