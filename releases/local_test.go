package releases

import "testing"

func TestLocalChangedGate(t *testing.T) {
	s := NewLocal()

	if !s.Changed("application", "") {
		t.Fatalf("unknown namespace must count as changed, even for an empty key")
	}
	s.Set("application", "r1")
	if s.Changed("application", "r1") {
		t.Fatalf("same key must not count as changed")
	}
	if !s.Changed("application", "r2") {
		t.Fatalf("different key must count as changed")
	}
	if k, ok := s.Get("application"); !ok || k != "r1" {
		t.Fatalf("Get = %q,%v want r1,true", k, ok)
	}
}

func TestLocalRetainDropsUnlisted(t *testing.T) {
	s := NewLocal()
	s.Set("a", "1")
	s.Set("b", "2")
	s.Set("c", "3")

	n := s.Retain(map[string]string{"b": "id-b"})
	if n != 2 {
		t.Fatalf("dropped %d, want 2", n)
	}
	if _, ok := s.Get("a"); ok {
		t.Fatalf("a should have been dropped")
	}
	if k, ok := s.Get("b"); !ok || k != "2" {
		t.Fatalf("b should survive, got %q,%v", k, ok)
	}
}
