package ristretto

import (
	"bytes"
	"context"
	"testing"
)

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for zero config")
	}
}

func TestSetIsVisibleImmediately(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close(ctx)

	ok, err := p.Set(ctx, "snapshot:app:application", []byte("frame"), 5, 0)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !ok {
		t.Skip("ristretto refused admission")
	}
	b, hit, err := p.Get(ctx, "snapshot:app:application")
	if err != nil || !hit || !bytes.Equal(b, []byte("frame")) {
		t.Fatalf("Get after Set: %q hit=%v err=%v", b, hit, err)
	}
	_ = p.Del(ctx, "snapshot:app:application")
	if _, hit, _ := p.Get(ctx, "snapshot:app:application"); hit {
		t.Fatalf("key still present after Del")
	}
}
