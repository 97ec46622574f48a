package confcache

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/confcache/codec"
	"github.com/unkn0wn-root/confcache/provider/redis"
	"github.com/unkn0wn-root/confcache/remote"
	"github.com/unkn0wn-root/confcache/snapshot"
)

func newRedisStore(t *testing.T, addr string) *snapshot.ProviderStore {
	t.Helper()
	p, err := redis.New(redis.Config{
		Client:      goredis.NewClient(&goredis.Options{Addr: addr}),
		Prefix:      "test:",
		CloseClient: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	s, err := snapshot.NewProviderStore(p, codec.MustCBOR[codec.Values](true), 0)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRecoveryFromRedisSnapshots(t *testing.T) {
	mr := miniredis.RunT(t)

	src := newFakeSource()
	src.publish("application", release{cfg: map[string]string{"x": "1"}, key: "r1"})
	src.publish("common", release{cfg: map[string]string{"y": "2"}, key: "r1"})
	first := newTestClient(t, src, newRedisStore(t, mr.Addr()), nil)
	_ = first.Close(context.Background())

	if !mr.Exists("test:snapshot:orders:application") || !mr.Exists("test:snapshot-index:orders") {
		t.Fatalf("snapshots not stored in redis; keys=%v", mr.Keys())
	}

	down := newFakeSource()
	down.setListErr(fmt.Errorf("%w: refused", remote.ErrUnreachable))
	second := newTestClient(t, down, newRedisStore(t, mr.Addr()), nil)

	if second.GetValue("x", "", "") != "1" || second.GetValue("y", "", "common") != "2" {
		t.Fatalf("recovered %v / %v", second.GetValues("application"), second.GetValues("common"))
	}
}
