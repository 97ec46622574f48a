package confcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/confcache/codec"
	"github.com/unkn0wn-root/confcache/releases"
	"github.com/unkn0wn-root/confcache/remote"
	"github.com/unkn0wn-root/confcache/snapshot"
)

var _ Client = (*client)(nil)

type client struct {
	appID   string
	cluster string
	cycle   time.Duration

	source   remote.Source
	store    snapshot.Store
	releases releases.Store

	cache      *configCache
	namespaces *nsTable

	log   Logger
	hooks Hooks

	flight singleflight.Group

	// lifetime of the client; cancelled by Close
	ctx       context.Context
	cancel    context.CancelFunc
	loopWg    sync.WaitGroup
	closeOnce sync.Once
}

func newClient(ctx context.Context, opts Options) (*client, error) {
	if opts.AppID == "" {
		return nil, fmt.Errorf("confcache: app id is required")
	}
	if opts.Timeout < 0 || opts.CycleTime < 0 {
		return nil, fmt.Errorf("confcache: timeout and cycle time must not be negative")
	}

	c := &client{
		appID:      opts.AppID,
		releases:   releases.NewLocal(),
		cache:      newConfigCache(),
		namespaces: &nsTable{},
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())

	// defaults
	c.cluster = coalesce(opts.Cluster, DefaultCluster)
	c.cycle = coalesce(opts.CycleTime, DefaultCycleTime)
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if opts.Source != nil {
		c.source = opts.Source
	} else {
		src, err := remote.NewHTTPSource(remote.HTTPConfig{
			BaseURL: coalesce(opts.ServerURL, DefaultServerURL),
			Timeout: coalesce(opts.Timeout, DefaultTimeout),
			Client:  opts.HTTPClient,
		})
		if err != nil {
			c.cancel()
			return nil, fmt.Errorf("confcache: %w", err)
		}
		c.source = src
	}

	if opts.Store != nil {
		c.store = opts.Store
	} else {
		dir := coalesce(opts.CacheDir, snapshot.DefaultRoot(opts.AppID, time.Now()))
		cd := coalesce[codec.Codec[codec.Values]](opts.Codec, codec.JSON[codec.Values]{})
		if opts.MaxSnapshotBytes > 0 {
			cd = codec.LimitCodec[codec.Values]{Inner: cd, MaxDecode: opts.MaxSnapshotBytes}
		}
		fs, err := snapshot.NewFileStore(dir, cd)
		if err != nil {
			c.cancel()
			return nil, fmt.Errorf("confcache: create cache dir: %w", err)
		}
		if opts.CacheDir == "" {
			c.log.Info("using per-day snapshot directory; set CacheDir to keep snapshots across days",
				Fields{"dir": dir})
		}
		c.store = fs
	}

	if c.cache.len() == 0 {
		if err := c.Refresh(ctx); err != nil {
			c.log.Warn("initial refresh finished with errors", Fields{"app": c.appID, "err": err})
		}
	}

	if !opts.DisableBackground {
		c.loopWg.Add(1)
		go c.loop(c.ctx)
	}
	return c, nil
}

func (c *client) GetValue(key, defaultValue, namespace string, overlays ...string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if v, ok := c.cache.lookup(namespace, key); ok {
		return v
	}
	for _, o := range overlays {
		if v, ok := c.cache.lookup(o, key); ok {
			return v
		}
	}
	return defaultValue
}

func (c *client) GetValues(namespace string, overlays ...string) map[string]string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return c.cache.merged(namespace, overlays)
}

func (c *client) Namespaces() map[string]string { return c.namespaces.snapshot() }

// Refresh waits for a pass until ctx is done. The pass itself is shared by
// every concurrent caller, so it runs detached from ctx and is only cut short
// by Close.
func (c *client) Refresh(ctx context.Context) error {
	ch := c.flight.DoChan("refresh", func() (any, error) {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stop := context.AfterFunc(c.ctx, cancel)
		defer stop()
		return nil, c.doRefresh(runCtx)
	})
	select {
	case r := <-ch:
		return r.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *client) Close(ctx context.Context) error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		done := make(chan struct{})
		go func() {
			c.loopWg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}

func (c *client) loop(ctx context.Context) {
	defer c.loopWg.Done()
	t := time.NewTicker(c.cycle)
	defer t.Stop()

	announced := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
			c.log.Debug("refresh pass finished with errors", Fields{"app": c.appID, "err": err})
		}
		if !announced {
			announced = true
			c.log.Info("config client running", Fields{
				"app":        c.appID,
				"cluster":    c.cluster,
				"namespaces": c.cache.len(),
			})
		}
	}
}
