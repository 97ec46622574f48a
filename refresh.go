package confcache

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/unkn0wn-root/confcache/remote"
)

// doRefresh runs one pass: discover namespaces, then sync each one.
func (c *client) doRefresh(ctx context.Context) error {
	start := time.Now()

	table, err := c.source.ListNamespaces(ctx, c.appID, c.cluster)
	if err != nil {
		if errors.Is(err, remote.ErrUnreachable) {
			c.log.Warn("config server unreachable; recovering from snapshots",
				Fields{"app": c.appID, "cluster": c.cluster, "err": err})
			c.hooks.DiscoveryFailed(c.appID, err, true)
			c.recoverAll(ctx)
			return err
		}
		// timeouts and anything else: keep what we have, retry next cycle
		c.log.Warn("namespace discovery failed", Fields{"app": c.appID, "cluster": c.cluster, "err": err})
		c.hooks.DiscoveryFailed(c.appID, err, false)
		return err
	}

	c.namespaces.replace(table)
	// an empty table is also what a non-200 answer yields; keep release keys
	// so the next healthy pass does not rewrite unchanged snapshots
	if len(table) > 0 {
		if n := c.releases.Retain(table); n > 0 {
			c.log.Debug("forgot release keys of unlisted namespaces", Fields{"app": c.appID, "count": n})
		}
	}

	names := make([]string, 0, len(table))
	for ns := range table {
		names = append(names, ns)
	}
	slices.Sort(names)

	var merr *multierror.Error
	for _, ns := range names {
		if ctx.Err() != nil {
			merr = multierror.Append(merr, ctx.Err())
			break
		}
		if err := c.syncNamespace(ctx, ns); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	c.hooks.PassCompleted(len(names), time.Since(start))
	return merr.ErrorOrNil()
}

// syncNamespace fetches one namespace and publishes the result, falling back
// to its snapshot when the server has nothing or cannot be asked.
func (c *client) syncNamespace(ctx context.Context, ns string) error {
	res, err := c.source.FetchLatest(ctx, c.appID, c.cluster, ns)
	if err != nil {
		c.log.Warn("fetch failed; serving snapshot", Fields{"app": c.appID, "namespace": ns, "err": err})
		return &NamespaceError{Namespace: ns, FetchErr: err, StoreErr: c.fallback(ctx, ns, "fetch_error")}
	}
	if res.Status != remote.Found {
		c.log.Info("no release available; serving snapshot",
			Fields{"app": c.appID, "namespace": ns, "status": res.StatusCode})
		if ferr := c.fallback(ctx, ns, "not_found"); ferr != nil {
			return &NamespaceError{Namespace: ns, StoreErr: ferr}
		}
		return nil
	}
	return c.apply(ctx, ns, res)
}

// apply persists a changed release and then publishes it. The release key is
// recorded only after a successful write, so a failed write is retried on the
// next pass; the fresh configuration is published regardless.
func (c *client) apply(ctx context.Context, ns string, res remote.Result) error {
	var werr error
	if c.releases.Changed(ns, res.ReleaseKey) {
		werr = c.store.Write(ctx, c.appID, ns, res.Configurations)
		if werr != nil {
			c.log.Error("snapshot write failed", Fields{"app": c.appID, "namespace": ns, "err": werr})
			c.hooks.SnapshotWriteFailed(ns, werr)
		} else {
			c.releases.Set(ns, res.ReleaseKey)
			c.log.Debug("snapshot written", Fields{"app": c.appID, "namespace": ns, "release": res.ReleaseKey})
			c.hooks.SnapshotWritten(ns, res.ReleaseKey)
		}
	}
	c.cache.set(ns, res.Configurations)
	if werr != nil {
		return &NamespaceError{Namespace: ns, StoreErr: werr}
	}
	return nil
}

// fallback publishes the namespace's snapshot. A snapshot that cannot be read
// leaves the current in-memory configuration in place.
func (c *client) fallback(ctx context.Context, ns, reason string) error {
	v, err := c.store.Read(ctx, c.appID, ns)
	if err != nil {
		c.log.Error("snapshot read failed; keeping previous configuration",
			Fields{"app": c.appID, "namespace": ns, "err": err})
		c.hooks.SnapshotReadFailed(ns, err)
		return err
	}
	c.cache.set(ns, v)
	c.hooks.FallbackUsed(ns, reason)
	return nil
}

// recoverAll repopulates the cache from every snapshot of the application.
// Snapshots that fail to load are skipped one by one.
func (c *client) recoverAll(ctx context.Context) {
	all, err := c.store.LoadAll(ctx, c.appID)
	for ns, v := range all {
		c.cache.set(ns, v)
	}
	if err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				c.hooks.RecoverySkipped(e)
			}
		} else {
			c.hooks.RecoverySkipped(err)
		}
		c.log.Warn("some snapshots could not be recovered", Fields{"app": c.appID, "err": err})
	}
	c.log.Info("recovered configuration from snapshots", Fields{"app": c.appID, "namespaces": len(all)})
}
