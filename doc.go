// Package confcache keeps an application's configuration synchronized with a
// remote configuration server and keeps serving it when that server is down.
//
// Configuration is grouped in namespaces scoped to an application id and a
// cluster. Each namespace is a flat string -> string mapping.
//
// Components:
//   - remote.Source: lists namespaces and fetches the latest release of one.
//   - snapshot.Store: durable per-(app, namespace) copy used as fallback.
//     FileStore by default; ProviderStore over bigcache/ristretto/redis.
//   - releases.Store: last persisted release key per namespace; a release that
//     did not change is not written again.
//
// Refresh pass:
//
//	list namespaces        -- unreachable: reload every snapshot, stop
//	                       -- timeout/other: stop, retry next cycle
//	for each namespace:
//	  found     -> persist if release key changed, publish
//	  not found -> publish snapshot (possibly empty)
//	  error     -> publish snapshot, report error
//
// New runs one pass synchronously and then one every CycleTime until Close.
// Reads never touch the network:
//
//	c, _ := confcache.New(ctx, confcache.Options{AppID: "orders", CacheDir: "/var/lib/orders/config"})
//	defer c.Close(ctx)
//	dsn := c.GetValue("db.dsn", "", "application", "common")
package confcache
