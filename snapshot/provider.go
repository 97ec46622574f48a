package snapshot

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/unkn0wn-root/confcache/codec"
	"github.com/unkn0wn-root/confcache/internal/naming"
	"github.com/unkn0wn-root/confcache/internal/wire"
	pr "github.com/unkn0wn-root/confcache/provider"
)

// ProviderStore keeps snapshots in a byte provider (bigcache, ristretto, redis).
//
// Each snapshot is framed and stored under "snapshot:<app>:<namespace>". The
// namespaces written for an application are listed under "snapshot-index:<app>"
// so LoadAll can enumerate them. Evicting providers may drop either; a missing
// index makes LoadAll return nothing.
type ProviderStore struct {
	p     pr.Provider
	codec codec.Codec[codec.Values]
	ttl   time.Duration
}

var _ Store = (*ProviderStore)(nil)

// NewProviderStore wraps p. A nil codec means JSON; ttl <= 0 means no expiry
// where the provider supports it.
func NewProviderStore(p pr.Provider, c codec.Codec[codec.Values], ttl time.Duration) (*ProviderStore, error) {
	if p == nil {
		return nil, errors.New("snapshot: provider is required")
	}
	if c == nil {
		c = codec.JSON[codec.Values]{}
	}
	return &ProviderStore{p: p, codec: c, ttl: ttl}, nil
}

func (s *ProviderStore) Write(ctx context.Context, appID, ns string, cfg codec.Values) error {
	key := naming.SnapshotKey(appID, ns)
	werr := func(loc string, err error) error {
		return &WriteError{AppID: appID, Namespace: ns, Location: loc, Err: err}
	}

	payload, err := s.codec.Encode(cfg)
	if err != nil {
		return werr(key, err)
	}
	if err := s.set(ctx, key, wire.EncodeSnapshot(payload)); err != nil {
		return werr(key, err)
	}

	names, err := s.index(ctx, appID)
	if err != nil {
		// unreadable index is rebuilt from this namespace on
		names = nil
	}
	if slices.Contains(names, ns) {
		return nil
	}
	names = append(names, ns)
	slices.Sort(names)
	b, err := wire.EncodeIndex(names)
	if err != nil {
		return werr(naming.IndexKey(appID), err)
	}
	if err := s.set(ctx, naming.IndexKey(appID), b); err != nil {
		return werr(naming.IndexKey(appID), err)
	}
	return nil
}

func (s *ProviderStore) Read(ctx context.Context, appID, ns string) (codec.Values, error) {
	v, _, err := s.read(ctx, appID, ns)
	return v, err
}

func (s *ProviderStore) LoadAll(ctx context.Context, appID string) (map[string]codec.Values, error) {
	out := make(map[string]codec.Values)
	names, err := s.index(ctx, appID)
	if err != nil {
		return out, &ReadError{AppID: appID, Location: naming.IndexKey(appID), Err: err}
	}

	var merr *multierror.Error
	for _, ns := range names {
		v, found, err := s.read(ctx, appID, ns)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		if found {
			out[ns] = v
		}
	}
	return out, merr.ErrorOrNil()
}

func (s *ProviderStore) read(ctx context.Context, appID, ns string) (codec.Values, bool, error) {
	key := naming.SnapshotKey(appID, ns)
	raw, ok, err := s.p.Get(ctx, key)
	if err != nil {
		return nil, false, &ReadError{AppID: appID, Namespace: ns, Location: key, Err: err}
	}
	if !ok {
		return codec.Values{}, false, nil
	}
	payload, err := wire.DecodeSnapshot(raw)
	if err != nil {
		return nil, false, &ReadError{AppID: appID, Namespace: ns, Location: key, Err: err}
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		return nil, false, &ReadError{AppID: appID, Namespace: ns, Location: key, Err: err}
	}
	if v == nil {
		v = codec.Values{}
	}
	return v, true, nil
}

func (s *ProviderStore) index(ctx context.Context, appID string) ([]string, error) {
	raw, ok, err := s.p.Get(ctx, naming.IndexKey(appID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return wire.DecodeIndex(raw)
}

func (s *ProviderStore) set(ctx context.Context, key string, b []byte) error {
	ok, err := s.p.Set(ctx, key, b, int64(len(b)), s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRejected
	}
	return nil
}
