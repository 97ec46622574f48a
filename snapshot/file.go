package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/unkn0wn-root/confcache/codec"
	"github.com/unkn0wn-root/confcache/internal/naming"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// DefaultRoot is the cache root used when none is configured:
// <tmp>/config/<appID>/<YYYY-MM-DD>.
//
// The date component means a process started on a new day begins with an
// empty store, and old days are never pruned. Configure a fixed root when
// snapshots must survive a date rollover.
func DefaultRoot(appID string, now time.Time) string {
	return filepath.Join(os.TempDir(), "config", appID, now.Format(time.DateOnly))
}

// FileStore keeps one file per (application, namespace) under a root directory.
type FileStore struct {
	root  string
	codec codec.Codec[codec.Values]
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates root (and parents) if needed. A nil codec means JSON.
func NewFileStore(root string, c codec.Codec[codec.Values]) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("snapshot: root directory is required")
	}
	if c == nil {
		c = codec.JSON[codec.Values]{}
	}
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, err
	}
	return &FileStore{root: root, codec: c}, nil
}

func (s *FileStore) Root() string { return s.root }

// Path returns the snapshot file of (appID, namespace).
func (s *FileStore) Path(appID, namespace string) string {
	return filepath.Join(s.root, naming.FileName(appID, namespace))
}

func (s *FileStore) Write(ctx context.Context, appID, ns string, cfg codec.Values) error {
	path := s.Path(appID, ns)
	werr := func(err error) error {
		return &WriteError{AppID: appID, Namespace: ns, Location: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return werr(err)
	}
	b, err := s.codec.Encode(cfg)
	if err != nil {
		return werr(err)
	}
	// the root may have been removed by a tmp cleaner since construction
	if err := os.MkdirAll(s.root, dirPerm); err != nil {
		return werr(err)
	}
	if err := writeAtomic(path, b); err != nil {
		return werr(err)
	}
	return nil
}

func (s *FileStore) Read(_ context.Context, appID, ns string) (codec.Values, error) {
	path := s.Path(appID, ns)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return codec.Values{}, nil
	}
	if err != nil {
		return nil, &ReadError{AppID: appID, Namespace: ns, Location: path, Err: err}
	}
	v, err := s.codec.Decode(b)
	if err != nil {
		return nil, &ReadError{AppID: appID, Namespace: ns, Location: path, Err: err}
	}
	if v == nil {
		v = codec.Values{}
	}
	return v, nil
}

func (s *FileStore) LoadAll(ctx context.Context, appID string) (map[string]codec.Values, error) {
	out := make(map[string]codec.Values)
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, &ReadError{AppID: appID, Location: s.root, Err: err}
	}

	var merr *multierror.Error
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ns, ok := naming.ParseFileName(appID, e.Name())
		if !ok {
			continue
		}
		v, err := s.Read(ctx, appID, ns)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		out[ns] = v
	}
	return out, merr.ErrorOrNil()
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so readers see either the previous snapshot or the new one. The temp
// file is closed on every path and removed when anything fails.
func writeAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	closed := false
	defer func() {
		if !closed {
			_ = f.Close()
		}
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Chmod(filePerm); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	closed = true
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
