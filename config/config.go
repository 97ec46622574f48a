// Package config loads client settings from a YAML file and CONFCACHE_*
// environment variables and turns them into confcache.Options.
package config

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/confcache"
	"github.com/unkn0wn-root/confcache/codec"
	pr "github.com/unkn0wn-root/confcache/provider"
	"github.com/unkn0wn-root/confcache/provider/bigcache"
	"github.com/unkn0wn-root/confcache/provider/redis"
	"github.com/unkn0wn-root/confcache/provider/ristretto"
	"github.com/unkn0wn-root/confcache/snapshot"
)

// Config mirrors confcache.Options for the settings that can be expressed in
// a file. Zero values fall through to the client defaults.
type Config struct {
	AppID            string         `mapstructure:"app_id"`
	Cluster          string         `mapstructure:"cluster"`
	ServerURL        string         `mapstructure:"server_url"`
	Timeout          time.Duration  `mapstructure:"timeout"`
	CycleTime        time.Duration  `mapstructure:"cycle_time"`
	CacheDir         string         `mapstructure:"cache_dir"`
	MaxSnapshotBytes int            `mapstructure:"max_snapshot_bytes"`
	Snapshot         SnapshotConfig `mapstructure:"snapshot"`
}

type SnapshotConfig struct {
	// Backend is one of "file" (default), "bigcache", "ristretto" or "redis".
	Backend string `mapstructure:"backend"`
	// Codec is one of "json" (default), "cbor", "msgpack" or "proto".
	Codec string        `mapstructure:"codec"`
	TTL   time.Duration `mapstructure:"ttl"`

	Redis     RedisConfig     `mapstructure:"redis"`
	Ristretto RistrettoConfig `mapstructure:"ristretto"`
	BigCache  BigCacheConfig  `mapstructure:"bigcache"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RistrettoConfig struct {
	MaxCostBytes int64 `mapstructure:"max_cost_bytes"`
}

type BigCacheConfig struct {
	HardMaxCacheSizeMB int `mapstructure:"hard_max_cache_size_mb"`
}

func defaults() *Config {
	return &Config{
		Snapshot: SnapshotConfig{
			Backend:   "file",
			Codec:     "json",
			Ristretto: RistrettoConfig{MaxCostBytes: 64 << 20},
		},
	}
}

// Load reads configuration from path (optional) and environment variables.
// Environment variables use the prefix "CONFCACHE" and the dot character in
// keys is replaced by an underscore. For example, "snapshot.backend" becomes
// "CONFCACHE_SNAPSHOT_BACKEND".
func Load(path string) (*Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetEnvPrefix("CONFCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string(nil), parts...), tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}

// Codec resolves the configured snapshot codec.
func (c *Config) Codec() (codec.Codec[codec.Values], error) {
	switch strings.ToLower(c.Snapshot.Codec) {
	case "", "json":
		return codec.JSON[codec.Values]{}, nil
	case "cbor":
		return codec.NewCBOR[codec.Values](true)
	case "msgpack":
		return codec.Msgpack[codec.Values]{}, nil
	case "proto":
		return codec.ProtoStruct{}, nil
	default:
		return nil, fmt.Errorf("config: unknown snapshot codec %q", c.Snapshot.Codec)
	}
}

// Options converts the settings to client options. For provider backends the
// returned close function releases the provider; call it after the client is
// closed. It is never nil.
func (c *Config) Options(ctx context.Context) (confcache.Options, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	opts := confcache.Options{
		AppID:            c.AppID,
		Cluster:          c.Cluster,
		ServerURL:        c.ServerURL,
		Timeout:          c.Timeout,
		CycleTime:        c.CycleTime,
		CacheDir:         c.CacheDir,
		MaxSnapshotBytes: c.MaxSnapshotBytes,
	}
	cd, err := c.Codec()
	if err != nil {
		return opts, noop, err
	}

	var p pr.Provider
	switch strings.ToLower(c.Snapshot.Backend) {
	case "", "file":
		// the client applies MaxSnapshotBytes to its own file store
		opts.Codec = cd
		return opts, noop, nil
	case "bigcache":
		p, err = bigcache.New(ctx, bigcache.Config{
			LifeWindow:         c.Snapshot.TTL,
			HardMaxCacheSizeMB: c.Snapshot.BigCache.HardMaxCacheSizeMB,
		})
	case "ristretto":
		maxCost := c.Snapshot.Ristretto.MaxCostBytes
		p, err = ristretto.New(ristretto.Config{
			NumCounters: 10_000,
			MaxCost:     maxCost,
			BufferItems: 64,
		})
	case "redis":
		if c.Snapshot.Redis.Addr == "" {
			return opts, noop, fmt.Errorf("config: snapshot.redis.addr is required for the redis backend")
		}
		p, err = redis.New(redis.Config{
			Client: goredis.NewClient(&goredis.Options{
				Addr:     c.Snapshot.Redis.Addr,
				Password: c.Snapshot.Redis.Password,
				DB:       c.Snapshot.Redis.DB,
			}),
			Prefix:      c.Snapshot.Redis.Prefix,
			CloseClient: true,
		})
	default:
		return opts, noop, fmt.Errorf("config: unknown snapshot backend %q", c.Snapshot.Backend)
	}
	if err != nil {
		return opts, noop, fmt.Errorf("config: %s backend: %w", c.Snapshot.Backend, err)
	}

	if c.MaxSnapshotBytes > 0 {
		cd = codec.LimitCodec[codec.Values]{Inner: cd, MaxDecode: c.MaxSnapshotBytes}
	}
	store, err := snapshot.NewProviderStore(p, cd, c.Snapshot.TTL)
	if err != nil {
		_ = p.Close(ctx)
		return opts, noop, err
	}
	opts.Store = store
	return opts, p.Close, nil
}
