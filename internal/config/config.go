// Package config loads the loomcanvas TOML configuration file.
//
// Configuration is optional: every field has a working default so the CLI
// runs with no file present. The file is searched at the path given by
// the --config flag, then $LOOMCANVAS_CONFIG, then ~/.config/loomcanvas/
// config.toml.
package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	lcerrors "github.com/tapestrylab/loomcanvas/pkg/errors"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/snapshot"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "LOOMCANVAS_CONFIG"

// Config is the full application configuration.
type Config struct {
	// DefaultLayout is the layout applied to scenes with no snapshot.
	DefaultLayout string `toml:"default_layout"`

	Snapshot SnapshotConfig `toml:"snapshot"`
	Server   ServerConfig   `toml:"server"`
}

// SnapshotConfig selects and tunes the persistence backend.
type SnapshotConfig struct {
	// Backend is one of: file, redis, mongo, memory, none.
	Backend string `toml:"backend"`

	// Dir is the file backend's snapshot directory.
	Dir string `toml:"dir"`

	// DebounceMS is the save debounce window in milliseconds.
	DebounceMS int `toml:"debounce_ms"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis snapshot backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTLHours int    `toml:"ttl_hours"`
}

// MongoConfig configures the mongo snapshot backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DefaultLayout: string(scene.LayoutFreeform),
		Snapshot: SnapshotConfig{
			Backend:    "file",
			Dir:        defaultSnapshotDir(),
			DebounceMS: int(snapshot.DefaultDebounce / time.Millisecond),
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
			Mongo: MongoConfig{
				URI: "mongodb://localhost:27017",
			},
		},
		Server: ServerConfig{
			Addr: ":8334",
		},
	}
}

// Load reads configuration from path, or from the default search locations
// when path is empty. A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = filepath.Join(userConfigDir(), "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, lcerrors.Wrap(lcerrors.ErrCodeStorageRead, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, lcerrors.Wrap(lcerrors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values that would otherwise fail deep inside a
// subsystem with a worse message.
func (c Config) Validate() error {
	if _, err := scene.ParseLayoutKind(c.DefaultLayout); err != nil {
		return lcerrors.New(lcerrors.ErrCodeInvalidInput, "default_layout: unknown layout %q", c.DefaultLayout)
	}
	switch c.Snapshot.Backend {
	case "file", "redis", "mongo", "memory", "none":
	default:
		return lcerrors.New(lcerrors.ErrCodeInvalidInput, "snapshot.backend: unknown backend %q", c.Snapshot.Backend)
	}
	if c.Snapshot.DebounceMS < 0 {
		return lcerrors.New(lcerrors.ErrCodeInvalidInput, "snapshot.debounce_ms must not be negative")
	}
	return nil
}

// Debounce returns the configured debounce window as a duration.
func (c Config) Debounce() time.Duration {
	if c.Snapshot.DebounceMS == 0 {
		return snapshot.DefaultDebounce
	}
	return time.Duration(c.Snapshot.DebounceMS) * time.Millisecond
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "loomcanvas")
	}
	return "."
}

func defaultSnapshotDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "loomcanvas", "snapshots")
	}
	return filepath.Join(os.TempDir(), "loomcanvas-snapshots")
}

// OpenStore constructs the snapshot store the configuration selects. The
// context bounds backend connection setup (redis ping, mongo connect).
func (c Config) OpenStore(ctx context.Context) (snapshot.Store, error) {
	switch c.Snapshot.Backend {
	case "memory":
		return snapshot.NewMemoryStore(), nil
	case "none":
		return snapshot.NewNullStore(), nil
	case "file":
		return snapshot.NewFileStore(c.Snapshot.Dir)
	case "redis":
		return snapshot.NewRedisStore(ctx, snapshot.RedisConfig{
			Addr:     c.Snapshot.Redis.Addr,
			Password: c.Snapshot.Redis.Password,
			DB:       c.Snapshot.Redis.DB,
			TTL:      time.Duration(c.Snapshot.Redis.TTLHours) * time.Hour,
		})
	case "mongo":
		return snapshot.NewMongoStore(ctx, snapshot.MongoConfig{
			URI:        c.Snapshot.Mongo.URI,
			Database:   c.Snapshot.Mongo.Database,
			Collection: c.Snapshot.Mongo.Collection,
		})
	default:
		return nil, lcerrors.New(lcerrors.ErrCodeInvalidInput, "unknown snapshot backend %q", c.Snapshot.Backend)
	}
}
