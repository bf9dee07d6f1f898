// Package config loads chainlens settings from a TOML file.
//
// The file is optional. Every key has a default, and a missing file yields
// [Default]. The path is, in order: the --config flag, $CHAINLENS_CONFIG,
// $XDG_CONFIG_HOME/chainlens/config.toml, ~/.config/chainlens/config.toml.
//
//	[layout]
//	width = 1280
//	height = 720
//	seed = 42              # 0 draws a fresh seed per run
//	min_separation = 100
//	max_iterations = 15
//
//	[render]
//	style = "dark"
//	labels = true
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"      # file, redis or none
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"      # file, memory or mongo
//	mongo_uri = "mongodb://localhost:27017"
//
//	[classify]
//	file = "~/cases/known.toml"
//
// Unknown keys are an error, so a typo does not silently fall back to a
// default.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
)

// AppName names the config, cache and data directories.
const AppName = "chainlens"

// EnvConfig overrides the default config path.
const EnvConfig = "CHAINLENS_CONFIG"

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config is the full settings tree.
type Config struct {
	Layout   LayoutConfig   `toml:"layout"`
	Render   RenderConfig   `toml:"render"`
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Classify ClassifyConfig `toml:"classify"`
}

// LayoutConfig holds engine tuning and the default viewport.
type LayoutConfig struct {
	layout.Config
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Seed   uint64  `toml:"seed"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Style  string `toml:"style"`
	Labels bool   `toml:"labels"`
}

// ServerConfig configures `chainlens serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects the layout and artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// StoreConfig selects the exploration store.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ClassifyConfig configures address classification.
type ClassifyConfig struct {
	// Builtin enables the bundled address table.
	Builtin bool `toml:"builtin"`
	// File is an extra TOML table of [[address]] entries.
	File string `toml:"file"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Config: layout.DefaultConfig(),
			Width:  layout.DefaultWidth,
			Height: layout.DefaultHeight,
		},
		Render: RenderConfig{Style: graph.StyleLight},
		Server: ServerConfig{Addr: ":8080"},
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			Prefix:    AppName + ":",
		},
		Store: StoreConfig{
			Backend:       BackendFile,
			MongoDatabase: AppName,
		},
		Classify: ClassifyConfig{Builtin: true},
	}
}

// DefaultPath returns where the config file is looked up when no path is
// given.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default file cache directory.
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath], and then a missing file is not an error. A path given
// explicitly must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
		explicit = os.Getenv(EnvConfig) != ""
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks backend names and value ranges.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Layout.Width, c.Layout.Height); err != nil {
		return err
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if !slices.Contains([]string{BackendFile, BackendMemory, BackendMongo}, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want file, memory or mongo)", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store backend mongo needs mongo_uri")
	}
	switch c.Render.Style {
	case "", graph.StyleLight, graph.StyleDark:
	default:
		return errors.New(errors.ErrCodeInvalidStyle, "unknown style %q", c.Render.Style)
	}
	return nil
}
