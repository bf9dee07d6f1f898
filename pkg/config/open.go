package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/chainlens/chainlens/pkg/cache"
	"github.com/chainlens/chainlens/pkg/classify"
	"github.com/chainlens/chainlens/pkg/exploration"
)

// OpenCache builds the configured cache and its matching keyer.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix), nil
	}

	dir, err := c.ResolveDir()
	if err != nil {
		return nil, nil, err
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, cache.NewDefaultKeyer(), nil
}

// ResolveDir returns the file cache directory, expanding ~.
func (c CacheConfig) ResolveDir() (string, error) {
	if c.Dir != "" {
		return expandHome(c.Dir)
	}
	return CacheDir()
}

// OpenStore builds the configured exploration store.
func (s StoreConfig) OpenStore(ctx context.Context) (exploration.Store, error) {
	switch s.Backend {
	case BackendMemory:
		return exploration.NewMemoryStore(), nil
	case BackendMongo:
		ms, err := exploration.NewMongoStore(ctx, s.MongoURI, s.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	dir, err := expandHome(s.Dir)
	if err != nil {
		return nil, err
	}
	fs, err := exploration.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// OpenClassifier builds the classifier, or returns nil when classification
// is disabled.
func (c ClassifyConfig) OpenClassifier() (*classify.Classifier, error) {
	if !c.Builtin && c.File == "" {
		return nil, nil
	}
	cl := classify.New()
	if c.Builtin {
		cl = classify.Default()
	}
	if c.File != "" {
		path, err := expandHome(c.File)
		if err != nil {
			return nil, err
		}
		if _, err := cl.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return cl, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
