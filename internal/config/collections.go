package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CollectionsConfig holds operational knobs for the collections workflow.
// Scoring weights and tier thresholds are deliberately not here: the scoring
// engine is a fixed deterministic contract.
type CollectionsConfig struct {
	// WorklistLimit caps the number of invoices returned by a dashboard query.
	WorklistLimit int `mapstructure:"worklistLimit"`
	// MaxUploadRows caps the number of data rows accepted in one CSV batch.
	MaxUploadRows int `mapstructure:"maxUploadRows"`
	// ActivityPageSize is the default page size for the activity feed.
	ActivityPageSize int `mapstructure:"activityPageSize"`
}

func DefaultCollectionsConfig() CollectionsConfig {
	return CollectionsConfig{
		WorklistLimit:    100,
		MaxUploadRows:    10_000,
		ActivityPageSize: 50,
	}
}

// CollectionsConfigHolder serves the current collections config and hot
// reloads it when the backing file changes.
type CollectionsConfigHolder struct {
	current atomic.Value // holds CollectionsConfig
}

func NewCollectionsConfigHolder() (*CollectionsConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("collections")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/arclear/config")
	v.AddConfigPath("/etc/arclear")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ARCLEAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCollectionsConfig()
	v.SetDefault("collections.worklistLimit", defaults.WorklistLimit)
	v.SetDefault("collections.maxUploadRows", defaults.MaxUploadRows)
	v.SetDefault("collections.activityPageSize", defaults.ActivityPageSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg CollectionsConfig
	if err := v.UnmarshalKey("collections", &cfg); err != nil {
		return nil, err
	}
	if err := validateCollectionsConfig(cfg); err != nil {
		return nil, err
	}

	holder := &CollectionsConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CollectionsConfig
		if err := v.UnmarshalKey("collections", &updated); err != nil {
			log.Printf("[collections-config] reload failed: %v", err)
			return
		}
		if err := validateCollectionsConfig(updated); err != nil {
			log.Printf("[collections-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[collections-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticCollectionsConfigHolder wraps a fixed config with no file
// watching. Used by tests and tools that must not read the filesystem.
func NewStaticCollectionsConfigHolder(cfg CollectionsConfig) *CollectionsConfigHolder {
	holder := &CollectionsConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *CollectionsConfigHolder) Get() CollectionsConfig {
	return h.current.Load().(CollectionsConfig)
}

func validateCollectionsConfig(cfg CollectionsConfig) error {
	if cfg.WorklistLimit <= 0 {
		return errors.New("collections.worklistLimit must be positive")
	}
	if cfg.MaxUploadRows <= 0 {
		return errors.New("collections.maxUploadRows must be positive")
	}
	if cfg.ActivityPageSize <= 0 {
		return errors.New("collections.activityPageSize must be positive")
	}
	return nil
}
