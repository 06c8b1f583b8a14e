package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/comalice/presenterx"
	"github.com/comalice/presenterx/journal"
)

// Config holds application configuration.
type Config struct {
	Presenter PresenterConfig `mapstructure:"presenter"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Demo      DemoConfig      `mapstructure:"demo"`
}

// PresenterConfig holds presenter runtime settings.
type PresenterConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Sharing string        `mapstructure:"sharing"`
	Linger  time.Duration `mapstructure:"linger"`
}

// JournalConfig holds transition journal settings. An empty Dir disables
// persistence.
type JournalConfig struct {
	Dir      string `mapstructure:"dir"`
	Format   string `mapstructure:"format"`
	Capacity int    `mapstructure:"capacity"`
}

// DemoConfig holds settings of the demo host.
type DemoConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

// Load reads configuration from file and env. Env var overrides use prefix PRESENTERX_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("presenter.verbose", false)
	v.SetDefault("presenter.sharing", "while_subscribed")
	v.SetDefault("presenter.linger", presenterx.DefaultLinger)
	v.SetDefault("journal.dir", "")
	v.SetDefault("journal.format", "json")
	v.SetDefault("journal.capacity", journal.DefaultCapacity)
	v.SetDefault("demo.tick", time.Second)

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("PRESENTERX_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "presenterx"))
		v.SetConfigName("presenterx")
	}

	v.SetEnvPrefix("PRESENTERX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present; an explicit PRESENTERX_CONFIG must exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	if _, err := c.Presenter.sharing(); err != nil {
		return err
	}
	if c.Presenter.Linger < 0 {
		return fmt.Errorf("presenter.linger: must not be negative, got %s", c.Presenter.Linger)
	}
	switch c.Journal.Format {
	case "json", "yaml", "sqlite":
	default:
		return fmt.Errorf("journal.format: unknown format %q", c.Journal.Format)
	}
	if c.Journal.Capacity < 0 {
		return fmt.Errorf("journal.capacity: must not be negative, got %d", c.Journal.Capacity)
	}
	if c.Demo.Tick <= 0 {
		return fmt.Errorf("demo.tick: must be positive, got %s", c.Demo.Tick)
	}
	return nil
}

// PresenterOptions converts the presenter settings to presenter options.
func (c Config) PresenterOptions() ([]presenterx.Option, error) {
	sharing, err := c.Presenter.sharing()
	if err != nil {
		return nil, err
	}
	return []presenterx.Option{
		presenterx.WithVerbose(c.Presenter.Verbose),
		presenterx.WithSharing(sharing),
	}, nil
}

func (p PresenterConfig) sharing() (presenterx.Sharing, error) {
	switch strings.ToLower(p.Sharing) {
	case "eagerly":
		return presenterx.Eagerly, nil
	case "lazily":
		return presenterx.Lazily, nil
	case "", "while_subscribed":
		return presenterx.WhileSubscribed(p.Linger), nil
	default:
		return presenterx.Sharing{}, fmt.Errorf("presenter.sharing: unknown policy %q", p.Sharing)
	}
}

// OpenStore opens the configured journal store. It returns nil when Dir is
// empty. Stores that hold resources implement io.Closer.
func (j JournalConfig) OpenStore(ctx context.Context) (journal.Store, error) {
	if j.Dir == "" {
		return nil, nil
	}
	var (
		store journal.Store
		err   error
	)
	switch j.Format {
	case "yaml":
		store, err = journal.NewYAMLPersister(j.Dir)
	case "sqlite":
		if err := os.MkdirAll(j.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", j.Dir, err)
		}
		store, err = journal.OpenSQLite(ctx, filepath.Join(j.Dir, "journal.db"))
	default:
		store, err = journal.NewJSONPersister(j.Dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return store, nil
}
