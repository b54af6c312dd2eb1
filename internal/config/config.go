package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"splitmark/internal/domain"
)

// DefaultBaseURL is the local manifest server started by `splitmark-cli serve`
const DefaultBaseURL = "http://localhost:8000/"

// Config is the full application configuration
type Config struct {
	BaseURL         string            `mapstructure:"base_url" yaml:"base_url"`
	Collections     []string          `mapstructure:"collections" yaml:"collections"`
	OutputDir       string            `mapstructure:"output_dir" yaml:"output_dir"`
	CachePath       string            `mapstructure:"cache_path" yaml:"cache_path"`
	CacheTTL        time.Duration     `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	Probe           ProbeConfig       `mapstructure:"probe" yaml:"probe"`
	Fetch           FetchConfig       `mapstructure:"fetch" yaml:"fetch"`
	Splitter        SplitterConfig    `mapstructure:"splitter" yaml:"splitter"`
	NormalizeLabels bool              `mapstructure:"normalize_labels" yaml:"normalize_labels"`
	Kanji           map[string]string `mapstructure:"kanji" yaml:"kanji"`
	Editor          string            `mapstructure:"editor" yaml:"editor"`
	Log             LogConfig         `mapstructure:"log" yaml:"log"`
}

// ProbeConfig bounds volume discovery
type ProbeConfig struct {
	MaxVolume   int `mapstructure:"max_volume" yaml:"max_volume"`
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// FetchConfig controls HTTP retrieval
type FetchConfig struct {
	Attempts uint          `mapstructure:"attempts" yaml:"attempts"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SplitterConfig names the downstream splitter and its metadata files
type SplitterConfig struct {
	Program        string `mapstructure:"program" yaml:"program"`
	GagakuMetadata string `mapstructure:"gagaku_metadata" yaml:"gagaku_metadata"`
	MusicMetadata  string `mapstructure:"music_metadata" yaml:"music_metadata"`
}

// LogConfig selects log level and destination
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// SplitterOptions converts the splitter section into domain options
func (c *Config) SplitterOptions() domain.SplitterOptions {
	return domain.SplitterOptions{
		Program:        c.Splitter.Program,
		GagakuMetadata: c.Splitter.GagakuMetadata,
		MusicMetadata:  c.Splitter.MusicMetadata,
	}
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	splitter := domain.DefaultSplitterOptions()
	return &Config{
		BaseURL:     DefaultBaseURL,
		Collections: []string{"gagaku"},
		OutputDir:   ".",
		CacheTTL:    24 * time.Hour,
		Probe: ProbeConfig{
			MaxVolume:   domain.MaxProbedVolume,
			Concurrency: 5,
		},
		Fetch: FetchConfig{
			Attempts: 2,
			Timeout:  30 * time.Second,
		},
		Splitter: SplitterConfig{
			Program:        splitter.Program,
			GagakuMetadata: splitter.GagakuMetadata,
			MusicMetadata:  splitter.MusicMetadata,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// cfgFile overrides the search for splitmark.yaml in . and $HOME/.splitmark.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	defaults := DefaultConfig()
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("collections", defaults.Collections)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("cache_path", "")
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("probe.max_volume", defaults.Probe.MaxVolume)
	v.SetDefault("probe.concurrency", defaults.Probe.Concurrency)
	v.SetDefault("fetch.attempts", defaults.Fetch.Attempts)
	v.SetDefault("fetch.timeout", defaults.Fetch.Timeout)
	v.SetDefault("splitter.program", defaults.Splitter.Program)
	v.SetDefault("splitter.gagaku_metadata", defaults.Splitter.GagakuMetadata)
	v.SetDefault("splitter.music_metadata", defaults.Splitter.MusicMetadata)
	v.SetDefault("normalize_labels", false)
	v.SetDefault("kanji", map[string]string{})
	v.SetDefault("editor", "")
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", "")

	// Environment variables with SPLITMARK_ prefix (SPLITMARK_PROBE_CONCURRENCY, ...)
	v.SetEnvPrefix("SPLITMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("splitmark")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.splitmark")
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the file the configuration was read from, empty when none
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
// Invalid edits are ignored and the previous configuration stays active.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// AddKanji records a kanji pair in the config file the manager was loaded from
func (cm *Manager) AddKanji(old, modern string) error {
	if cm.v.ConfigFileUsed() == "" {
		return fmt.Errorf("no config file loaded: run 'splitmark-cli config init' first")
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	pairs := cm.v.GetStringMapString("kanji")
	pairs[old] = modern
	cm.v.Set("kanji", pairs)
	if err := cm.v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	next := *cm.config
	next.Kanji = pairs
	cm.config = &next
	return nil
}

// Validate rejects values the rest of the program cannot work with
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Probe.Concurrency < 1 {
		return fmt.Errorf("probe.concurrency must be at least 1, got %d", c.Probe.Concurrency)
	}
	if c.Probe.MaxVolume < 0 {
		return fmt.Errorf("probe.max_volume must be zero or positive, got %d", c.Probe.MaxVolume)
	}
	if c.Fetch.Attempts < 1 {
		return fmt.Errorf("fetch.attempts must be at least 1")
	}
	return nil
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	var doc yaml.Node
	cfg := DefaultConfig()
	if err := doc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// Durations read better as "24h" than as nanoseconds
	setScalar(&doc, "cache_ttl", cfg.CacheTTL.String())
	setScalar(&doc, "timeout", cfg.Fetch.Timeout.String())

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# splitmark configuration
# Every key can be overridden with a SPLITMARK_ environment variable,
# e.g. SPLITMARK_BASE_URL or SPLITMARK_PROBE_CONCURRENCY.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

// setScalar replaces the value of every mapping key named key below n
func setScalar(n *yaml.Node, key, value string) {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				n.Content[i+1].Tag = "!!str"
				n.Content[i+1].Value = value
			}
		}
	}
	for _, c := range n.Content {
		setScalar(c, key, value)
	}
}
