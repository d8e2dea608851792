package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/grazer/internal/imagegen"
	"github.com/ppiankov/grazer/internal/platform"
)

const (
	DefaultDirName      = ".grazer"
	DefaultConfigFile   = "config.yaml"
	LegacyConfigFile    = "config.json"
	DefaultHistoryFile  = "history.db"
	DefaultRetainDays   = 30
	DefaultHistorySince = 24 * time.Hour
	DefaultMinPlatforms = 2
	DefaultLogLevel     = "warn"
	DefaultClawHubBin   = "clawdhub"
)

// Duration wraps time.Duration for YAML unmarshaling from strings like "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Config is the grazer configuration. Platform sections sit at the top level,
// keyed by platform name, next to the fixed sections.
type Config struct {
	Platforms map[string]PlatformConfig `yaml:",inline"`

	ImageGen ImageGenConfig `yaml:"imagegen"`
	ClawHub  ClawHubConfig  `yaml:"clawhub"`
	Feeds    []string       `yaml:"feeds"`
	History  HistoryConfig  `yaml:"history"`
	Digest   DigestConfig   `yaml:"digest"`
	Log      LogConfig      `yaml:"log"`
	Privacy  PrivacyConfig  `yaml:"privacy"`

	// Set by Load.
	Dir     string `yaml:"-"`
	Path    string `yaml:"-"`
	Missing bool   `yaml:"-"`
}

type PlatformConfig struct {
	APIKey    string `yaml:"api_key"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

type ImageGenConfig struct {
	LLMURL       string `yaml:"llm_url"`
	LLMModel     string `yaml:"llm_model"`
	LLMAPIKey    string `yaml:"llm_api_key"`
	LLMAPIKeyEnv string `yaml:"llm_api_key_env"`
}

type ClawHubConfig struct {
	Bin   string `yaml:"bin"`
	Token string `yaml:"token"`
}

type HistoryConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Path       string   `yaml:"path"`
	RetainDays int      `yaml:"retain_days"`
	Since      Duration `yaml:"since"`
}

type DigestConfig struct {
	WatchKeywords []string `yaml:"watch_keywords"`
	MinPlatforms  int      `yaml:"min_platforms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type PrivacyConfig struct {
	Redact RedactConfig `yaml:"redact"`
}

type RedactConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Patterns []string `yaml:"patterns"`
}

// DefaultDir returns ~/.grazer.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// Load reads config.yaml (or config.json) from dir, applies defaults, resolves
// env vars, and validates. A directory with neither file yields the defaults
// with Missing set.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	cfg := &Config{Dir: dir}
	path, data, err := readFirst(dir, DefaultConfigFile, LegacyConfigFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg.Missing = true
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		cfg.Path = path
		// YAML is a superset of JSON, so config.json goes through the same parser.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	normalizePlatforms(cfg)
	applyDefaults(cfg)
	resolveEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func readFirst(dir string, names ...string) (string, []byte, error) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return path, nil, err
		}
	}
	return "", nil, os.ErrNotExist
}

// normalizePlatforms rewrites alias section names (4claw, colony) to their
// canonical platform names.
func normalizePlatforms(cfg *Config) {
	if cfg.Platforms == nil {
		cfg.Platforms = map[string]PlatformConfig{}
		return
	}
	for key, pc := range cfg.Platforms {
		name, err := platform.ParseName(key)
		if err != nil || string(name) == key {
			continue
		}
		delete(cfg.Platforms, key)
		cfg.Platforms[string(name)] = pc
	}
}

func applyDefaults(cfg *Config) {
	if cfg.ImageGen.LLMModel == "" {
		cfg.ImageGen.LLMModel = imagegen.DefaultModel
	}
	if cfg.ClawHub.Bin == "" {
		cfg.ClawHub.Bin = DefaultClawHubBin
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(cfg.Dir, DefaultHistoryFile)
	} else if !filepath.IsAbs(cfg.History.Path) {
		cfg.History.Path = filepath.Join(cfg.Dir, cfg.History.Path)
	}
	if cfg.History.RetainDays == 0 {
		cfg.History.RetainDays = DefaultRetainDays
	}
	if cfg.History.Since.Duration == 0 {
		cfg.History.Since.Duration = DefaultHistorySince
	}
	if cfg.Digest.MinPlatforms == 0 {
		cfg.Digest.MinPlatforms = DefaultMinPlatforms
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func resolveEnv(cfg *Config) {
	for name, pc := range cfg.Platforms {
		if pc.APIKey == "" && pc.APIKeyEnv != "" {
			pc.APIKey = os.Getenv(pc.APIKeyEnv)
			cfg.Platforms[name] = pc
		}
	}
	if cfg.ImageGen.LLMAPIKey == "" && cfg.ImageGen.LLMAPIKeyEnv != "" {
		cfg.ImageGen.LLMAPIKey = os.Getenv(cfg.ImageGen.LLMAPIKeyEnv)
	}
}

func validate(cfg *Config) error {
	for _, key := range sortedKeys(cfg.Platforms) {
		if _, err := platform.ParseName(key); err != nil {
			return fmt.Errorf("%s: unknown platform section", key)
		}
		if raw := cfg.Platforms[key].BaseURL; raw != "" {
			if err := checkURL(raw); err != nil {
				return fmt.Errorf("%s.base_url: %w", key, err)
			}
		}
	}

	if cfg.ImageGen.LLMURL != "" {
		if err := checkURL(cfg.ImageGen.LLMURL); err != nil {
			return fmt.Errorf("imagegen.llm_url: %w", err)
		}
	}

	for i, feed := range cfg.Feeds {
		if err := checkURL(feed); err != nil {
			return fmt.Errorf("feeds[%d]: %w", i, err)
		}
	}

	if cfg.History.RetainDays < 0 {
		return fmt.Errorf("history.retain_days: must be positive, got %d", cfg.History.RetainDays)
	}
	if cfg.Digest.MinPlatforms < 2 {
		return fmt.Errorf("digest.min_platforms: must be at least 2, got %d", cfg.Digest.MinPlatforms)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("log.level: unknown level %q (want debug, info, warn or error)", cfg.Log.Level)
	}

	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme in %q (want http or https)", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// Credentials returns the API key for every configured platform. Keys absent
// from the file and the environment are looked up in secrets when non-nil.
func (c *Config) Credentials(secrets SecretStore) platform.Credentials {
	creds := platform.Credentials{}
	for _, name := range platform.Known() {
		key := c.Platforms[string(name)].APIKey
		if key == "" && secrets != nil {
			if v, err := secrets.Get(string(name)); err == nil {
				key = v
			}
		}
		if key != "" {
			creds[name] = key
		}
	}
	return creds
}

// BaseURLs returns the configured base URL overrides.
func (c *Config) BaseURLs() map[platform.Name]string {
	out := map[platform.Name]string{}
	for key, pc := range c.Platforms {
		if pc.BaseURL == "" {
			continue
		}
		if name, err := platform.ParseName(key); err == nil {
			out[name] = pc.BaseURL
		}
	}
	return out
}

// Secrets lists every literal credential in the config, for redaction.
func (c *Config) Secrets() []string {
	var out []string
	for _, key := range sortedKeys(c.Platforms) {
		if v := c.Platforms[key].APIKey; v != "" {
			out = append(out, v)
		}
	}
	if c.ImageGen.LLMAPIKey != "" {
		out = append(out, c.ImageGen.LLMAPIKey)
	}
	if c.ClawHub.Token != "" {
		out = append(out, c.ClawHub.Token)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
