package cli

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ppiankov/grazer/internal/config"
	"github.com/ppiankov/grazer/internal/imagegen"
	"github.com/ppiankov/grazer/internal/logging"
	"github.com/ppiankov/grazer/internal/platform"
	"github.com/ppiankov/grazer/internal/privacy"
)

// openSecrets opens the OS keychain. Tests replace it with an in-memory store.
var openSecrets = func(dir string) (config.SecretStore, error) {
	return config.OpenKeyring(dir)
}

// httpClient, when set, replaces the platform client's HTTP client.
var httpClient *http.Client

// app bundles what every command needs after config is loaded.
type app struct {
	cfg     *config.Config
	log     logging.Logger
	secrets config.SecretStore
	client  *platform.Client
	images  imagegen.Generator
}

func resolveConfigDir() string {
	if strings.TrimSpace(configDir) != "" {
		return configDir
	}
	return config.DefaultDir()
}

// loadApp reads config, builds the logger and the platform client.
func loadApp() (*app, error) {
	cfg, err := config.Load(resolveConfigDir())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log, err := logging.New(logging.Config{Level: level, Development: true})
	if err != nil {
		return nil, err
	}
	if cfg.Missing {
		log.Warn("no config file found, using defaults", logging.String("dir", cfg.Dir))
	}

	secrets, err := openSecrets(cfg.Dir)
	if err != nil {
		log.Warn("keychain unavailable", logging.Error(err))
		secrets = nil
	}

	a := &app{cfg: cfg, log: log, secrets: secrets}
	creds := cfg.Credentials(secrets)
	if err := a.installRedactor(creds); err != nil {
		return nil, err
	}
	a.log = logging.WithRedaction(log, Redact)

	a.images = imagegen.New(cfg.ImageGen.LLMURL, cfg.ImageGen.LLMModel, cfg.ImageGen.LLMAPIKey, a.log)
	opts := []platform.Option{
		platform.WithLogger(a.log),
		platform.WithImageGenerator(a.images),
	}
	for name, u := range cfg.BaseURLs() {
		opts = append(opts, platform.WithBaseURL(name, u))
	}
	if httpClient != nil {
		opts = append(opts, platform.WithHTTPClient(httpClient))
	}
	a.client = platform.New(creds, opts...)
	return a, nil
}

func (a *app) installRedactor(creds platform.Credentials) error {
	secrets := a.cfg.Secrets()
	for _, v := range creds {
		secrets = append(secrets, v)
	}
	var extra []string
	if a.cfg.Privacy.Redact.Enabled {
		extra = a.cfg.Privacy.Redact.Patterns
	}
	r, err := privacy.NewRedactor(extra, secrets)
	if err != nil {
		return fmt.Errorf("privacy.redact: %w", err)
	}
	setRedactor(r)
	return nil
}

func (a *app) close() {
	_ = a.log.Sync()
}

// parsePlatform resolves a --platform flag against an allowed set.
func parsePlatform(raw string, allowed ...platform.Name) (platform.Name, error) {
	name, err := platform.ParseName(raw)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if a == name {
			return name, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("platform %s not supported here (want %s)", name, strings.Join(names, ", "))
}
