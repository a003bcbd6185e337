package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.NLP.ArtifactDir == "" {
		errs = append(errs, errors.New("nlp.artifact_dir is required"))
	}

	if cfg.NLP.Embeddings.BaseURL != "" {
		if cfg.NLP.Embeddings.Model == "" {
			errs = append(errs, errors.New("nlp.embeddings.model is required when nlp.embeddings.base_url is set"))
		}
		if cfg.NLP.Embeddings.Dimensions <= 0 {
			errs = append(errs, fmt.Errorf("nlp.embeddings.dimensions %d must be positive when nlp.embeddings.base_url is set", cfg.NLP.Embeddings.Dimensions))
		}
	}

	if cfg.Speech.ArtifactDir == "" {
		slog.Warn("speech.artifact_dir is empty; the transcription endpoint will be disabled")
	}

	if cfg.Handoff.PostgresDSN == "" {
		slog.Warn("handoff.postgres_dsn is empty; admin hand-off requests will not survive restarts")
	}

	return errors.Join(errs...)
}
