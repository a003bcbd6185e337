// Package config provides the configuration schema and loader for the
// shopmind server.
package config

// LogLevel controls log verbosity for the shopmind server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for shopmind.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	NLP     NLPConfig     `yaml:"nlp"`
	Speech  SpeechConfig  `yaml:"speech"`
	Handoff HandoffConfig `yaml:"handoff"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// NLPConfig configures the intent/category classifier.
type NLPConfig struct {
	// ArtifactDir holds the label maps, encoder metadata and ONNX head
	// models exported by training.
	ArtifactDir string `yaml:"artifact_dir"`

	// Embeddings configures the optional external embeddings backend used
	// when a head metadata declares the transformer representation.
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
}

// EmbeddingsConfig points at an Ollama-compatible embeddings endpoint.
type EmbeddingsConfig struct {
	// BaseURL of the embeddings server. Empty disables the backend; heads
	// that need it then fall back to rule routing.
	BaseURL string `yaml:"base_url"`

	// Model is the embeddings model identifier.
	Model string `yaml:"model"`

	// Dimensions is the expected embedding vector width.
	Dimensions int `yaml:"dimensions"`
}

// SpeechConfig configures the speech correction engine.
type SpeechConfig struct {
	// ArtifactDir holds the acoustic model, token vocab and correction
	// lexicon files. Empty disables the speech endpoint.
	ArtifactDir string `yaml:"artifact_dir"`

	// OnnxruntimeLib optionally points at the onnxruntime shared library.
	OnnxruntimeLib string `yaml:"onnxruntime_lib"`
}

// HandoffConfig configures admin hand-off persistence.
type HandoffConfig struct {
	// PostgresDSN is the database connection string. Empty selects the
	// in-memory store, which does not survive restarts.
	PostgresDSN string `yaml:"postgres_dsn"`
}
