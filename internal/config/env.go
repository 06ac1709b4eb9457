package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Transcriber selectors. The selector participates in fingerprinting, so
// switching it invalidates cache reuse for all videos.
const (
	TranscriberOpenAI     = "openai"
	TranscriberWhisperCpp = "whisper_cpp"
)

// Defaults mirrored from the desktop app the core was extracted from.
const (
	DefaultWhisperModel = "whisper-1"
	DefaultSummaryModel = "gpt-4o-mini"
)

// Config is everything the core consumes from the environment. The core
// treats these values as opaque inputs; only the pipeline wiring interprets
// them.
type Config struct {
	OpenAIAPIKey string

	Transcriber        string
	TranscriptionModel string
	SummaryModel       string

	WhisperCppBinary string
	WhisperCppModel  string

	DataDir string
}

// LoadEnv loads environment variables from a .env file if one exists near
// the working directory. Missing .env is not an error; variables may be set
// system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// Load reads and validates the configuration. Fail-fast: an unusable
// combination (e.g. openai transcriber without an API key) is rejected here,
// not at first use.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Transcriber:        strings.TrimSpace(os.Getenv("V2S_TRANSCRIBER")),
		TranscriptionModel: strings.TrimSpace(os.Getenv("V2S_WHISPER_MODEL")),
		SummaryModel:       strings.TrimSpace(os.Getenv("V2S_SUMMARY_MODEL")),
		WhisperCppBinary:   strings.TrimSpace(os.Getenv("WHISPER_CPP_BINARY")),
		WhisperCppModel:    strings.TrimSpace(os.Getenv("WHISPER_CPP_MODEL")),
		DataDir:            strings.TrimSpace(os.Getenv("V2S_DATA_DIR")),
	}

	if cfg.Transcriber == "" {
		cfg.Transcriber = TranscriberOpenAI
	}
	if cfg.TranscriptionModel == "" {
		cfg.TranscriptionModel = DefaultWhisperModel
	}
	if cfg.SummaryModel == "" {
		cfg.SummaryModel = DefaultSummaryModel
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".clipnotes")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the selected backend combination is usable.
func (c *Config) Validate() error {
	switch c.Transcriber {
	case TranscriberOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set when V2S_TRANSCRIBER=%s", TranscriberOpenAI)
		}
	case TranscriberWhisperCpp:
		if c.WhisperCppBinary == "" {
			return fmt.Errorf("WHISPER_CPP_BINARY must be set when V2S_TRANSCRIBER=%s", TranscriberWhisperCpp)
		}
		if c.WhisperCppModel == "" {
			return fmt.Errorf("WHISPER_CPP_MODEL must be set when V2S_TRANSCRIBER=%s", TranscriberWhisperCpp)
		}
	default:
		return fmt.Errorf("unknown transcriber %q (want %s or %s)",
			c.Transcriber, TranscriberOpenAI, TranscriberWhisperCpp)
	}

	// Summarization always goes through the OpenAI chat API.
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set for summarization")
	}

	if c.OpenAIAPIKey != "" && !strings.HasPrefix(c.OpenAIAPIKey, "sk-") {
		return fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
	}

	return nil
}

// CacheDBPath is the sqlite file holding the artifact cache.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.DataDir, "artifacts.db")
}

// StateDir holds small application state such as the recent-videos list.
func (c *Config) StateDir() string {
	return filepath.Join(c.DataDir, "state")
}
