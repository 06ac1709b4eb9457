package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds optional backend tuning knobs loaded from a YAML file. All
// fields have working defaults; the file is only needed to deviate from
// them.
type Tuning struct {
	Transcription TranscriptionTuning `yaml:"transcription"`
	Summarization SummarizationTuning `yaml:"summarization"`
}

type TranscriptionTuning struct {
	// ChunkSeconds controls how the remote backend slices audio before
	// upload. Smaller chunks mean finer progress and cancellation
	// granularity at the cost of more requests.
	ChunkSeconds int    `yaml:"chunk_seconds"`
	Language     string `yaml:"language"`
	Prompt       string `yaml:"prompt"`
}

type SummarizationTuning struct {
	// MaxRetries bounds schema-validation retries before the run fails.
	MaxRetries  int      `yaml:"max_retries"`
	Temperature *float32 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

// DefaultTuning returns the built-in knob values.
func DefaultTuning() Tuning {
	return Tuning{
		Transcription: TranscriptionTuning{
			ChunkSeconds: 600,
		},
		Summarization: SummarizationTuning{
			MaxRetries: 2,
			MaxTokens:  2500,
		},
	}
}

// LoadTuning reads the tuning file at path, falling back to defaults when
// the path is empty or the file does not exist.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tuning, nil
		}
		return tuning, fmt.Errorf("failed to read tuning file: %w", err)
	}

	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return tuning, fmt.Errorf("failed to parse tuning YAML: %w", err)
	}

	if tuning.Transcription.ChunkSeconds <= 0 {
		tuning.Transcription.ChunkSeconds = 600
	}
	if tuning.Summarization.MaxRetries < 0 {
		tuning.Summarization.MaxRetries = 0
	}
	if tuning.Summarization.MaxTokens <= 0 {
		tuning.Summarization.MaxTokens = 2500
	}

	return tuning, nil
}
