//go:build wireinject
// +build wireinject

package app

import (
	"log"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"clipnotes/internal/app/api"
	"clipnotes/internal/app/api/openai"
	"clipnotes/internal/app/api/openai/chat"
	"clipnotes/internal/app/api/openai/whisper"
	"clipnotes/internal/app/api/whisper_cpp"
	"clipnotes/internal/app/common"
	"clipnotes/internal/app/metrics"
	"clipnotes/internal/app/pipeline"
	"clipnotes/internal/app/repository"
	"clipnotes/internal/app/repository/sqlite"
	"clipnotes/internal/config"
)

func provideConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	return cfg
}

func provideTuning() config.Tuning {
	tuning, err := config.LoadTuning(tuningPath())
	if err != nil {
		log.Fatalf("tuning error: %v", err)
	}
	return tuning
}

func provideLogger() *zap.Logger {
	return common.MustNewLogger(false)
}

func provideTranscriber(cfg *config.Config, tuning config.Tuning, logger *zap.Logger) api.Transcriber {
	switch cfg.Transcriber {
	case config.TranscriberWhisperCpp:
		return whisper_cpp.NewLocalTranscriber(cfg.WhisperCppBinary, cfg.WhisperCppModel,
			tuning.Transcription.Language, logger)
	default:
		openai.Configure(cfg.OpenAIAPIKey)
		return whisper.NewRemoteTranscriber(openai.GetClient(), cfg.TranscriptionModel,
			tuning.Transcription.ChunkSeconds, tuning.Transcription.Prompt, logger)
	}
}

func provideSummarizer(cfg *config.Config, tuning config.Tuning, logger *zap.Logger) api.Summarizer {
	openai.Configure(cfg.OpenAIAPIKey)
	return chat.NewSummarizer(openai.GetClient(), cfg.SummaryModel,
		tuning.Summarization.MaxRetries, tuning.Summarization.MaxTokens,
		tuning.Summarization.Temperature, logger)
}

func provideCacheDAO(cfg *config.Config, logger *zap.Logger) repository.CacheDAO {
	dao, err := sqlite.NewCacheDB(cfg.CacheDBPath(), logger)
	if err != nil {
		log.Fatalf("cache database error: %v", err)
	}
	return dao
}

func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.New(registry)
}

func InitializeApp() *App {
	wire.Build(
		newApp,
		pipeline.New,
		provideConfig,
		provideTuning,
		provideLogger,
		provideTranscriber,
		provideSummarizer,
		provideCacheDAO,
		provideRegistry,
		provideMetrics,
	)
	return &App{}
}
