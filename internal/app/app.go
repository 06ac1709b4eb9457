package app

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"clipnotes/internal/app/pipeline"
	"clipnotes/internal/app/repository"
	"clipnotes/internal/app/state"
	"clipnotes/internal/config"
)

// App bundles the assembled pipeline with the collaborators the CLI and the
// HTTP server need alongside it.
type App struct {
	Config   *config.Config
	Pipeline *pipeline.Pipeline
	Cache    repository.CacheDAO
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

func newApp(cfg *config.Config, p *pipeline.Pipeline, cache repository.CacheDAO,
	registry *prometheus.Registry, logger *zap.Logger) *App {
	return &App{
		Config:   cfg,
		Pipeline: p,
		Cache:    cache,
		Registry: registry,
		Logger:   logger,
	}
}

// RecentStore opens the recent-videos list under the state directory.
func (a *App) RecentStore() (*state.RecentStore, error) {
	return state.NewRecentStore(filepath.Join(a.Config.StateDir(), "recent_videos.json"))
}

// Close releases held resources, currently the cache database handle.
func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.Cache.Close()
}

// tuningPath resolves the optional tuning file, V2S_TUNING overriding the
// default location next to the data directory.
func tuningPath() string {
	if p := os.Getenv("V2S_TUNING"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".clipnotes", "tuning.yaml")
}
