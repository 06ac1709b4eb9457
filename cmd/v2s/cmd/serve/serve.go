package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"clipnotes/internal/api/server"
	"clipnotes/internal/app"
)

var (
	host string
	port string
	env  string
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "127.0.0.1", "address to bind")
	Cmd.Flags().StringVar(&port, "port", "8080", "port to listen on")
	Cmd.Flags().StringVar(&env, "env", "development", "environment: development or production")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP surface for frontends",
	Long: `Run the HTTP API that desktop and web frontends talk to.

Exposes run submission, progress polling, cancellation, cached-result
redisplay, health and prometheus metrics endpoints.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.InitializeApp()
		defer application.Close()

		cfg := server.DefaultConfig()
		cfg.Host = host
		cfg.Port = port
		cfg.Environment = env

		srv := server.NewServer(cfg, application.Pipeline, application.Cache,
			application.Registry, application.Logger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
