package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Xu-Jack11/aipartner/internal/db"
	"github.com/Xu-Jack11/aipartner/internal/dialogue"
	"github.com/Xu-Jack11/aipartner/internal/metrics"
	"github.com/Xu-Jack11/aipartner/internal/planning"
	"github.com/Xu-Jack11/aipartner/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the study companion API server",
	Long:  `Starts the aipartner HTTP server with the dialogue, planning and model APIs, the chat WebSocket and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		m := metrics.New()
		p, err := createPipeline(cfg, logger, m)
		if err != nil {
			return err
		}

		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating database directory: %w", err)
			}
		}
		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAllOrigins,
			RequestTimeout: cfg.RequestTimeout + 30*time.Second,
		}, database, p.provider, m, logger)

		registerAllRoutes(srv, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info().
			Str("version", Version).
			Int("port", cfg.Server.Port).
			Str("database", cfg.Database.Path).
			Str("provider", p.provider.Name()).
			Msg("aipartner server starting")

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

// registerAllRoutes wires up the feature routes.
func registerAllRoutes(srv *server.Server, logger zerolog.Logger) {
	r := srv.Router()

	dialogues := dialogue.NewService(dialogue.NewStore(srv.Database()), srv.Provider(), logger)
	dialogue.RegisterRoutes(r, dialogues)
	r.Handle("/ws/chat", dialogue.NewChatHandler(dialogues, logger))

	plans := planning.NewService(planning.NewStore(srv.Database()), dialogues, srv.Provider(), logger)
	planning.RegisterRoutes(r, plans)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 4000, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
