package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hmalik/txnpipe/internal/config"
	"github.com/hmalik/txnpipe/internal/db"
	"github.com/hmalik/txnpipe/internal/loader"
	"github.com/hmalik/txnpipe/internal/repository"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the loader as an HTTP upload endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		conn, err := db.NewConnection(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.RunMigrations(cfg.DB); err != nil {
			return err
		}

		service := loader.NewService(
			repository.NewTransactionRepository(conn.Pool),
			repository.NewCustomerRepository(conn.Pool),
			repository.NewErrorLogRepository(conn.Pool),
		)

		corsHandler := cors.New(cors.Options{
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
		})

		mux := http.NewServeMux()
		mux.Handle("/ingest", corsHandler.Handler(loader.NewHTTPHandler(service)))

		server := &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			log.Printf("listening on %s, upload endpoint at /ingest", cfg.ListenAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
