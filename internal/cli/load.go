package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/hmalik/txnpipe/internal/config"
	"github.com/hmalik/txnpipe/internal/db"
	"github.com/hmalik/txnpipe/internal/loader"
	"github.com/hmalik/txnpipe/internal/repository"

	"github.com/spf13/cobra"
)

var filePath string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Run the batch load once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		path := filePath
		if path == "" {
			path = cfg.FilePath
		}
		if path == "" {
			return fmt.Errorf("no input file: set --file or FILE_PATH")
		}

		ctx := context.Background()

		// The database must be reachable before any row is read.
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

		summary, err := service.Run(ctx, loader.Request{Path: path})
		if err != nil {
			return err
		}

		log.Printf("processed %d rows: %d passed, %d failed", summary.TotalRows, summary.PassedRows, summary.FailedRows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&filePath, "file", "", "path to the transactions file (overrides FILE_PATH)")
}
