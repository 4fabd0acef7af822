package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/hmalik/txnpipe/internal/config"
	"github.com/hmalik/txnpipe/internal/db"
	"github.com/hmalik/txnpipe/internal/repository"

	"github.com/spf13/cobra"
)

var (
	errorsFileName string
	errorsLimit    int
)

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "List rows routed to the ingestion error log",
	RunE: func(cmd *cobra.Command, args []string) error {
		if errorsFileName == "" {
			return fmt.Errorf("--file-name is required")
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ctx := context.Background()
		conn, err := db.NewConnection(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer conn.Close()

		entries, err := repository.NewErrorLogRepository(conn.Pool).List(ctx, errorsFileName, errorsLimit, 0)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("no ingestion errors recorded for", errorsFileName)
			return nil
		}

		for _, entry := range entries {
			fmt.Printf("row %d [%s]: %s\n", entry.RowNumber, strings.Join(entry.CheckIDs, ","), entry.Reason)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(errorsCmd)
	errorsCmd.Flags().StringVar(&errorsFileName, "file-name", "", "source file name the errors were recorded under")
	errorsCmd.Flags().IntVar(&errorsLimit, "limit", 50, "maximum entries to show")
}
