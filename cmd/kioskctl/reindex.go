package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"touristkiosk/internal/repository/sqlite"
	"touristkiosk/internal/service/storage"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Add capture files missing from the capture index",
	RunE: func(cmd *cobra.Command, args []string) error {
		imagesDir, _ := cmd.Flags().GetString("images")
		dbPath, _ := cmd.Flags().GetString("db")
		if imagesDir == "" {
			imagesDir = cfg.ImageDirectory()
		}
		if dbPath == "" {
			dbPath = cfg.DatabasePath
		}

		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
		db, err := sqlite.New(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		captureRepo := sqlite.NewCaptureRepository(db)
		svc := storage.NewCaptureService(imagesDir, logs, captureRepo, sqlite.NewDetectionRepository(db))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Indexing captures from %s into %s\n", imagesDir, dbPath)

		added, skipped, err := svc.Reindex()
		if err != nil {
			return err
		}

		total, err := captureRepo.GetTotalCount(nil)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Added %d captures, skipped %d files, %d captures indexed\n", added, skipped, total)
		return nil
	},
}

func init() {
	reindexCmd.Flags().String("images", "", "directory containing captures (default <data-root>/images)")
	reindexCmd.Flags().String("db", "", "capture index path (default DATABASE_PATH)")
}
