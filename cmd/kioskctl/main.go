package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"touristkiosk/internal/config"
	"touristkiosk/internal/logger"
)

var (
	cfg  *config.Config
	logs *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kioskctl",
	Short: "Maintenance tool for the tourist survey kiosk",
	Long:  "Rebuilds the capture index from the images directory and prints stored survey records.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := logger.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logs = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logs != nil {
			logs.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd, recordsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
