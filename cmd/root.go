package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jstiltner/document-understanding/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "docpipe",
	Short: "Insurance document extraction pipeline",
	Long:  "OCRs insurance denial and prior-auth PDFs, extracts structured fields via LLMs, scores confidence, routes low-confidence documents to human review, and learns from reviewer feedback.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
