package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Process every PDF in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		cat, err := e.Catalog.Load(ctx)
		if err != nil {
			return err
		}

		entries, err := os.ReadDir(args[0])
		if err != nil {
			return eris.Wrapf(err, "read directory %s", args[0])
		}

		var paths []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				continue
			}
			paths = append(paths, filepath.Join(args[0], entry.Name()))
		}
		if batchLimit > 0 && len(paths) > batchLimit {
			paths = paths[:batchLimit]
		}
		if len(paths) == 0 {
			zap.L().Info("no PDF files found", zap.String("dir", args[0]))
			return nil
		}

		var succeeded, failed, review atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrentDocuments)
		for _, path := range paths {
			g.Go(func() error {
				doc, err := e.Pipeline.Process(gctx, path, cat)
				if err != nil {
					failed.Add(1)
					zap.L().Error("document failed", zap.String("path", path), zap.Error(err))
					// One bad document never aborts the batch.
					return nil
				}
				succeeded.Add(1)
				if doc.RequiresReview {
					review.Add(1)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.Int("total", len(paths)),
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
			zap.Int64("review_required", review.Load()),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}
