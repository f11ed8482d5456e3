package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var perfModelVersion string

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Show per-field model performance aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		perfs, err := e.Recorder.Performance(ctx, perfModelVersion)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(perfs)
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured LLM providers and their models",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		out := make(map[string][]string)
		for _, p := range e.Registry.Providers() {
			out[p] = e.Registry.Models(p)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	performanceCmd.Flags().StringVar(&perfModelVersion, "model-version", "", "filter by model version")
	rootCmd.AddCommand(performanceCmd, providersCmd)
}
