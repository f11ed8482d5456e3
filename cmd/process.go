package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/jstiltner/document-understanding/internal/model"
)

var processCmd = &cobra.Command{
	Use:   "process <pdf-path>",
	Short: "Process a single PDF document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		cat, err := e.Catalog.Load(ctx)
		if err != nil {
			return err
		}

		doc, err := e.Pipeline.Process(ctx, args[0], cat)
		if err != nil {
			if doc != nil {
				printDocument(doc)
			}
			return eris.Wrap(err, "process document")
		}

		return printDocument(doc)
	},
}

func printDocument(doc *model.Document) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func init() {
	rootCmd.AddCommand(processCmd)
}
