package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/jstiltner/document-understanding/internal/feedback"
	"github.com/jstiltner/document-understanding/internal/model"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and inspect reviewer feedback",
}

var (
	fbDocumentID string
	fbFieldName  string
	fbType       string
	fbOriginal   string
	fbCorrected  string
	fbConfidence float64
	fbReviewer   string
	fbModelVer   string
	fbOCRContext string
)

var feedbackRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one review event against one field",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		fb, err := e.Recorder.Record(ctx, feedback.RecordRequest{
			DocumentID:         fbDocumentID,
			FieldName:          fbFieldName,
			OriginalValue:      fbOriginal,
			CorrectedValue:     fbCorrected,
			OriginalConfidence: fbConfidence,
			FeedbackType:       model.FeedbackType(fbType),
			ReviewerID:         fbReviewer,
			ModelVersion:       fbModelVer,
			OCRContext:         fbOCRContext,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fb)
	},
}

var fbListLimit int

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		records, err := e.Recorder.ForTraining(ctx, fbModelVer, fbFieldName, fbListLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

var feedbackSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Whole-log feedback summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		summary, err := e.Recorder.Summary(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	feedbackRecordCmd.Flags().StringVar(&fbDocumentID, "document", "", "document ID (required)")
	feedbackRecordCmd.Flags().StringVar(&fbFieldName, "field", "", "canonical field name (required)")
	feedbackRecordCmd.Flags().StringVar(&fbType, "type", "", "confirmation|correction|addition|removal (required)")
	feedbackRecordCmd.Flags().StringVar(&fbOriginal, "original", "", "value the model extracted")
	feedbackRecordCmd.Flags().StringVar(&fbCorrected, "corrected", "", "value the reviewer supplied")
	feedbackRecordCmd.Flags().Float64Var(&fbConfidence, "confidence", 0, "confidence the model reported for the field")
	feedbackRecordCmd.Flags().StringVar(&fbReviewer, "reviewer", "", "reviewer ID")
	feedbackRecordCmd.Flags().StringVar(&fbModelVer, "model-version", "", "model version the extraction ran under (required)")
	feedbackRecordCmd.Flags().StringVar(&fbOCRContext, "ocr-context", "", "OCR text surrounding the field")

	feedbackListCmd.Flags().StringVar(&fbModelVer, "model-version", "", "filter by model version")
	feedbackListCmd.Flags().StringVar(&fbFieldName, "field", "", "filter by field name")
	feedbackListCmd.Flags().IntVar(&fbListLimit, "limit", 0, "max records (default 1000)")

	feedbackCmd.AddCommand(feedbackRecordCmd, feedbackListCmd, feedbackSummaryCmd)
	rootCmd.AddCommand(feedbackCmd)
}
