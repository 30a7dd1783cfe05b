package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/rfp"
	"github.com/bidforge/bidforge/internal/types"
)

var (
	extractTitle     string
	extractEntity    string
	extractDueDate   string
	extractType      string
	extractOnly      bool
	extractShowUsage bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <document.txt>",
	Short: "Extract an RFP record from document text and assess it",
	Long: `Extract reads raw RFP document text, extracts a structured record
from it, and runs the record through the assessment pipeline. With
--record-only the pipeline is skipped and only the extracted record is
printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractTitle, "title", "", "Record title if the document lacks one")
	extractCmd.Flags().StringVar(&extractEntity, "entity", "", "Issuing entity if the document lacks one")
	extractCmd.Flags().StringVar(&extractDueDate, "due-date", "", "Due date (YYYY-MM-DD) if the document lacks one")
	extractCmd.Flags().StringVar(&extractType, "type", "", "RFP type tag")
	extractCmd.Flags().BoolVar(&extractOnly, "record-only", false, "Print the extracted record without assessing it")
	extractCmd.Flags().BoolVar(&extractShowUsage, "usage", false, "Print token usage and cost per stage on stderr")
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return types.WrapError(
			types.RFP_NOT_FOUND,
			fmt.Sprintf("failed to read document file %s", args[0]),
			err,
		)
	}

	controller, tracker, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	seed := rfp.Seed{
		Title:         extractTitle,
		IssuingEntity: extractEntity,
		DueDate:       extractDueDate,
		Type:          extractType,
	}

	if cfg.Budget != nil {
		// The budget is scoped by record ID, so assign the upload ID
		// up front.
		seed.ID = types.NewUploadID()
		if err := tracker.SetBudget(llm.UsageScope{RecordID: seed.ID}, *cfg.Budget); err != nil {
			return err
		}
	}

	if extractOnly {
		record, err := controller.Extract(cmd.Context(), string(data), seed)
		if err != nil {
			return err
		}
		if extractShowUsage {
			printUsage(cmd, tracker, record.ID)
		}
		return printJSON(cmd, record)
	}

	record, decision, err := controller.ProcessDocument(cmd.Context(), string(data), seed)
	if err != nil {
		return err
	}

	if extractShowUsage {
		printUsage(cmd, tracker, record.ID)
	}

	return printJSON(cmd, map[string]any{
		"record":   record,
		"decision": decision,
	})
}
