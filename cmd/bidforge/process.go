package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/rfp"
	"github.com/bidforge/bidforge/internal/types"
)

var processShowUsage bool

var processCmd = &cobra.Command{
	Use:   "process <record.json>",
	Short: "Run a normalized RFP record through the assessment pipeline",
	Long: `Process reads a normalized RFP record (JSON) and runs the full
assessment pipeline over it, printing the resulting decision as JSON on
stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processShowUsage, "usage", false, "Print token usage and cost per stage on stderr")
}

func runProcess(cmd *cobra.Command, args []string) error {
	record, err := loadRecord(args[0])
	if err != nil {
		return err
	}

	controller, tracker, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	if cfg.Budget != nil {
		if err := tracker.SetBudget(llm.UsageScope{RecordID: record.ID}, *cfg.Budget); err != nil {
			return err
		}
	}

	decision := controller.Process(cmd.Context(), record)

	if processShowUsage {
		printUsage(cmd, tracker, record.ID)
	}

	return printJSON(cmd, decision)
}

// loadRecord reads a JSON record file, resolves relative due dates, and
// validates it.
func loadRecord(path string) (*rfp.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(
			types.RFP_NOT_FOUND,
			fmt.Sprintf("failed to read record file %s", path),
			err,
		)
	}

	var record rfp.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, types.WrapError(
			types.RFP_INVALID,
			fmt.Sprintf("failed to parse record file %s", path),
			err,
		)
	}

	if record.Origin == "" {
		record.Origin = rfp.OriginCatalog
	}
	record.ResolveDueDate(time.Now())

	if err := record.Validate(); err != nil {
		return nil, err
	}
	return &record, nil
}

func printUsage(cmd *cobra.Command, tracker llm.TokenTracker, recordID types.ID) {
	for _, stage := range []string{"extraction", "qualification", "matching", "pricing", "synthesis", ""} {
		scope := llm.UsageScope{RecordID: recordID, Stage: stage}
		usage, err := tracker.GetUsage(scope)
		if err != nil {
			continue
		}
		label := stage
		if label == "" {
			label = "total"
		}
		cmd.PrintErrf("%-14s calls=%d input=%d output=%d cost=$%.4f\n",
			label, usage.CallCount, usage.InputTokens, usage.OutputTokens, usage.TotalCost)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(encoded))
	return nil
}
