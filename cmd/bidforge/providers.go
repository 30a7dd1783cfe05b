package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/bidforge/bidforge/internal/llm"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported LLM providers and priced models",
	RunE:  runProviders,
}

func runProviders(cmd *cobra.Command, args []string) error {
	pricing := llm.DefaultPricing()

	names := make([]string, 0, len(pricing.Pricing))
	for name := range pricing.Pricing {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd.Printf("%s\n", name)

		models := make([]string, 0, len(pricing.Pricing[name]))
		for model := range pricing.Pricing[name] {
			models = append(models, model)
		}
		sort.Strings(models)

		for _, model := range models {
			p := pricing.Pricing[name][model]
			cmd.Printf("  %-28s input $%.3f/1M  output $%.3f/1M\n",
				model, p.InputPer1M, p.OutputPer1M)
		}
		if len(models) == 0 {
			cmd.Println("  (no priced models; usage recorded at zero cost)")
		}
	}

	return nil
}
