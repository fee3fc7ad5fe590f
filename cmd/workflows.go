package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List the workflow rule table",
	Long:  `Display every workflow in the rule table, including user-defined workflows merged over the built-ins, in classifier priority order.`,
	RunE:  runWorkflows,
}

var workflowsVerbose bool

func init() {
	workflowsCmd.Flags().BoolVarP(&workflowsVerbose, "verbose", "v", false, "show triggers and steps per workflow")
	rootCmd.AddCommand(workflowsCmd)
}

func runWorkflows(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("loading workflows: %w", err)
	}

	defs := reg.Definitions()
	maxLen := maxIDLen(defs)

	fmt.Println("Workflows (priority order):")
	for _, def := range defs {
		fmt.Printf("  %-*s  %s\n", maxLen, def.ID, def.Description)
		if !workflowsVerbose {
			continue
		}
		for _, trigger := range def.Triggers {
			fmt.Printf("      trigger %-40s  weight %d\n", trigger.Pattern, trigger.Weight)
		}
		for _, step := range def.Steps {
			marker := ""
			if step.Terminal() {
				marker = "  (terminal)"
			}
			fmt.Printf("      step    %s%s\n", step.ID, marker)
		}
	}

	return nil
}

// maxIDLen returns the length of the longest workflow ID in the slice.
func maxIDLen(defs []*domain.Definition) int {
	maxLen := 0
	for _, def := range defs {
		if len(def.ID) > maxLen {
			maxLen = len(def.ID)
		}
	}
	return maxLen
}
