package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peoplekit/peoplekit/internal/workflows/detect"
	"github.com/peoplekit/peoplekit/internal/workflows/domain"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [message]",
	Short: "Classify a message against the rule table",
	Long: `Run intent classification for a single message and print the matched
workflow, confidence, and the factors that contributed to the score. Useful
for debugging trigger patterns in user-defined workflows.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

var classifyWorkflow string

func init() {
	classifyCmd.Flags().StringVar(&classifyWorkflow, "current-workflow", "", "simulate an active workflow for continuity scoring")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("loading workflows: %w", err)
	}

	detector := detect.NewDetector(reg)
	message := args[0]

	match := detector.Classify(domain.DetectionContext{
		Message:         message,
		CurrentWorkflow: domain.WorkflowID(classifyWorkflow),
	})
	fmt.Println("match:", detect.Explain(match))

	if route, ok := detector.RouteDocumentType(message); ok {
		fmt.Printf("document: %s (owned by %s)\n", route.DocumentType, route.WorkflowID)
	}
	if employee := detect.DetectEmployeeMention(message); employee != "" {
		fmt.Println("employee:", employee)
	}
	if dept := detect.DetectDepartmentMention(message); dept != "" {
		fmt.Println("department:", dept)
	}

	return nil
}
