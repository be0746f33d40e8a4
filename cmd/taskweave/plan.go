package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kestrelworks/taskweave/internal/planner"
)

var (
	planDescription string
	planOutputYAML  bool
)

var planCmd = &cobra.Command{
	Use:   "plan <goal>",
	Short: "Plan a workflow from a goal without executing it",
	Long: `Plan decomposes a goal into tasks and prints the resulting
workflow: task order, dependencies, priorities, and the estimated
total duration. Nothing is executed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planDescription, "description", "", "optional workflow description")
	planCmd.Flags().BoolVar(&planOutputYAML, "yaml", false, "print the planned workflow as YAML")
}

func runPlan(cmd *cobra.Command, args []string) error {
	goal := strings.Join(args, " ")

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	p := planner.New(log)
	workflow, err := p.PlanWorkflow(goal, planDescription, nil)
	if err != nil {
		return fmt.Errorf("plan workflow: %w", err)
	}

	if planOutputYAML {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(workflow)
	}

	fmt.Printf("%s %s\n", color.CyanString("Workflow:"), workflow.ID)
	fmt.Printf("%s %s\n", color.CyanString("Goal:"), workflow.Goal)
	fmt.Printf("%s %ds across %d tasks\n\n",
		color.CyanString("Estimated:"), workflow.EstimatedTotalDuration, len(workflow.Tasks))

	for _, taskID := range workflow.TaskOrder {
		task := workflow.Tasks[taskID]
		deps := "none"
		if len(task.Dependencies) > 0 {
			deps = strings.Join(task.Dependencies, ", ")
		}
		fmt.Printf("  %s %s (%s)\n", color.GreenString(task.ID), task.Name, task.Action)
		fmt.Printf("      priority: %s  duration: %ds  depends on: %s\n",
			task.Priority, task.EstimatedDurationSeconds, deps)
	}
	return nil
}
