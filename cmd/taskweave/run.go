package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kestrelworks/taskweave/internal/config"
	"github.com/kestrelworks/taskweave/internal/orchestrator"
)

var (
	runMode        string
	runWorkers     int
	runNoReview    bool
	runNoSummaries bool
	runOutputYAML  bool
	runShowStats   bool
)

var runCmd = &cobra.Command{
	Use:   "run <goal>",
	Short: "Plan and execute a workflow from a goal",
	Long: `Run plans a workflow from the goal and executes it to completion.

Task failures are contained: a failed task strands only its dependents,
and the run finishes with whatever work stayed reachable. The exit
status reflects the workflow outcome.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", "", "execution mode: sequential, parallel, or hybrid")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "max concurrent tasks in parallel mode")
	runCmd.Flags().BoolVar(&runNoReview, "no-review", false, "skip output quality review")
	runCmd.Flags().BoolVar(&runNoSummaries, "no-summaries", false, "skip summarizing large outputs")
	runCmd.Flags().BoolVar(&runOutputYAML, "yaml", false, "print the execution result as YAML")
	runCmd.Flags().BoolVar(&runShowStats, "stats", false, "print aggregate statistics after the run")
}

func runRun(cmd *cobra.Command, args []string) error {
	goal := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runMode != "" {
		mode := config.Mode(runMode)
		if !mode.Valid() {
			return fmt.Errorf("invalid mode %q", runMode)
		}
		cfg.Mode = mode
	}
	if runWorkers > 0 {
		cfg.MaxWorkers = runWorkers
	}
	if runNoReview {
		cfg.EnableReview = false
	}
	if runNoSummaries {
		cfg.EnableSummaries = false
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := orchestrator.New(cfg, orchestrator.WithLogger(log))
	result, err := o.ExecuteWorkflow(ctx, goal, "", nil)
	if err != nil {
		return fmt.Errorf("execute workflow: %w", err)
	}

	if runOutputYAML {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(o, result)
	}

	if runShowStats {
		printStatistics(o.Statistics())
	}

	if !result.Success {
		return fmt.Errorf("workflow %s finished %s", result.WorkflowID, result.Status)
	}
	return nil
}

func printResult(o *orchestrator.Orchestrator, result *orchestrator.ExecutionResult) {
	statusColor := color.GreenString
	if !result.Success {
		statusColor = color.RedString
	}

	fmt.Printf("%s %s\n", color.CyanString("Workflow:"), result.WorkflowID)
	fmt.Printf("%s %s\n", color.CyanString("Status:"), statusColor(result.Status))
	fmt.Printf("%s %d completed, %d failed of %d (%ds)\n",
		color.CyanString("Tasks:"),
		result.TasksCompleted, result.TasksFailed, result.TasksTotal,
		result.DurationSeconds)

	workflow, ok := o.Planner().Workflow(result.WorkflowID)
	if ok {
		fmt.Println()
		for _, taskID := range workflow.TaskOrder {
			task := workflow.Tasks[taskID]
			marker := color.GreenString("✓")
			switch {
			case task.Error != "":
				marker = color.RedString("✗")
			case len(result.Results[taskID]) == 0:
				marker = color.YellowString("-")
			}
			fmt.Printf("  %s %s (%s)\n", marker, task.Name, task.Status)
		}
	}

	for _, msg := range result.Errors {
		fmt.Printf("\n%s %s\n", color.RedString("error:"), msg)
	}
}

func printStatistics(stats orchestrator.Statistics) {
	fmt.Printf("\n%s\n", color.CyanString("Statistics:"))
	fmt.Printf("  workflows:  %d\n", stats.TotalWorkflows)
	fmt.Printf("  reviews:    %d\n", stats.TotalReviews)
	fmt.Printf("  summaries:  %d\n", stats.TotalSummaries)
	fmt.Printf("  executions: %d ok, %d failed\n",
		stats.SuccessfulExecutions, stats.FailedExecutions)
}
