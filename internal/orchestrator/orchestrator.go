// Package orchestrator drives workflow execution: it asks the planner
// for ready tasks, dispatches them to action handlers under the
// configured strategy, and aggregates per-task outcomes into an
// execution record. Task failures are contained at the task boundary;
// the only escalation is the aggregate counts on the ExecutionResult.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kestrelworks/taskweave/internal/actions"
	"github.com/kestrelworks/taskweave/internal/config"
	"github.com/kestrelworks/taskweave/internal/critic"
	"github.com/kestrelworks/taskweave/internal/planner"
	"github.com/kestrelworks/taskweave/internal/summarizer"
	"github.com/kestrelworks/taskweave/pkg/models"
)

// Execution status values.
const (
	StatusRunning             = "running"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusFailed              = "failed"
)

// ErrStalled reports a scheduling deadlock: no task is ready and
// nothing has executed yet, so the workflow can make no progress.
var ErrStalled = errors.New("no ready tasks and nothing executed")

// ErrWorkflowNotFound reports an unknown workflow ID.
var ErrWorkflowNotFound = errors.New("workflow not found")

// summarizeThreshold is the minimum output size, in bytes, that
// triggers an automatic summary of a task result.
const summarizeThreshold = 200

// ExecutionResult aggregates the outcome of one workflow execution.
type ExecutionResult struct {
	WorkflowID      string                         `json:"workflow_id"`
	Success         bool                           `json:"success"`
	Status          string                         `json:"status"`
	StartedAt       time.Time                      `json:"started_at"`
	CompletedAt     *time.Time                     `json:"completed_at,omitempty"`
	DurationSeconds int                            `json:"duration_seconds"`
	TasksCompleted  int                            `json:"tasks_completed"`
	TasksFailed     int                            `json:"tasks_failed"`
	TasksTotal      int                            `json:"tasks_total"`
	Results         map[string]map[string]any      `json:"results"`
	Reviews         map[string]*critic.Review      `json:"reviews,omitempty"`
	Summaries       map[string]*summarizer.Summary `json:"summaries,omitempty"`
	Errors          []string                       `json:"errors,omitempty"`
}

// Reviewer scores task output quality. Reviews are advisory; execution
// never gates on approval.
type Reviewer interface {
	Review(content, contentType string, context map[string]any, sourceReferences []string) *critic.Review
	ReviewCount() int
}

// Summarizer condenses large task outputs.
type Summarizer interface {
	Summarize(content string, style summarizer.Style, length summarizer.Length, context map[string]any) *summarizer.Summary
	SummaryCount() int
}

// Statistics aggregates counters across the orchestrator's collaborators.
type Statistics struct {
	TotalWorkflows       int `json:"total_workflows"`
	TotalReviews         int `json:"total_reviews"`
	TotalSummaries       int `json:"total_summaries"`
	SuccessfulExecutions int `json:"successful_executions"`
	FailedExecutions     int `json:"failed_executions"`
}

// WorkflowStatus is a combined view of a workflow and its execution.
type WorkflowStatus struct {
	WorkflowID      string          `json:"workflow_id"`
	Goal            string          `json:"goal"`
	Status          string          `json:"status"`
	Progress        models.Progress `json:"progress"`
	TasksCompleted  int             `json:"tasks_completed"`
	TasksFailed     int             `json:"tasks_failed"`
	DurationSeconds int             `json:"duration_seconds"`
	Success         bool            `json:"success"`
}

// Orchestrator executes planned workflows. Safe for concurrent use.
type Orchestrator struct {
	config     config.Config
	planner    *planner.Planner
	reviewer   Reviewer
	summarizer Summarizer
	registry   *actions.Registry

	mu         sync.RWMutex
	executions map[string]*ExecutionResult

	log *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPlanner injects a shared planner instance.
func WithPlanner(p *planner.Planner) Option {
	return func(o *Orchestrator) { o.planner = p }
}

// WithReviewer injects the reviewer used for output quality checks.
func WithReviewer(r Reviewer) Option {
	return func(o *Orchestrator) { o.reviewer = r }
}

// WithSummarizer injects the summarizer used for large outputs.
func WithSummarizer(s Summarizer) Option {
	return func(o *Orchestrator) { o.summarizer = s }
}

// WithRegistry injects the action handler registry.
func WithRegistry(r *actions.Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// WithLogger injects the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New creates an Orchestrator with the given configuration. Collaborators
// not injected via options get default in-process implementations.
func New(cfg config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		config:     cfg,
		executions: make(map[string]*ExecutionResult),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.planner == nil {
		o.planner = planner.New(o.log)
	}
	if o.reviewer == nil {
		criticCfg := critic.DefaultConfig()
		if cfg.AutoApproveScore > 0 {
			criticCfg.MinQualityScore = cfg.AutoApproveScore
		}
		o.reviewer = critic.New(criticCfg, o.log)
	}
	if o.summarizer == nil {
		o.summarizer = summarizer.New(summarizer.DefaultConfig(), o.log)
	}
	if o.registry == nil {
		o.registry = actions.NewRegistry(o.log)
	}
	return o
}

// Planner returns the planner this orchestrator schedules against.
func (o *Orchestrator) Planner() *planner.Planner {
	return o.planner
}

// ExecuteWorkflow plans a workflow from a goal and runs it to completion.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context, goal, description string, planContext map[string]any) (*ExecutionResult, error) {
	workflow, err := o.planner.PlanWorkflow(goal, description, planContext)
	if err != nil {
		return nil, err
	}
	return o.runWorkflow(ctx, workflow), nil
}

// RunWorkflow runs an already-planned workflow. Returns
// ErrWorkflowNotFound for an unknown ID.
func (o *Orchestrator) RunWorkflow(ctx context.Context, workflowID string) (*ExecutionResult, error) {
	workflow, ok := o.planner.Workflow(workflowID)
	if !ok {
		return nil, fmt.Errorf("run %s: %w", workflowID, ErrWorkflowNotFound)
	}
	return o.runWorkflow(ctx, workflow), nil
}

func (o *Orchestrator) runWorkflow(ctx context.Context, workflow *models.Workflow) *ExecutionResult {
	result := &ExecutionResult{
		WorkflowID: workflow.ID,
		Status:     StatusRunning,
		StartedAt:  time.Now(),
		TasksTotal: len(workflow.Tasks),
		Results:    make(map[string]map[string]any),
		Reviews:    make(map[string]*critic.Review),
		Summaries:  make(map[string]*summarizer.Summary),
	}

	defer func() {
		now := time.Now()
		result.CompletedAt = &now
		result.DurationSeconds = int(now.Sub(result.StartedAt).Seconds())

		o.mu.Lock()
		o.executions[workflow.ID] = result
		o.mu.Unlock()
	}()

	if len(workflow.Tasks) == 0 {
		result.Status = StatusCompleted
		result.Success = true
		return result
	}

	var err error
	switch o.config.Mode {
	case config.ModeParallel:
		err = o.executeParallel(ctx, workflow, result)
	case config.ModeHybrid:
		err = o.executeHybrid(ctx, workflow, result)
	default:
		err = o.executeSequential(ctx, workflow, result)
	}

	if err != nil {
		o.log.Error("workflow execution error",
			zap.String("workflow_id", workflow.ID),
			zap.Error(err))
		result.Errors = append(result.Errors, err.Error())
		result.Status = StatusFailed
		result.Success = false
		return result
	}

	result.Success = result.TasksFailed == 0
	if result.Success {
		result.Status = StatusCompleted
	} else {
		result.Status = StatusCompletedWithErrors
	}
	return result
}

// executeSequential runs ready tasks one at a time, re-reading readiness
// after each wave so newly unblocked work is picked up.
func (o *Orchestrator) executeSequential(ctx context.Context, workflow *models.Workflow, result *ExecutionResult) error {
	var mu sync.Mutex
	executed := make(map[string]bool)

	for len(executed) < len(workflow.Tasks) {
		if err := ctx.Err(); err != nil {
			return err
		}

		ready := o.readyUnexecuted(workflow.ID, executed)
		if len(ready) == 0 {
			if len(executed) > 0 {
				// Remaining tasks are unreachable: an upstream failure
				// or cancellation left their dependencies unmet.
				return nil
			}
			return ErrStalled
		}

		for _, task := range ready {
			ok := o.executeTask(ctx, workflow, task, result, &mu)
			executed[task.ID] = true
			if ok {
				result.TasksCompleted++
			} else {
				result.TasksFailed++
			}
		}
	}
	return nil
}

// executeParallel runs each wave of ready tasks concurrently, bounded by
// MaxWorkers, with a barrier between waves so readiness is only
// recomputed against settled task states.
func (o *Orchestrator) executeParallel(ctx context.Context, workflow *models.Workflow, result *ExecutionResult) error {
	var mu sync.Mutex
	executed := make(map[string]bool)

	for len(executed) < len(workflow.Tasks) {
		if err := ctx.Err(); err != nil {
			return err
		}

		ready := o.readyUnexecuted(workflow.ID, executed)
		if len(ready) == 0 {
			if len(executed) > 0 {
				return nil
			}
			return ErrStalled
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.config.MaxWorkers)
		for _, task := range ready {
			task := task
			executed[task.ID] = true
			g.Go(func() error {
				ok := o.executeTask(gctx, workflow, task, result, &mu)
				mu.Lock()
				if ok {
					result.TasksCompleted++
				} else {
					result.TasksFailed++
				}
				mu.Unlock()
				return nil
			})
		}
		// Task failures are recorded, not returned, so the only error
		// surfaced by the group is context cancellation.
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// executeHybrid currently delegates to sequential dispatch. The wave
// shapes the templates produce are too small for a mixed strategy to
// beat the parallel mode, so hybrid keeps the predictable ordering.
func (o *Orchestrator) executeHybrid(ctx context.Context, workflow *models.Workflow, result *ExecutionResult) error {
	return o.executeSequential(ctx, workflow, result)
}

// readyUnexecuted filters this run's already-dispatched tasks out of the
// planner's ready set.
func (o *Orchestrator) readyUnexecuted(workflowID string, executed map[string]bool) []*models.Task {
	ready, _ := o.planner.NextTasks(workflowID)
	out := ready[:0]
	for _, t := range ready {
		if !executed[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// executeTask runs one task through its action handler and records the
// outcome. mu guards writes to the shared result maps; task state itself
// goes through the planner. Returns true on success.
func (o *Orchestrator) executeTask(ctx context.Context, workflow *models.Workflow, task *models.Task, result *ExecutionResult, mu *sync.Mutex) bool {
	if o.config.LogExecution {
		o.log.Info("executing task",
			zap.String("workflow_id", workflow.ID),
			zap.String("task_id", task.ID),
			zap.String("task", task.Name),
			zap.String("action", task.Action))
	}

	o.planner.UpdateTaskStatus(workflow.ID, task.ID, models.TaskStatusInProgress, nil, "")

	handler, _ := o.registry.Resolve(task.Action)

	taskCtx := ctx
	if o.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, o.config.TaskTimeout)
		defer cancel()
	}

	taskResult, err := handler.Handle(taskCtx, task.Parameters)
	if err != nil {
		errMsg := fmt.Sprintf("task %s failed: %v", task.ID, err)
		o.log.Error("task failed",
			zap.String("workflow_id", workflow.ID),
			zap.String("task_id", task.ID),
			zap.Error(err))

		o.planner.UpdateTaskStatus(workflow.ID, task.ID, models.TaskStatusFailed, nil, errMsg)

		mu.Lock()
		result.Errors = append(result.Errors, errMsg)
		mu.Unlock()
		return false
	}

	o.planner.UpdateTaskStatus(workflow.ID, task.ID, models.TaskStatusCompleted, taskResult, "")

	mu.Lock()
	result.Results[task.ID] = taskResult
	mu.Unlock()

	output, _ := taskResult["output"].(string)

	if o.config.EnableReview && output != "" {
		review := o.reviewer.Review(output, task.Action, map[string]any{"task": task.Name}, nil)
		mu.Lock()
		result.Reviews[task.ID] = review
		mu.Unlock()

		if !review.IsApproved {
			o.log.Warn("task output failed review",
				zap.String("task_id", task.ID),
				zap.String("summary", review.ReviewSummary))
		}
	}

	if o.config.EnableSummaries && len(output) > summarizeThreshold {
		summary := o.summarizer.Summarize(output, summarizer.StyleBulletPoints, summarizer.LengthShort, nil)
		mu.Lock()
		result.Summaries[task.ID] = summary
		mu.Unlock()
	}

	if o.config.LogExecution {
		o.log.Info("task completed", zap.String("task_id", task.ID))
	}
	return true
}

// Execution returns the execution record for a workflow ID.
func (o *Orchestrator) Execution(workflowID string) (*ExecutionResult, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	e, ok := o.executions[workflowID]
	return e, ok
}

// Executions returns all execution records.
func (o *Orchestrator) Executions() []*ExecutionResult {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*ExecutionResult, 0, len(o.executions))
	for _, e := range o.executions {
		out = append(out, e)
	}
	return out
}

// WorkflowStatus returns the combined workflow and execution view.
// The second return is false when either side is unknown.
func (o *Orchestrator) WorkflowStatus(workflowID string) (*WorkflowStatus, bool) {
	execution, ok := o.Execution(workflowID)
	if !ok {
		return nil, false
	}
	workflow, ok := o.planner.Workflow(workflowID)
	if !ok {
		return nil, false
	}
	progress, _ := o.planner.Progress(workflowID)

	return &WorkflowStatus{
		WorkflowID:      workflowID,
		Goal:            workflow.Goal,
		Status:          execution.Status,
		Progress:        progress,
		TasksCompleted:  execution.TasksCompleted,
		TasksFailed:     execution.TasksFailed,
		DurationSeconds: execution.DurationSeconds,
		Success:         execution.Success,
	}, true
}

// CancelWorkflow blocks every pending or ready task in a workflow so it
// is never offered for execution again. Tasks already terminal or in
// flight are left alone. Returns false for an unknown workflow ID.
func (o *Orchestrator) CancelWorkflow(workflowID string) bool {
	workflow, ok := o.planner.Workflow(workflowID)
	if !ok {
		return false
	}
	for _, taskID := range workflow.TaskOrder {
		task := workflow.Tasks[taskID]
		if task.Status == models.TaskStatusPending || task.Status == models.TaskStatusReady {
			o.planner.UpdateTaskStatus(workflowID, taskID, models.TaskStatusBlocked, nil, "")
		}
	}
	return true
}

// RetryFailedTask resets a failed task to pending so the next run can
// pick it up, and counts the attempt. Only failed tasks are retryable,
// and only up to the configured retry budget; anything else returns
// false.
func (o *Orchestrator) RetryFailedTask(workflowID, taskID string) bool {
	workflow, ok := o.planner.Workflow(workflowID)
	if !ok {
		return false
	}
	task, ok := workflow.Tasks[taskID]
	if !ok || task.Status != models.TaskStatusFailed {
		return false
	}
	if task.RetryCount >= o.config.MaxRetries {
		o.log.Warn("retry budget exhausted",
			zap.String("workflow_id", workflowID),
			zap.String("task_id", taskID),
			zap.Int("retries", task.RetryCount))
		return false
	}
	if !o.planner.UpdateTaskStatus(workflowID, taskID, models.TaskStatusPending, nil, "") {
		return false
	}
	task.RetryCount++
	return true
}

// Statistics reports aggregate counters across planner, reviewer,
// summarizer, and recorded executions.
func (o *Orchestrator) Statistics() Statistics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := Statistics{
		TotalWorkflows: o.planner.WorkflowCount(),
		TotalReviews:   o.reviewer.ReviewCount(),
		TotalSummaries: o.summarizer.SummaryCount(),
	}
	for _, e := range o.executions {
		if e.Success {
			stats.SuccessfulExecutions++
		} else {
			stats.FailedExecutions++
		}
	}
	return stats
}
