// Package planner turns high-level goals into dependency-resolved
// workflows and owns the workflow registry. It is the single writer of
// task state: everyone else mutates tasks only through UpdateTaskStatus.
package planner

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelworks/taskweave/internal/graph"
	"github.com/kestrelworks/taskweave/pkg/models"
)

// Planner plans and stores workflows. Safe for concurrent use.
type Planner struct {
	mu sync.RWMutex
	// workflows maps workflow ID to workflow.
	workflows map[string]*models.Workflow
	// taskCounter assigns monotonically increasing task IDs.
	taskCounter int
	log         *zap.Logger
}

// New creates a Planner with an empty workflow registry.
func New(log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{
		workflows: make(map[string]*models.Workflow),
		log:       log,
	}
}

// PlanWorkflow creates a workflow plan from a high-level goal.
//
// The goal string is scanned for keyword families; every family matched
// contributes its task template to the workflow. Goals matching nothing
// (including the empty goal) get the default template — planning never
// fails for an unrecognized goal. The only error condition is a
// malformed dependency graph, which the fixed templates cannot produce.
func (p *Planner) PlanWorkflow(goal, description string, context map[string]any) (*models.Workflow, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	workflow := &models.Workflow{
		ID:          p.nextWorkflowID(),
		Goal:        goal,
		Description: description,
		Tasks:       make(map[string]*models.Task),
		Status:      models.WorkflowStatusPlanning,
		CreatedAt:   time.Now(),
		Metadata:    map[string]any{"initial_context": context},
	}

	tasks := p.decomposeGoal(goal)
	for _, task := range tasks {
		workflow.Tasks[task.ID] = task
		workflow.TaskOrder = append(workflow.TaskOrder, task.ID)
	}

	resolveDependencies(tasks)

	// Templates are acyclic by construction; this guards against a
	// future template addition silently introducing a cycle.
	g, err := graph.Build(tasks)
	if err != nil {
		return nil, fmt.Errorf("planning %s: %w", workflow.ID, err)
	}
	if _, err := g.Validate(); err != nil {
		return nil, fmt.Errorf("planning %s: %w", workflow.ID, err)
	}

	for _, task := range tasks {
		workflow.EstimatedTotalDuration += task.EstimatedDurationSeconds
	}

	workflow.Status = models.WorkflowStatusReady
	p.workflows[workflow.ID] = workflow

	p.log.Info("planned workflow",
		zap.String("workflow_id", workflow.ID),
		zap.String("goal", goal),
		zap.Int("tasks", len(tasks)))

	return workflow, nil
}

// decomposeGoal breaks a goal down into tasks by keyword family. Families
// are not mutually exclusive; a goal can contribute several templates.
func (p *Planner) decomposeGoal(goal string) []*models.Task {
	goalLower := strings.ToLower(goal)

	var tasks []*models.Task
	for _, family := range keywordFamilies {
		if family.matches(goalLower) {
			tasks = append(tasks, family.template(p)...)
		}
	}
	if len(tasks) == 0 {
		tasks = defaultTasks(p, goal)
	}
	return tasks
}

// Workflow returns the workflow with the given ID.
func (p *Planner) Workflow(id string) (*models.Workflow, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	w, ok := p.workflows[id]
	return w, ok
}

// Workflows returns all stored workflows.
func (p *Planner) Workflows() []*models.Workflow {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*models.Workflow, 0, len(p.workflows))
	for _, w := range p.workflows {
		out = append(out, w)
	}
	return out
}

// WorkflowCount returns the number of stored workflows.
func (p *Planner) WorkflowCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.workflows)
}

// NextTasks returns the tasks ready for execution in the given workflow.
// The second return is false for an unknown workflow ID.
func (p *Planner) NextTasks(workflowID string) ([]*models.Task, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	w, ok := p.workflows[workflowID]
	if !ok {
		return nil, false
	}
	return w.ReadyTasks(), true
}

// Progress returns progress counts for the given workflow. The second
// return is false for an unknown workflow ID.
func (p *Planner) Progress(workflowID string) (models.Progress, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	w, ok := p.workflows[workflowID]
	if !ok {
		return models.Progress{}, false
	}
	return w.Progress(), true
}

// UpdateTaskStatus is the single sanctioned mutator of task state.
// It stamps StartedAt on the transition to in_progress, CompletedAt plus
// the result on completed, and CompletedAt plus the error on failed. A
// reset to pending (retry) clears the lifecycle fields so the task
// re-enters readiness computation cleanly. Returns false when the
// workflow or task is unknown; callers must check the boolean.
func (p *Planner) UpdateTaskStatus(workflowID, taskID string, status models.TaskStatus, result map[string]any, errMsg string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, ok := p.workflows[workflowID]
	if !ok {
		return false
	}
	task, ok := w.Tasks[taskID]
	if !ok {
		return false
	}

	task.Status = status

	switch status {
	case models.TaskStatusInProgress:
		now := time.Now()
		task.StartedAt = &now
	case models.TaskStatusCompleted:
		now := time.Now()
		task.CompletedAt = &now
		task.Result = result
	case models.TaskStatusFailed:
		now := time.Now()
		task.CompletedAt = &now
		task.Error = errMsg
	case models.TaskStatusPending:
		task.StartedAt = nil
		task.CompletedAt = nil
		task.Result = nil
		task.Error = ""
	}

	return true
}

// nextTaskID allocates the next monotonic task ID. Caller holds p.mu.
func (p *Planner) nextTaskID() string {
	p.taskCounter++
	return fmt.Sprintf("task_%d", p.taskCounter)
}

// nextWorkflowID derives a workflow ID from the current timestamp and a
// sequence number. Caller holds p.mu.
func (p *Planner) nextWorkflowID() string {
	return fmt.Sprintf("workflow_%s_%d", time.Now().Format("20060102150405"), len(p.workflows)+1)
}
