package models

import (
	"sort"
	"time"
)

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	// WorkflowStatusPlanning indicates the workflow is being assembled.
	WorkflowStatusPlanning WorkflowStatus = "planning"
	// WorkflowStatusReady indicates planning finished and the workflow
	// can be executed.
	WorkflowStatusReady WorkflowStatus = "ready"
	// WorkflowStatusRunning indicates an execution is in flight.
	WorkflowStatusRunning WorkflowStatus = "running"
	// WorkflowStatusCompleted indicates execution finished.
	WorkflowStatusCompleted WorkflowStatus = "completed"
	// WorkflowStatusFailed indicates execution failed.
	WorkflowStatusFailed WorkflowStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s WorkflowStatus) Valid() bool {
	switch s {
	case WorkflowStatusPlanning, WorkflowStatusReady, WorkflowStatusRunning,
		WorkflowStatusCompleted, WorkflowStatusFailed:
		return true
	default:
		return false
	}
}

// Workflow is a named, goal-driven collection of tasks.
//
// The planner is the sole writer of the task map; everyone else mutates
// task state only through the planner's update entry point.
type Workflow struct {
	// ID is the unique identifier for this workflow.
	ID string `json:"id"`
	// Goal is the high-level objective the workflow was planned from.
	Goal string `json:"goal"`
	// Description provides detail beyond the goal.
	Description string `json:"description,omitempty"`
	// Tasks maps task ID to task.
	Tasks map[string]*Task `json:"tasks"`
	// TaskOrder preserves task insertion order. It is always a
	// permutation of the keys of Tasks.
	TaskOrder []string `json:"task_order"`
	// Status is the workflow lifecycle state.
	Status WorkflowStatus `json:"status"`
	// CreatedAt is when planning started.
	CreatedAt time.Time `json:"created_at"`
	// StartedAt is when execution began, if it has.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when execution finished, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// EstimatedTotalDuration is the planner's total duration estimate
	// in seconds.
	EstimatedTotalDuration int `json:"estimated_total_duration"`
	// ActualDurationSeconds is the measured execution duration, if known.
	ActualDurationSeconds *int `json:"actual_duration_seconds,omitempty"`
	// Metadata carries free-form data, including the original
	// invocation context.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Task returns the task with the given ID.
func (w *Workflow) Task(id string) (*Task, bool) {
	t, ok := w.Tasks[id]
	return t, ok
}

// ReadyTasks returns the tasks eligible for execution: status pending or
// ready, with every dependency completed. Results are sorted by priority
// (critical first); ties keep task insertion order. This is the sole
// scheduling decision point.
func (w *Workflow) ReadyTasks() []*Task {
	var ready []*Task
	for _, id := range w.TaskOrder {
		t, ok := w.Tasks[id]
		if !ok {
			continue
		}
		if t.Status != TaskStatusPending && t.Status != TaskStatusReady {
			continue
		}
		if t.DependenciesMet(w.Tasks) {
			ready = append(ready, t)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Priority.Rank() < ready[j].Priority.Rank()
	})
	return ready
}

// Progress holds workflow progress counts.
type Progress struct {
	// Total is the number of tasks in the workflow.
	Total int `json:"total"`
	// Completed is the number of tasks that finished successfully.
	Completed int `json:"completed"`
	// Failed is the number of tasks that finished with an error.
	Failed int `json:"failed"`
	// InProgress is the number of tasks currently executing.
	InProgress int `json:"in_progress"`
	// Blocked is the number of tasks that will not be scheduled.
	Blocked int `json:"blocked"`
	// Pending is derived: total minus all of the above.
	Pending int `json:"pending"`
	// CompletionPercentage is completed/total*100, or 0 for an empty
	// workflow.
	CompletionPercentage float64 `json:"completion_percentage"`
}

// Progress returns current progress counts. Calling it twice without an
// intervening status update yields identical results.
func (w *Workflow) Progress() Progress {
	p := Progress{Total: len(w.Tasks)}
	for _, t := range w.Tasks {
		switch t.Status {
		case TaskStatusCompleted:
			p.Completed++
		case TaskStatusFailed:
			p.Failed++
		case TaskStatusInProgress:
			p.InProgress++
		case TaskStatusBlocked:
			p.Blocked++
		}
	}
	p.Pending = p.Total - p.Completed - p.Failed - p.InProgress - p.Blocked
	if p.Total > 0 {
		p.CompletionPercentage = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}
