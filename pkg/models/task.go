// Package models defines the passive data model shared across taskweave:
// tasks, workflows, and their derived-state helpers.
package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task is waiting to be scheduled.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusReady indicates the task's dependencies are met.
	// Readiness computation treats pending and ready identically; the
	// distinction exists only for external visibility.
	TaskStatusReady TaskStatus = "ready"
	// TaskStatusInProgress indicates the task is being executed.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task finished with an error.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusBlocked indicates the task will not be scheduled,
	// typically because its workflow was cancelled.
	TaskStatusBlocked TaskStatus = "blocked"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusReady, TaskStatusInProgress,
		TaskStatusCompleted, TaskStatusFailed, TaskStatusBlocked:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is an end state. Failed tasks can
// still leave the terminal set through an explicit retry.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusBlocked:
		return true
	default:
		return false
	}
}

// TaskPriority represents how urgently a task should be scheduled
// relative to other ready tasks.
type TaskPriority string

const (
	// PriorityLow is for tasks that can wait.
	PriorityLow TaskPriority = "low"
	// PriorityMedium is the default priority.
	PriorityMedium TaskPriority = "medium"
	// PriorityHigh is for tasks on the critical path of a workflow.
	PriorityHigh TaskPriority = "high"
	// PriorityCritical is for tasks that must run before anything else.
	PriorityCritical TaskPriority = "critical"
)

// Valid returns true if the priority is a known value.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Rank returns the scheduling rank for the priority. Lower ranks are
// dispatched first. Unknown priorities rank as medium.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// Task represents a single unit of work in a workflow.
type Task struct {
	// ID is the unique identifier for this task within its workflow.
	ID string `json:"id"`
	// Name is the short human-readable name of the task.
	Name string `json:"name"`
	// Description provides detailed information about the task.
	Description string `json:"description,omitempty"`
	// Objective states what the task should accomplish.
	Objective string `json:"objective,omitempty"`
	// Action is the symbolic key selecting the handler that performs
	// the work (e.g. "query_docs", "synthesize").
	Action string `json:"action"`
	// Parameters is the opaque key/value map passed to the handler.
	Parameters map[string]any `json:"parameters,omitempty"`
	// Priority determines dispatch order among ready tasks.
	Priority TaskPriority `json:"priority"`
	// Dependencies lists task IDs that must complete before this task
	// becomes eligible.
	Dependencies []string `json:"dependencies,omitempty"`
	// Status is the current lifecycle state of the task.
	Status TaskStatus `json:"status"`
	// EstimatedDurationSeconds is the planner's duration estimate.
	EstimatedDurationSeconds int `json:"estimated_duration_seconds"`
	// CreatedAt is when the task was created by the planner.
	CreatedAt time.Time `json:"created_at"`
	// StartedAt is when execution began, if it has.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when the task reached a terminal outcome, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// Result is the opaque result payload, set on success.
	Result map[string]any `json:"result,omitempty"`
	// Error contains the error message if the task failed.
	Error string `json:"error,omitempty"`
	// RetryCount is the number of times this task has been retried.
	RetryCount int `json:"retry_count,omitempty"`
}

// DependenciesMet reports whether every dependency of the task has
// completed, looked up in the given task map. Unknown dependency IDs
// count as unmet.
func (t *Task) DependenciesMet(tasks map[string]*Task) bool {
	for _, depID := range t.Dependencies {
		dep, ok := tasks[depID]
		if !ok || dep.Status != TaskStatusCompleted {
			return false
		}
	}
	return true
}
