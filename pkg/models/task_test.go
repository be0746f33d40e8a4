package models

import "testing"

func TestTaskStatusValid(t *testing.T) {
	tests := []struct {
		name     string
		status   TaskStatus
		expected bool
	}{
		{"pending", TaskStatusPending, true},
		{"ready", TaskStatusReady, true},
		{"in_progress", TaskStatusInProgress, true},
		{"completed", TaskStatusCompleted, true},
		{"failed", TaskStatusFailed, true},
		{"blocked", TaskStatusBlocked, true},
		{"empty", TaskStatus(""), false},
		{"unknown", TaskStatus("paused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.expected {
				t.Errorf("Valid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	tests := []struct {
		name     string
		status   TaskStatus
		expected bool
	}{
		{"pending is not terminal", TaskStatusPending, false},
		{"ready is not terminal", TaskStatusReady, false},
		{"in_progress is not terminal", TaskStatusInProgress, false},
		{"completed is terminal", TaskStatusCompleted, true},
		{"failed is terminal", TaskStatusFailed, true},
		{"blocked is terminal", TaskStatusBlocked, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Terminal(); got != tt.expected {
				t.Errorf("Terminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTaskPriorityRank(t *testing.T) {
	tests := []struct {
		name     string
		priority TaskPriority
		expected int
	}{
		{"critical ranks first", PriorityCritical, 0},
		{"high", PriorityHigh, 1},
		{"medium", PriorityMedium, 2},
		{"low ranks last", PriorityLow, 3},
		{"unknown ranks as medium", TaskPriority("urgent"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.priority.Rank(); got != tt.expected {
				t.Errorf("Rank() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestDependenciesMet(t *testing.T) {
	tasks := map[string]*Task{
		"task_1": {ID: "task_1", Status: TaskStatusCompleted},
		"task_2": {ID: "task_2", Status: TaskStatusPending},
	}

	tests := []struct {
		name     string
		deps     []string
		expected bool
	}{
		{"no dependencies", nil, true},
		{"completed dependency", []string{"task_1"}, true},
		{"pending dependency", []string{"task_2"}, false},
		{"mixed dependencies", []string{"task_1", "task_2"}, false},
		{"unknown dependency", []string{"task_9"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{ID: "task_3", Dependencies: tt.deps}
			if got := task.DependenciesMet(tasks); got != tt.expected {
				t.Errorf("DependenciesMet() = %v, want %v", got, tt.expected)
			}
		})
	}
}
