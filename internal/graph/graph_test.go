package graph

import (
	"errors"
	"testing"

	"github.com/kestrelworks/taskweave/pkg/models"
)

func TestBuildUnknownDependency(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task_1"},
		{ID: "task_2", Dependencies: []string{"task_9"}},
	}

	if _, err := Build(tasks); err == nil {
		t.Error("expected error for unknown dependency, got nil")
	}
}

func TestBuildDuplicateID(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task_1"},
		{ID: "task_1"},
	}

	if _, err := Build(tasks); err == nil {
		t.Error("expected error for duplicate task ID, got nil")
	}
}

func TestValidateOrdersDependenciesFirst(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task_1"},
		{ID: "task_2", Dependencies: []string{"task_1"}},
		{ID: "task_3", Dependencies: []string{"task_2"}},
	}

	g, err := Build(tasks)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	order, err := g.Validate()
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 tasks in order, got %d", len(order))
	}

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, task := range tasks {
		for _, dep := range task.Dependencies {
			if pos[dep] > pos[task.ID] {
				t.Errorf("dependency %s ordered after dependent %s", dep, task.ID)
			}
		}
	}
}

func TestValidateDetectsCycle(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task_1", Dependencies: []string{"task_2"}},
		{ID: "task_2", Dependencies: []string{"task_1"}},
	}

	g, err := Build(tasks)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if _, err := g.Validate(); !errors.Is(err, ErrCycleDetected) {
		t.Errorf("Validate() error = %v, want ErrCycleDetected", err)
	}
}

func TestValidateIndependentTasks(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task_1"},
		{ID: "task_2"},
		{ID: "task_3"},
	}

	g, err := Build(tasks)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	order, err := g.Validate()
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(order) != g.Size() {
		t.Errorf("order lost tasks: got %d, want %d", len(order), g.Size())
	}
}
