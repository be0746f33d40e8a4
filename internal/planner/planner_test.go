package planner

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kestrelworks/taskweave/pkg/models"
)

func planGoal(t *testing.T, goal string) (*Planner, *models.Workflow) {
	t.Helper()
	p := New(zap.NewNop())
	w, err := p.PlanWorkflow(goal, "test workflow", nil)
	if err != nil {
		t.Fatalf("PlanWorkflow(%q) error: %v", goal, err)
	}
	return p, w
}

func taskByAction(t *testing.T, w *models.Workflow, action string) *models.Task {
	t.Helper()
	for _, id := range w.TaskOrder {
		if w.Tasks[id].Action == action {
			return w.Tasks[id]
		}
	}
	t.Fatalf("no task with action %q", action)
	return nil
}

func TestPlanBriefingWorkflow(t *testing.T) {
	_, w := planGoal(t, "Create a daily briefing")

	if len(w.Tasks) != 4 {
		t.Fatalf("task count = %d, want 4", len(w.Tasks))
	}
	if w.Status != models.WorkflowStatusReady {
		t.Errorf("status = %q, want %q", w.Status, models.WorkflowStatusReady)
	}
	if w.EstimatedTotalDuration != 55 {
		t.Errorf("estimated duration = %d, want 55", w.EstimatedTotalDuration)
	}

	query := taskByAction(t, w, "query_docs")
	extract := taskByAction(t, w, "extract_key_points")
	synth := taskByAction(t, w, "synthesize")
	format := taskByAction(t, w, "format")

	if len(query.Dependencies) != 0 {
		t.Errorf("query_docs dependencies = %v, want none", query.Dependencies)
	}
	if got, want := extract.Dependencies, []string{query.ID}; !equalStrings(got, want) {
		t.Errorf("extract_key_points dependencies = %v, want %v", got, want)
	}
	if got, want := synth.Dependencies, []string{extract.ID}; !equalStrings(got, want) {
		t.Errorf("synthesize dependencies = %v, want %v", got, want)
	}
	if got, want := format.Dependencies, []string{query.ID}; !equalStrings(got, want) {
		t.Errorf("format dependencies = %v, want %v", got, want)
	}

	// Only the document retrieval task is unblocked at plan time.
	ready := w.ReadyTasks()
	if len(ready) != 1 || ready[0].ID != query.ID {
		t.Errorf("ready tasks = %v, want only %s", taskActions(ready), query.ID)
	}
}

func TestPlanDefaultWorkflow(t *testing.T) {
	for _, goal := range []string{"", "do the thing"} {
		_, w := planGoal(t, goal)

		if len(w.Tasks) != 3 {
			t.Fatalf("goal %q: task count = %d, want 3", goal, len(w.Tasks))
		}
		for _, action := range []string{"analyze", "execute", "validate"} {
			task := taskByAction(t, w, action)
			if len(task.Dependencies) != 0 {
				t.Errorf("goal %q: %s dependencies = %v, want none", goal, action, task.Dependencies)
			}
		}
		if ready := w.ReadyTasks(); len(ready) != 3 {
			t.Errorf("goal %q: ready tasks = %d, want 3", goal, len(ready))
		}
	}
}

func TestPlanGoalFamilies(t *testing.T) {
	tests := []struct {
		goal    string
		actions []string
	}{
		{"Analyze recent changes", []string{"query_docs", "analyze_patterns", "synthesize"}},
		{"find the design docs", []string{"query_docs", "rerank", "format"}},
		{"write an onboarding guide", []string{"plan", "synthesize", "review"}},
		{"sync the index", []string{"check_updates", "process_updates", "verify"}},
	}
	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			_, w := planGoal(t, tt.goal)
			if len(w.Tasks) != len(tt.actions) {
				t.Fatalf("task count = %d, want %d", len(w.Tasks), len(tt.actions))
			}
			for i, id := range w.TaskOrder {
				if w.Tasks[id].Action != tt.actions[i] {
					t.Errorf("task %d action = %q, want %q", i, w.Tasks[id].Action, tt.actions[i])
				}
			}
		})
	}
}

func TestPlanCombinedFamilies(t *testing.T) {
	// "analyze" and "report" each match a family; both templates land in
	// one workflow and cross-family dependencies resolve without cycles.
	_, w := planGoal(t, "Analyze the logs and produce a report")

	if len(w.Tasks) != 7 {
		t.Fatalf("task count = %d, want 7", len(w.Tasks))
	}

	// Every synthesize task depends on every pattern-analysis producer.
	analyze := taskByAction(t, w, "analyze_patterns")
	for _, id := range w.TaskOrder {
		task := w.Tasks[id]
		if task.Action != "synthesize" {
			continue
		}
		if !containsString(task.Dependencies, analyze.ID) {
			t.Errorf("synthesize task %s missing dependency on %s", task.ID, analyze.ID)
		}
	}
}

func TestWorkflowIDsAndTaskIDs(t *testing.T) {
	p := New(nil)

	w1, err := p.PlanWorkflow("first", "", nil)
	if err != nil {
		t.Fatalf("PlanWorkflow: %v", err)
	}
	w2, err := p.PlanWorkflow("second", "", nil)
	if err != nil {
		t.Fatalf("PlanWorkflow: %v", err)
	}

	if !strings.HasPrefix(w1.ID, "workflow_") || !strings.HasSuffix(w1.ID, "_1") {
		t.Errorf("first workflow ID = %q", w1.ID)
	}
	if !strings.HasSuffix(w2.ID, "_2") {
		t.Errorf("second workflow ID = %q", w2.ID)
	}
	if p.WorkflowCount() != 2 {
		t.Errorf("WorkflowCount = %d, want 2", p.WorkflowCount())
	}

	// Task IDs keep counting across workflows.
	if got := w2.TaskOrder[0]; got != "task_4" {
		t.Errorf("first task of second workflow = %q, want task_4", got)
	}
}

func TestUpdateTaskStatusLifecycle(t *testing.T) {
	p, w := planGoal(t, "whatever")
	taskID := w.TaskOrder[0]

	if !p.UpdateTaskStatus(w.ID, taskID, models.TaskStatusInProgress, nil, "") {
		t.Fatal("UpdateTaskStatus returned false for known task")
	}
	task := w.Tasks[taskID]
	if task.StartedAt == nil {
		t.Error("StartedAt not stamped on in_progress")
	}

	result := map[string]any{"output": "done"}
	p.UpdateTaskStatus(w.ID, taskID, models.TaskStatusCompleted, result, "")
	if task.CompletedAt == nil {
		t.Error("CompletedAt not stamped on completed")
	}
	if task.Result["output"] != "done" {
		t.Errorf("Result = %v, want output recorded", task.Result)
	}

	p.UpdateTaskStatus(w.ID, taskID, models.TaskStatusFailed, nil, "boom")
	if task.Error != "boom" {
		t.Errorf("Error = %q, want boom", task.Error)
	}

	// Retry reset clears the lifecycle fields.
	p.UpdateTaskStatus(w.ID, taskID, models.TaskStatusPending, nil, "")
	if task.StartedAt != nil || task.CompletedAt != nil || task.Result != nil || task.Error != "" {
		t.Errorf("lifecycle fields not cleared on reset: %+v", task)
	}
}

func TestUpdateTaskStatusUnknown(t *testing.T) {
	p, w := planGoal(t, "whatever")

	if p.UpdateTaskStatus("workflow_nope", w.TaskOrder[0], models.TaskStatusCompleted, nil, "") {
		t.Error("update of unknown workflow reported success")
	}
	if p.UpdateTaskStatus(w.ID, "task_nope", models.TaskStatusCompleted, nil, "") {
		t.Error("update of unknown task reported success")
	}
}

func TestProgressAndNextTasks(t *testing.T) {
	p, w := planGoal(t, "Create a daily briefing")

	if _, ok := p.NextTasks("workflow_nope"); ok {
		t.Error("NextTasks found unknown workflow")
	}
	if _, ok := p.Progress("workflow_nope"); ok {
		t.Error("Progress found unknown workflow")
	}

	query := taskByAction(t, w, "query_docs")
	p.UpdateTaskStatus(w.ID, query.ID, models.TaskStatusCompleted, map[string]any{"output": "ok"}, "")

	progress, ok := p.Progress(w.ID)
	if !ok {
		t.Fatal("Progress lost known workflow")
	}
	if progress.Completed != 1 || progress.Pending != 3 {
		t.Errorf("progress = %+v, want 1 completed, 3 pending", progress)
	}

	// Completing the retrieval task unblocks extraction and formatting.
	next, _ := p.NextTasks(w.ID)
	if len(next) != 2 {
		t.Fatalf("ready tasks after completion = %v, want 2", taskActions(next))
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func taskActions(tasks []*models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Action
	}
	return out
}
