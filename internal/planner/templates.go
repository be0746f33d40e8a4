package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/kestrelworks/taskweave/pkg/models"
)

// keywordFamily maps goal vocabulary to a task template. Families are
// checked in order and are additive: a goal mentioning both "analyze"
// and "report" gets the analysis and briefing templates.
type keywordFamily struct {
	keywords []string
	template func(p *Planner) []*models.Task
}

var keywordFamilies = []keywordFamily{
	{[]string{"briefing", "summary", "report"}, briefingTasks},
	{[]string{"analyze", "analysis", "examine"}, analysisTasks},
	{[]string{"search", "find", "retrieve", "query"}, retrievalTasks},
	// "create" is deliberately absent here: goals like "create a
	// briefing" belong to the family of the thing being created.
	{[]string{"generate", "write"}, generationTasks},
	{[]string{"update", "refresh", "sync"}, updateTasks},
}

func (f keywordFamily) matches(goalLower string) bool {
	for _, kw := range f.keywords {
		if strings.Contains(goalLower, kw) {
			return true
		}
	}
	return false
}

// newTask builds a task in its initial state. Caller holds p.mu.
func (p *Planner) newTask(name, description, action string, params map[string]any, priority models.TaskPriority, durationSeconds int) *models.Task {
	return &models.Task{
		ID:                       p.nextTaskID(),
		Name:                     name,
		Description:              description,
		Action:                   action,
		Parameters:               params,
		Priority:                 priority,
		Status:                   models.TaskStatusPending,
		EstimatedDurationSeconds: durationSeconds,
		CreatedAt:                time.Now(),
	}
}

func briefingTasks(p *Planner) []*models.Task {
	return []*models.Task{
		p.newTask("Retrieve Documents", "Fetch relevant documents and chunks", "query_docs",
			map[string]any{"query_type": "broad", "limit": 20}, models.PriorityHigh, 10),
		p.newTask("Extract Key Points", "Identify and extract key information", "extract_key_points",
			map[string]any{"method": "semantic", "max_points": 10}, models.PriorityHigh, 15),
		p.newTask("Synthesize Summary", "Generate comprehensive summary", "synthesize",
			map[string]any{"style": "professional", "length": "medium"}, models.PriorityHigh, 20),
		p.newTask("Format Output", "Structure briefing for presentation", "format",
			map[string]any{"format": "markdown"}, models.PriorityMedium, 10),
	}
}

func analysisTasks(p *Planner) []*models.Task {
	return []*models.Task{
		p.newTask("Gather Data", "Collect relevant information", "query_docs",
			map[string]any{"query_type": "specific", "limit": 30}, models.PriorityHigh, 15),
		p.newTask("Identify Patterns", "Find patterns and relationships", "analyze_patterns",
			map[string]any{"method": "graph_analysis"}, models.PriorityHigh, 25),
		p.newTask("Generate Insights", "Create analytical summary", "synthesize",
			map[string]any{"style": "analytical", "include_recommendations": true}, models.PriorityMedium, 20),
	}
}

func retrievalTasks(p *Planner) []*models.Task {
	return []*models.Task{
		p.newTask("Search Documents", "Query document collection", "query_docs",
			map[string]any{"enable_rerank": true, "limit": 10}, models.PriorityHigh, 10),
		p.newTask("Rank Results", "Rank by relevance", "rerank",
			map[string]any{"method": "cross_encoder"}, models.PriorityMedium, 5),
		p.newTask("Format Results", "Prepare results for output", "format",
			map[string]any{"format": "json"}, models.PriorityLow, 5),
	}
}

func generationTasks(p *Planner) []*models.Task {
	return []*models.Task{
		p.newTask("Plan Content", "Outline content structure", "plan",
			map[string]any{"elements": []string{"intro", "body", "conclusion"}}, models.PriorityHigh, 10),
		p.newTask("Generate Content", "Draft content from the plan", "synthesize",
			map[string]any{"style": "professional", "include_examples": true}, models.PriorityHigh, 20),
		p.newTask("Review Content", "QA and refinement", "review",
			map[string]any{"check_quality": true}, models.PriorityMedium, 15),
	}
}

func updateTasks(p *Planner) []*models.Task {
	return []*models.Task{
		p.newTask("Check Updates", "Scan for new information", "check_updates",
			map[string]any{"check_type": "new_documents"}, models.PriorityHigh, 10),
		p.newTask("Process Updates", "Incorporate new information", "process_updates",
			map[string]any{"merge_strategy": "append"}, models.PriorityHigh, 20),
		p.newTask("Verify Changes", "Validate update integrity", "verify",
			map[string]any{"verify_type": "consistency"}, models.PriorityMedium, 10),
	}
}

// defaultTasks is the fallback plan for goals matching no family,
// including the empty goal. All three tasks are independent.
func defaultTasks(p *Planner, goal string) []*models.Task {
	return []*models.Task{
		p.newTask("Analyze Goal", fmt.Sprintf("Break down: %s", goal), "analyze",
			map[string]any{"goal": goal}, models.PriorityHigh, 5),
		p.newTask("Execute", "Perform main action", "execute",
			map[string]any{"goal": goal}, models.PriorityHigh, 30),
		p.newTask("Validate Results", "Check execution success", "validate",
			map[string]any{"goal": goal}, models.PriorityMedium, 10),
	}
}
