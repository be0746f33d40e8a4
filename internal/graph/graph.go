// Package graph provides a dependency graph over workflow tasks, used to
// validate that planned dependencies are well-formed and acyclic.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gammazero/toposort"

	"github.com/kestrelworks/taskweave/pkg/models"
)

// ErrCycleDetected indicates a circular dependency was found in the task graph.
var ErrCycleDetected = errors.New("circular dependency detected")

// DependencyGraph represents a directed acyclic graph of task dependencies.
// Tasks are nodes, and edges represent "blocked by" relationships.
type DependencyGraph struct {
	// nodes maps task ID to the task itself.
	nodes map[string]*models.Task
	// edges maps task ID to IDs of tasks it depends on (is blocked by).
	edges map[string][]string
	// order preserves task insertion order so validation output is stable.
	order []string
}

// Build constructs a dependency graph from a slice of tasks.
// Returns an error if a dependency references an unknown task.
func Build(tasks []*models.Task) (*DependencyGraph, error) {
	g := &DependencyGraph{
		nodes: make(map[string]*models.Task, len(tasks)),
		edges: make(map[string][]string, len(tasks)),
	}

	for _, task := range tasks {
		if _, exists := g.nodes[task.ID]; exists {
			return nil, fmt.Errorf("duplicate task ID %q", task.ID)
		}
		g.nodes[task.ID] = task
		g.order = append(g.order, task.ID)
	}

	for _, task := range tasks {
		for _, depID := range task.Dependencies {
			if _, exists := g.nodes[depID]; !exists {
				return nil, fmt.Errorf("task %s depends on unknown task %s", task.ID, depID)
			}
			g.edges[task.ID] = append(g.edges[task.ID], depID)
		}
	}

	return g, nil
}

// Size returns the number of tasks in the graph.
func (g *DependencyGraph) Size() int {
	return len(g.nodes)
}

// Validate runs a topological sort over the graph and returns task IDs in
// dependency order (dependencies before dependents). Returns
// ErrCycleDetected if the graph contains a cycle.
func (g *DependencyGraph) Validate() ([]string, error) {
	var edges []toposort.Edge
	for _, taskID := range g.order {
		deps := g.edges[taskID]
		if len(deps) == 0 {
			// Tasks with no dependencies still need an edge so the
			// sort includes them.
			edges = append(edges, toposort.Edge{nil, taskID})
			continue
		}
		for _, depID := range deps {
			edges = append(edges, toposort.Edge{depID, taskID})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycleDetected, err)
	}

	order := make([]string, 0, len(g.nodes))
	for _, id := range sorted {
		if id != nil {
			order = append(order, id.(string))
		}
	}

	// A sort that drops nodes means the edge set was inconsistent.
	if len(order) != len(g.nodes) {
		found := make(map[string]bool, len(order))
		for _, id := range order {
			found[id] = true
		}
		var missing []string
		for _, id := range g.order {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("topological sort lost %d tasks: %s",
			len(missing), strings.Join(missing, ", "))
	}

	return order, nil
}
