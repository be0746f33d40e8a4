package planner

import "github.com/kestrelworks/taskweave/pkg/models"

// actionConsumers maps a producer action to the actions that consume its
// output. Resolution runs over the whole task list, so when several
// templates are combined a consumer depends on every matching producer
// across families, not just its own.
var actionConsumers = map[string][]string{
	"query_docs":         {"rerank", "format", "extract_key_points"},
	"extract_key_points": {"synthesize"},
	"analyze_patterns":   {"synthesize"},
	"plan":               {"synthesize"},
	"generate_content":   {"review"},
	"check_updates":      {"process_updates"},
	"process_updates":    {"verify"},
}

// resolveDependencies wires task dependencies from the action consumer
// table. Idempotent: a dependency already present is not duplicated.
func resolveDependencies(tasks []*models.Task) {
	// Index tasks by action so each producer scans only its consumers.
	byAction := make(map[string][]*models.Task, len(tasks))
	for _, t := range tasks {
		byAction[t.Action] = append(byAction[t.Action], t)
	}

	for _, producer := range tasks {
		consumers, ok := actionConsumers[producer.Action]
		if !ok {
			continue
		}
		for _, action := range consumers {
			for _, consumer := range byAction[action] {
				if consumer.ID == producer.ID {
					continue
				}
				if !containsString(consumer.Dependencies, producer.ID) {
					consumer.Dependencies = append(consumer.Dependencies, producer.ID)
				}
			}
		}
	}
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
