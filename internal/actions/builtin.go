package actions

import (
	"context"
	"fmt"
)

// builtinHandlers returns one handler per built-in action. These are
// deterministic stand-ins for the real retrieval and synthesis pipeline;
// each honors the Handler contract so downstream review and
// summarization always have an output to work with.
func builtinHandlers() []Handler {
	return []Handler{
		queryDocsHandler{},
		extractKeyPointsHandler{},
		synthesizeHandler{},
		analyzePatternsHandler{},
		formatHandler{},
		rerankHandler{},
		planHandler{},
		reviewHandler{},
		analyzeHandler{},
		executeHandler{},
		validateHandler{},
		checkUpdatesHandler{},
		processUpdatesHandler{},
		verifyHandler{},
	}
}

type queryDocsHandler struct{}

func (queryDocsHandler) Name() string { return "query_docs" }

func (queryDocsHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	limit := intParam(params, "limit", 10)
	return map[string]any{
		"action":          "query_docs",
		"output":          fmt.Sprintf("Queried %d documents", limit),
		"documents_found": limit,
	}, nil
}

type extractKeyPointsHandler struct{}

func (extractKeyPointsHandler) Name() string { return "extract_key_points" }

func (extractKeyPointsHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action":       "extract_key_points",
		"output":       "Extracted key points from content",
		"points_count": intParam(params, "max_points", 10),
	}, nil
}

type synthesizeHandler struct{}

func (synthesizeHandler) Name() string { return "synthesize" }

func (synthesizeHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action": "synthesize",
		"output": "Generated synthesis from context",
		"style":  stringParam(params, "style", "professional"),
	}, nil
}

type analyzePatternsHandler struct{}

func (analyzePatternsHandler) Name() string { return "analyze_patterns" }

func (analyzePatternsHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action": "analyze_patterns",
		"output": "Analyzed patterns in content",
		"method": stringParam(params, "method", "default"),
	}, nil
}

type formatHandler struct{}

func (formatHandler) Name() string { return "format" }

func (formatHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action": "format",
		"output": "Formatted content",
		"format": stringParam(params, "format", "text"),
	}, nil
}

type rerankHandler struct{}

func (rerankHandler) Name() string { return "rerank" }

func (rerankHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action": "rerank",
		"output": "Reranked results",
		"method": stringParam(params, "method", "default"),
	}, nil
}

type planHandler struct{}

func (planHandler) Name() string { return "plan" }

func (planHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	elements, _ := params["elements"].([]any)
	return map[string]any{
		"action":   "plan",
		"output":   "Created plan",
		"elements": elements,
	}, nil
}

type reviewHandler struct{}

func (reviewHandler) Name() string { return "review" }

func (reviewHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action":        "review",
		"output":        "Completed review",
		"check_quality": boolParam(params, "check_quality", false),
	}, nil
}

type analyzeHandler struct{}

func (analyzeHandler) Name() string { return "analyze" }

func (analyzeHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action": "analyze",
		"output": "Analysis complete",
		"goal":   stringParam(params, "goal", ""),
	}, nil
}

type executeHandler struct{}

func (executeHandler) Name() string { return "execute" }

func (executeHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action": "execute",
		"output": "Execution complete",
		"goal":   stringParam(params, "goal", ""),
	}, nil
}

type validateHandler struct{}

func (validateHandler) Name() string { return "validate" }

func (validateHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action":  "validate",
		"output":  "Validation complete",
		"goal":    stringParam(params, "goal", ""),
		"success": true,
	}, nil
}

type checkUpdatesHandler struct{}

func (checkUpdatesHandler) Name() string { return "check_updates" }

func (checkUpdatesHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action":        "check_updates",
		"output":        "Checked for updates",
		"check_type":    stringParam(params, "check_type", "default"),
		"updates_found": 0,
	}, nil
}

type processUpdatesHandler struct{}

func (processUpdatesHandler) Name() string { return "process_updates" }

func (processUpdatesHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action":         "process_updates",
		"output":         "Processed updates",
		"merge_strategy": stringParam(params, "merge_strategy", "default"),
	}, nil
}

type verifyHandler struct{}

func (verifyHandler) Name() string { return "verify" }

func (verifyHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action":      "verify",
		"output":      "Verification complete",
		"verify_type": stringParam(params, "verify_type", "default"),
		"success":     true,
	}, nil
}
