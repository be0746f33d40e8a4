package actions

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestBuiltinHandlerContract(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	actions := []string{
		"query_docs", "extract_key_points", "synthesize", "analyze_patterns",
		"format", "rerank", "plan", "review", "analyze", "execute",
		"validate", "check_updates", "process_updates", "verify",
	}

	for _, action := range actions {
		t.Run(action, func(t *testing.T) {
			h, ok := r.Resolve(action)
			if !ok {
				t.Fatalf("no handler registered for %s", action)
			}
			if h.Name() != action {
				t.Errorf("Name() = %s, want %s", h.Name(), action)
			}

			// Empty parameters must never fail a handler.
			result, err := h.Handle(context.Background(), map[string]any{})
			if err != nil {
				t.Fatalf("Handle() error: %v", err)
			}
			if result["action"] != action {
				t.Errorf("result action = %v, want %s", result["action"], action)
			}
			output, ok := result["output"].(string)
			if !ok || output == "" {
				t.Errorf("result output = %v, want non-empty string", result["output"])
			}

			// Nil parameters too.
			if _, err := h.Handle(context.Background(), nil); err != nil {
				t.Errorf("Handle(nil) error: %v", err)
			}
		})
	}
}

func TestResolveUnknownActionFallsBack(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	h, ok := r.Resolve("nonexistent_action")
	if ok {
		t.Error("Resolve() reported a registered handler for unknown action")
	}

	result, err := h.Handle(context.Background(), map[string]any{"key": "value"})
	if err != nil {
		t.Fatalf("fallback Handle() error: %v", err)
	}
	if result["action"] != "unknown" {
		t.Errorf("fallback action = %v, want unknown", result["action"])
	}
	params, ok := result["parameters"].(map[string]any)
	if !ok || params["key"] != "value" {
		t.Errorf("fallback did not echo parameters: %v", result["parameters"])
	}
}

func TestRegisterReplacesHandler(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Register(failingHandler{name: "query_docs"})

	h, ok := r.Resolve("query_docs")
	if !ok {
		t.Fatal("expected replacement handler to be registered")
	}
	if _, err := h.Handle(context.Background(), nil); err == nil {
		t.Error("expected replacement handler to fail")
	}
}

func TestQueryDocsUsesLimitParam(t *testing.T) {
	h, _ := NewRegistry(zap.NewNop()).Resolve("query_docs")

	tests := []struct {
		name     string
		params   map[string]any
		expected int
	}{
		{"default limit", map[string]any{}, 10},
		{"int limit", map[string]any{"limit": 25}, 25},
		{"json float limit", map[string]any{"limit": float64(7)}, 7},
		{"wrong type falls back", map[string]any{"limit": "many"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.Handle(context.Background(), tt.params)
			if err != nil {
				t.Fatalf("Handle() error: %v", err)
			}
			if got := result["documents_found"]; got != tt.expected {
				t.Errorf("documents_found = %v, want %d", got, tt.expected)
			}
		})
	}
}

// failingHandler is a test double whose Handle always errors.
type failingHandler struct {
	name string
}

func (f failingHandler) Name() string { return f.name }

func (f failingHandler) Handle(context.Context, map[string]any) (map[string]any, error) {
	return nil, errors.New("handler exploded")
}
