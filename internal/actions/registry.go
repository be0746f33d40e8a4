// Package actions provides the pluggable handlers that perform the work
// named by a task's action field, and the registry that resolves them.
package actions

import (
	"context"

	"go.uber.org/zap"
)

// Handler performs the work for one action. Implementations must accept
// any parameter shape without failing (missing optional keys are treated
// as defaults) and return a result map containing at minimum an "output"
// string and an "action" field echoing the handler's name.
type Handler interface {
	// Name returns the action name this handler serves.
	Name() string
	// Handle performs the action with the given parameters.
	Handle(ctx context.Context, params map[string]any) (map[string]any, error)
}

// Registry resolves action names to handlers. Handlers are registered at
// construction time; unknown actions resolve to an explicit fallback.
type Registry struct {
	handlers map[string]Handler
	fallback Handler
	log      *zap.Logger
}

// NewRegistry creates a registry populated with the built-in handlers.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		handlers: make(map[string]Handler),
		fallback: fallbackHandler{},
		log:      log,
	}
	for _, h := range builtinHandlers() {
		r.Register(h)
	}
	return r
}

// Register adds a handler, replacing any existing handler for the same
// action name.
func (r *Registry) Register(h Handler) {
	r.handlers[h.Name()] = h
}

// Resolve returns the handler for the given action. When no handler is
// registered it returns the fallback and false; the miss is logged so a
// typo'd action name never fails silently.
func (r *Registry) Resolve(action string) (Handler, bool) {
	h, ok := r.handlers[action]
	if !ok {
		r.log.Warn("no handler registered for action, using fallback",
			zap.String("action", action))
		return r.fallback, false
	}
	return h, true
}

// Actions returns the registered action names.
func (r *Registry) Actions() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// fallbackHandler is the explicit default for unknown actions. It echoes
// the parameters so the miss stays observable in results.
type fallbackHandler struct{}

func (fallbackHandler) Name() string { return "unknown" }

func (fallbackHandler) Handle(ctx context.Context, params map[string]any) (map[string]any, error) {
	return map[string]any{
		"action":     "unknown",
		"output":     "Action executed",
		"parameters": params,
	}, nil
}

// stringParam returns the string value for key, or def when absent or of
// another type.
func stringParam(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// intParam returns the integer value for key, or def when absent or of
// another type. JSON-decoded parameters arrive as float64.
func intParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

// boolParam returns the boolean value for key, or def when absent or of
// another type.
func boolParam(params map[string]any, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}
