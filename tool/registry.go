package tool

import (
	"sync"

	"github.com/hupe1980/agentsim/core"
	"github.com/hupe1980/agentsim/logging"
	"github.com/hupe1980/agentsim/model"
)

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	// Resolver maps free-text actions onto tool calls; defaults to
	// JSONResolver. Use NewLLMResolver for natural-language actions.
	Resolver IntentResolver
	// Logger receives dispatch logging; defaults to NoOpLogger.
	Logger logging.Logger
}

// Registry holds the immutable set of capabilities advertised to agents and
// dispatches resolved actions against them.
//
// Registration happens once at setup; after that the registry is read-mostly
// and safely shared across all agents' loops. Built-in tools are ordinary
// entries with no special status.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	tools    map[string]Tool
	resolver IntentResolver
	logger   logging.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		Resolver: JSONResolver{},
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Resolver == nil {
		opts.Resolver = JSONResolver{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Registry{
		tools:    make(map[string]Tool),
		resolver: opts.Resolver,
		logger:   opts.Logger,
	}
}

// Register adds a tool. Registration is idempotent by name: registering an
// existing name replaces the previous entry and keeps its position in the
// advertised ordering.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SchemaFor returns the ordered tool definitions for the given names, or for
// every registered tool when names is empty. Unknown names are silently
// omitted.
func (r *Registry) SchemaFor(names ...string) []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := names
	if len(selected) == 0 {
		selected = r.order
	}

	defs := make([]model.ToolDefinition, 0, len(selected))
	for _, name := range selected {
		t, ok := r.tools[name]
		if !ok {
			continue
		}
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// Dispatch resolves actionText into a concrete tool invocation, constrained
// to names when given, and executes it.
//
// Error surface: resolution failures pass through from the resolver
// (*core.GenerationError or *core.PlanParseError); a resolved name outside
// the filtered set yields *core.UnknownToolError; argument binding failures
// yield *core.ArgumentError from the tool itself.
func (r *Registry) Dispatch(toolCtx *Context, actionText string, names ...string) (string, error) {
	defs := r.SchemaFor(names...)

	call, err := r.resolver.Resolve(toolCtx.Context, actionText, defs)
	if err != nil {
		return "", err
	}

	allowed := make([]string, 0, len(defs))
	for _, d := range defs {
		allowed = append(allowed, d.Function.Name)
	}

	t, ok := r.lookupAllowed(call.Tool, allowed)
	if !ok {
		r.logger.Warn("tool.dispatch.unknown", "tool", call.Tool)
		return "", &core.UnknownToolError{Tool: call.Tool, Available: allowed}
	}

	result, err := t.Call(toolCtx, call.Arguments)
	if err != nil {
		return "", err
	}

	r.logger.Debug("tool.dispatch.done", "tool", call.Tool, "agent", toolCtx.Agent.ID())
	return result, nil
}

func (r *Registry) lookupAllowed(name string, allowed []string) (Tool, bool) {
	for _, a := range allowed {
		if a != name {
			continue
		}
		return r.Get(name)
	}
	return nil, false
}
