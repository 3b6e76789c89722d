package tools

import (
	"errors"
	"fmt"
	"sort"

	loggerpkg "github.com/fkayakent/recipe-pipeline/pkg/logger"
	"github.com/fkayakent/recipe-pipeline/pkg/prompt"
)

// ErrUnknownTool is returned by Execute when no builder is registered under the name.
var ErrUnknownTool = errors.New("unknown tool")

type tool interface {
	name() string
	description() string
	parameters() []string
	build(params map[string]string) string
}

type Context struct {
	Verbose bool
	Logger  loggerpkg.Logger
}

func (c Context) debugf(format string, args ...any) {
	loggerpkg.Debugf(c.Verbose, c.Logger, format, args...)
}

// Registry holds registered prompt-builder tools and handles execution.
type Registry struct {
	registry map[string]tool
	order    []string
	ctx      Context
}

// Definition describes a registered tool for prompts and help output.
type Definition struct {
	Name        string
	Description string
	Parameters  []string
}

// New builds a registry with the built-in recipe tools.
func New(ctx Context) *Registry {
	if ctx.Logger == nil {
		ctx.Logger = loggerpkg.NopLogger{}
	}
	r := &Registry{
		registry: make(map[string]tool),
		ctx:      ctx,
	}

	r.register(&builderTool{
		toolName: prompt.ToolGenerateRecipe,
		desc:     "Create a detailed recipe based on ingredients, dietary preferences, and meal type",
		keys:     []string{"ingredients", "meal_type", "dietary_prefs", "cooking_time"},
		fn:       prompt.Recipe,
	})
	r.register(&builderTool{
		toolName: prompt.ToolSuggestMealPlan,
		desc:     "Suggest a meal plan for a day or week",
		keys:     []string{"duration", "dietary_prefs", "goals"},
		fn:       prompt.MealPlan,
	})
	r.register(&builderTool{
		toolName: prompt.ToolCalculateNutrition,
		desc:     "Provide nutritional information for a recipe",
		keys:     []string{"recipe"},
		fn:       prompt.Nutrition,
	})
	return r
}

func (r *Registry) register(toolImpl tool) {
	if _, exists := r.registry[toolImpl.name()]; !exists {
		r.order = append(r.order, toolImpl.name())
	}
	r.registry[toolImpl.name()] = toolImpl
	r.ctx.debugf("registered tool: %s", toolImpl.name())
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Has reports whether name is a registered tool.
func (r *Registry) Has(name string) bool {
	_, ok := r.registry[name]
	return ok
}

// Definitions returns the registered tools in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		t := r.registry[name]
		params := append([]string{}, t.parameters()...)
		sort.Strings(params)
		defs = append(defs, Definition{
			Name:        t.name(),
			Description: t.description(),
			Parameters:  params,
		})
	}
	return defs
}

// Execute runs the named builder with input. Unknown names yield ErrUnknownTool.
func (r *Registry) Execute(name string, input map[string]string) (string, error) {
	toolImpl, ok := r.registry[name]
	if !ok {
		r.ctx.debugf("tool lookup failed: %q", name)
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if input == nil {
		input = map[string]string{}
	}
	output := toolImpl.build(input)
	r.ctx.debugf("tool %s: params=%d output_bytes=%d", name, len(input), len(output))
	return output, nil
}

// builderTool adapts a prompt.Builder to the tool interface.
type builderTool struct {
	toolName string
	desc     string
	keys     []string
	fn       prompt.Builder
}

func (t *builderTool) name() string                          { return t.toolName }
func (t *builderTool) description() string                   { return t.desc }
func (t *builderTool) parameters() []string                  { return t.keys }
func (t *builderTool) build(params map[string]string) string { return t.fn(params) }
