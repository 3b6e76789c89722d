package prompt

import (
	"fmt"
	"strings"
)

// Tool names understood by the assistant.
const (
	ToolGenerateRecipe     = "generate_recipe"
	ToolSuggestMealPlan    = "suggest_meal_plan"
	ToolCalculateNutrition = "calculate_nutrition"
)

// SystemInstructions is the built-in instruction that opens every transcript.
const SystemInstructions = `You are a helpful recipe assistant specialized in creating healthy, delicious recipes for women.

You have access to the following tools:
1. generate_recipe: Create a detailed recipe based on ingredients, dietary preferences, and meal type
2. suggest_meal_plan: Suggest a meal plan for a day or week
3. calculate_nutrition: Provide nutritional information for a recipe

When the user asks for a recipe or meal suggestion, you should:
1. First, use the appropriate tool to gather information
2. Then provide a detailed, helpful response

To use a tool, respond with JSON format:
{"tool": "tool_name", "input": {"key": "value"}}

Your responses should include:
- Ingredient list
- Step-by-step instructions
- Cooking time
- Servings
- Nutritional benefits (especially important for women's health)
- Tips and variations

Always be encouraging and supportive. Focus on healthy, balanced meals.`

// Builder turns tool parameters into an instruction for the model.
type Builder func(params map[string]string) string

// Recipe builds the instruction for a detailed recipe.
func Recipe(params map[string]string) string {
	var sb strings.Builder
	sb.WriteString("Create a detailed recipe with these specifications:\n")
	sb.WriteString(fmt.Sprintf("- Available ingredients: %s\n", lookup(params, "ingredients", "common ingredients")))
	sb.WriteString(fmt.Sprintf("- Meal type: %s\n", lookup(params, "meal_type", "any meal")))
	sb.WriteString(fmt.Sprintf("- Dietary preferences: %s\n", lookup(params, "dietary_prefs", "no restrictions")))
	sb.WriteString(fmt.Sprintf("- Cooking time: %s\n", lookup(params, "cooking_time", "30 minutes")))
	sb.WriteString("\nInclude:\n")
	sb.WriteString("1. Recipe name\n")
	sb.WriteString("2. Ingredients list with measurements\n")
	sb.WriteString("3. Step-by-step instructions\n")
	sb.WriteString("4. Cooking time and servings\n")
	sb.WriteString("5. Nutritional benefits for women's health\n")
	sb.WriteString("6. Tips and variations")
	return sb.String()
}

// MealPlan builds the instruction for a meal plan.
func MealPlan(params map[string]string) string {
	var sb strings.Builder
	sb.WriteString("Create a meal plan with these specifications:\n")
	sb.WriteString(fmt.Sprintf("- Duration: %s\n", lookup(params, "duration", "1 day")))
	sb.WriteString(fmt.Sprintf("- Dietary preferences: %s\n", lookup(params, "dietary_prefs", "balanced")))
	sb.WriteString(fmt.Sprintf("- Health goals: %s\n", lookup(params, "goals", "general health")))
	sb.WriteString("\nInclude breakfast, lunch, dinner, and snacks.\n")
	sb.WriteString("Focus on women's nutritional needs (iron, calcium, folate, etc.)")
	return sb.String()
}

// Nutrition builds the instruction for a nutritional breakdown of a recipe.
func Nutrition(params map[string]string) string {
	var sb strings.Builder
	sb.WriteString("Provide nutritional information for this recipe:\n")
	sb.WriteString(lookup(params, "recipe", ""))
	sb.WriteString("\n\nInclude:\n")
	sb.WriteString("- Calories per serving\n")
	sb.WriteString("- Protein, carbs, fats\n")
	sb.WriteString("- Key vitamins and minerals\n")
	sb.WriteString("- Benefits for women's health")
	return sb.String()
}

// lookup returns params[key], or def when the key is absent.
// A present but empty value is kept as is.
func lookup(params map[string]string, key, def string) string {
	if value, ok := params[key]; ok {
		return value
	}
	return def
}
