// Tests for tool-request detection.
package toolcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCandidate(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "I love tools but no braces here", want: false},
		{text: `{"name": "x"}`, want: false},
		{text: `{"tool": "generate_recipe", "input": {}}`, want: true},
		{text: "Use this tool { carefully", want: true},
		{text: "TOOL {", want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCandidate(tt.text), tt.text)
	}
}

func TestLegacyDetect(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
		want   Request
	}{
		{
			name:   "plain reply",
			text:   "I love tools but no braces here",
			wantOK: false,
		},
		{
			name:   "recipe with defaults",
			text:   `{"tool": "generate_recipe", "input": {}}`,
			wantOK: true,
			want:   Request{Name: "generate_recipe", Input: map[string]string{}},
		},
		{
			name:   "embedded in prose",
			text:   "Sure! Let me use a tool: {\"tool\": \"suggest_meal_plan\", \"input\": {\"duration\": \"1 week\"}} Thanks.",
			wantOK: true,
			want:   Request{Name: "suggest_meal_plan", Input: map[string]string{"duration": "1 week"}},
		},
		{
			name:   "unknown tool is still a request",
			text:   `{"tool": "bogus", "input": {}}`,
			wantOK: true,
			want:   Request{Name: "bogus", Input: map[string]string{}},
		},
		{
			name:   "missing input",
			text:   `{"tool": "calculate_nutrition"}`,
			wantOK: true,
			want:   Request{Name: "calculate_nutrition", Input: map[string]string{}},
		},
		{
			name:   "non-string name",
			text:   `{"tool": 7}`,
			wantOK: true,
			want:   Request{Name: "", Input: map[string]string{}},
		},
		{
			name:   "scalar values are coerced",
			text:   `{"tool": "generate_recipe", "input": {"cooking_time": 20, "vegan": true, "notes": null, "extra": {"a": 1}}}`,
			wantOK: true,
			want: Request{Name: "generate_recipe", Input: map[string]string{
				"cooking_time": "20",
				"vegan":        "true",
				"notes":        "",
				"extra":        `{"a":1}`,
			}},
		},
		{
			name:   "malformed slice",
			text:   `{tool: unquoted}`,
			wantOK: false,
		},
		{
			name:   "closing brace before opening",
			text:   "} the tool {",
			wantOK: false,
		},
		{
			name:   "no closing brace",
			text:   `the tool is {"tool": "x"`,
			wantOK: false,
		},
		{
			name:   "input not an object",
			text:   `{"tool": "generate_recipe", "input": "eggs"}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Legacy{}.Detect(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStrictDetect(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
		want   Request
	}{
		{
			name:   "exact object",
			text:   `{"tool": "generate_recipe", "input": {"ingredients": "tofu"}}`,
			wantOK: true,
			want:   Request{Name: "generate_recipe", Input: map[string]string{"ingredients": "tofu"}},
		},
		{
			name:   "surrounding whitespace",
			text:   "\n  {\"tool\": \"calculate_nutrition\"}  \n",
			wantOK: true,
			want:   Request{Name: "calculate_nutrition", Input: map[string]string{}},
		},
		{
			name:   "json fence",
			text:   "```json\n{\"tool\": \"suggest_meal_plan\", \"input\": {\"goals\": \"energy\"}}\n```",
			wantOK: true,
			want:   Request{Name: "suggest_meal_plan", Input: map[string]string{"goals": "energy"}},
		},
		{
			name:   "unknown name is still a request",
			text:   `{"tool": "bogus", "input": {}}`,
			wantOK: true,
			want:   Request{Name: "bogus", Input: map[string]string{}},
		},
		{
			name:   "prose around object",
			text:   `Sure: {"tool": "generate_recipe", "input": {}}`,
			wantOK: false,
		},
		{
			name:   "prose mentioning tool and brace",
			text:   "A good kitchen tool is a whisk { trust me }",
			wantOK: false,
		},
		{
			name:   "extra key",
			text:   `{"tool": "generate_recipe", "input": {}, "reason": "x"}`,
			wantOK: false,
		},
		{
			name:   "missing tool",
			text:   `{"input": {}}`,
			wantOK: false,
		},
		{
			name:   "empty tool",
			text:   `{"tool": "  "}`,
			wantOK: false,
		},
		{
			name:   "non-string tool",
			text:   `{"tool": 3}`,
			wantOK: false,
		},
		{
			name:   "nested input value",
			text:   `{"tool": "generate_recipe", "input": {"ingredients": ["eggs"]}}`,
			wantOK: false,
		},
		{
			name:   "two objects",
			text:   `{"tool": "a"} {"tool": "b"}`,
			wantOK: false,
		},
		{
			name:   "other fence language",
			text:   "```go\n{\"tool\": \"generate_recipe\"}\n```",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Strict{}.Detect(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestForMode(t *testing.T) {
	d, err := ForMode(ModeLegacy, nil)
	require.NoError(t, err)
	assert.IsType(t, Legacy{}, d)

	d, err = ForMode("", nil)
	require.NoError(t, err)
	assert.IsType(t, Strict{}, d)

	_, err = ForMode("fuzzy", nil)
	assert.Error(t, err)
}

func TestLegacyDetectUnknownNameSkipsInput(t *testing.T) {
	known := func(name string) bool { return name == "generate_recipe" }
	d := Legacy{Known: known}

	tests := []struct {
		name   string
		text   string
		want   Request
		wantOK bool
	}{
		{
			name:   "unknown name with list input",
			text:   `{"tool": "bogus", "input": [1]}`,
			want:   Request{Name: "bogus", Input: map[string]string{}},
			wantOK: true,
		},
		{
			name:   "missing name with string input",
			text:   `{"tool_call": true, "input": "soup"}`,
			want:   Request{Name: "", Input: map[string]string{}},
			wantOK: true,
		},
		{
			name:   "known name with list input",
			text:   `{"tool": "generate_recipe", "input": [1]}`,
			wantOK: false,
		},
		{
			name:   "known name with object input",
			text:   `{"tool": "generate_recipe", "input": {"servings": 2}}`,
			want:   Request{Name: "generate_recipe", Input: map[string]string{"servings": "2"}},
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Detect(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
