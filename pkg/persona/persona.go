package persona

import (
	"fmt"
	"os"
	"strings"

	"github.com/fkayakent/recipe-pipeline/pkg/prompt"
	"gopkg.in/yaml.v3"
)

// Persona is the assistant identity shown in the banner and the system
// instruction that seeds every transcript.
type Persona struct {
	Name         string
	Description  string
	Farewell     string
	Instructions string
	Path         string
}

// personaFrontMatter mirrors the YAML front matter of a persona file.
type personaFrontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Farewell    string `yaml:"farewell"`
}

// Default returns the built-in recipe assistant.
func Default() Persona {
	return Persona{
		Name:         "Recipe Assistant",
		Description:  "Ask me for recipes, meal plans, or nutritional advice!",
		Farewell:     "Happy cooking! Goodbye!",
		Instructions: prompt.SystemInstructions,
	}
}

// Load reads a persona file: YAML front matter followed by the instruction body.
// Front matter fields that are left empty fall back to the built-in persona.
func Load(path string) (Persona, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, err
	}

	fm, body, err := parseFrontMatter(content)
	if err != nil {
		return Persona{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if strings.TrimSpace(fm.Name) == "" {
		return Persona{}, fmt.Errorf("parse %s: missing front matter name", path)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return Persona{}, fmt.Errorf("parse %s: empty instructions", path)
	}

	p := Default()
	p.Name = strings.TrimSpace(fm.Name)
	p.Instructions = body
	p.Path = path
	if desc := strings.TrimSpace(fm.Description); desc != "" {
		p.Description = desc
	}
	if farewell := strings.TrimSpace(fm.Farewell); farewell != "" {
		p.Farewell = farewell
	}
	return p, nil
}

// parseFrontMatter splits the YAML front matter from the markdown body.
func parseFrontMatter(content []byte) (personaFrontMatter, string, error) {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	if len(lines) < 3 || strings.TrimSpace(lines[0]) != "---" {
		return personaFrontMatter{}, "", fmt.Errorf("missing YAML front matter")
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return personaFrontMatter{}, "", fmt.Errorf("unterminated YAML front matter")
	}

	fmText := strings.Join(lines[1:end], "\n")
	var fm personaFrontMatter
	if err := yaml.Unmarshal([]byte(fmText), &fm); err != nil {
		return personaFrontMatter{}, "", err
	}
	return fm, strings.Join(lines[end+1:], "\n"), nil
}
