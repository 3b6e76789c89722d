package toolcall

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Request is a tool invocation parsed from a model reply.
type Request struct {
	Name  string
	Input map[string]string
}

// Mode selects how replies are classified as tool requests.
type Mode string

const (
	// ModeStrict accepts only a reply that is exactly one well-formed request object.
	ModeStrict Mode = "strict"
	// ModeLegacy reproduces the permissive substring heuristic.
	ModeLegacy Mode = "legacy"
)

// Detector decides whether a model reply is a tool request.
type Detector interface {
	// Detect returns the parsed request and true, or false when the reply
	// must be surfaced to the user as plain text.
	Detect(text string) (Request, bool)
}

// ForMode returns the detector for mode. known reports registered tool
// names; it may be nil.
func ForMode(mode Mode, known func(name string) bool) (Detector, error) {
	switch mode {
	case ModeStrict, "":
		return Strict{}, nil
	case ModeLegacy:
		return Legacy{Known: known}, nil
	default:
		return nil, fmt.Errorf("unknown tool mode: %q", mode)
	}
}

// IsCandidate reports whether text contains both "tool" and "{".
func IsCandidate(text string) bool {
	return strings.Contains(text, "tool") && strings.Contains(text, "{")
}

// Legacy slices from the first "{" to the last "}" of a candidate reply and
// parses that slice as a JSON object.
type Legacy struct {
	// Known reports registered tool names. A request for an unknown name is
	// returned without looking at its input, so it is answered as an invalid
	// tool name. When nil, every name is treated as known.
	Known func(name string) bool
}

func (l Legacy) Detect(text string) (Request, bool) {
	if !IsCandidate(text) {
		return Request{}, false
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if end < start {
		return Request{}, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil || obj == nil {
		return Request{}, false
	}

	// A missing or non-string name still counts as a request; it is
	// rejected later as an invalid tool name.
	var name string
	if raw, ok := obj["tool"]; ok {
		_ = json.Unmarshal(raw, &name)
	}
	if l.Known != nil && !l.Known(name) {
		return Request{Name: name, Input: map[string]string{}}, true
	}
	input, ok := decodeInput(obj["input"], true)
	if !ok {
		return Request{}, false
	}
	return Request{Name: name, Input: input}, true
}

// Strict accepts {"tool": "<name>", "input": {...}} and nothing else: no
// surrounding prose, no extra keys, a non-empty string name and scalar
// input values. One enclosing ```json fence is tolerated.
type Strict struct{}

func (Strict) Detect(text string) (Request, bool) {
	body := unfence(strings.TrimSpace(text))
	if !strings.HasPrefix(body, "{") || !strings.HasSuffix(body, "}") {
		return Request{}, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &obj); err != nil || obj == nil {
		return Request{}, false
	}
	for key := range obj {
		if key != "tool" && key != "input" {
			return Request{}, false
		}
	}

	rawName, ok := obj["tool"]
	if !ok || !isJSONString(rawName) {
		return Request{}, false
	}
	var name string
	if err := json.Unmarshal(rawName, &name); err != nil || strings.TrimSpace(name) == "" {
		return Request{}, false
	}

	input, ok := decodeInput(obj["input"], false)
	if !ok {
		return Request{}, false
	}
	return Request{Name: name, Input: input}, true
}

// decodeInput turns the raw "input" member into string parameters.
// Absent and null inputs are empty. allowNested keeps object and array
// values as compact JSON instead of rejecting them.
func decodeInput(raw json.RawMessage, allowNested bool) (map[string]string, bool) {
	input := map[string]string{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return input, true
	}
	if trimmed[0] != '{' {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	for key, value := range fields {
		value = bytes.TrimSpace(value)
		if !allowNested && len(value) > 0 && (value[0] == '{' || value[0] == '[') {
			return nil, false
		}
		input[key] = coerce(value)
	}
	return input, true
}

// coerce renders a JSON value as a parameter string.
func coerce(value json.RawMessage) string {
	switch {
	case len(value) == 0, string(value) == "null":
		return ""
	case isJSONString(value):
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return string(value)
	}
	return buf.String()
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// unfence strips a single ``` or ```json fence that wraps the whole text.
func unfence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	inner := text[3 : len(text)-3]
	newline := strings.IndexByte(inner, '\n')
	if newline < 0 {
		return text
	}
	lang := strings.TrimSpace(inner[:newline])
	if lang != "" && !strings.EqualFold(lang, "json") {
		return text
	}
	return strings.TrimSpace(inner[newline+1:])
}
