package agent

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Decision is the model's tool selection for one prompt.
type Decision struct {
	Tool         ToolName `json:"tool"`
	Params       Params   `json:"params"`
	Explanation  string   `json:"explanation"`
	AgentMessage string   `json:"agentMessage"`
}

var decisionFields = []string{"tool", "params", "explanation", "agentMessage"}

// UnknownToolError reports a decision naming a tool outside the registry.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return "Invalid tool selected: " + e.Name
}

func (e *UnknownToolError) Unwrap() error {
	return ErrUnknownTool
}

// ParseDecision strictly parses a completion as a Decision. There is no repair
// or retry: anything but a JSON object carrying all four fields is rejected,
// and a tool name outside the known set fails with ErrUnknownTool.
func ParseDecision(raw string) (Decision, error) {
	text := strings.TrimSpace(raw)
	if !gjson.Valid(text) {
		return Decision{}, fmt.Errorf("%w: completion is not valid JSON", ErrMalformedDecision)
	}
	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return Decision{}, fmt.Errorf("%w: completion is not a JSON object", ErrMalformedDecision)
	}
	for _, field := range decisionFields {
		if !doc.Get(field).Exists() {
			return Decision{}, fmt.Errorf("%w: missing %q field", ErrMalformedDecision, field)
		}
	}

	tool := doc.Get("tool")
	if tool.Type != gjson.String {
		return Decision{}, fmt.Errorf("%w: \"tool\" must be a string", ErrMalformedDecision)
	}
	name, ok := ParseToolName(tool.Str)
	if !ok {
		return Decision{}, &UnknownToolError{Name: tool.Str}
	}

	params := Params{}
	switch p := doc.Get("params"); {
	case p.Type == gjson.Null:
	case p.IsObject():
		if m, ok := p.Value().(map[string]any); ok {
			params = m
		}
	default:
		return Decision{}, fmt.Errorf("%w: \"params\" must be an object", ErrMalformedDecision)
	}

	return Decision{
		Tool:         name,
		Params:       params,
		Explanation:  doc.Get("explanation").String(),
		AgentMessage: doc.Get("agentMessage").String(),
	}, nil
}
