package agent

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
)

// ToolName identifies one of the fixed tools the model may select.
type ToolName string

const (
	ToolGetWeather    ToolName = "get_weather"
	ToolAddTodo       ToolName = "add_todo"
	ToolGetTodos      ToolName = "get_todos"
	ToolDeleteTodo    ToolName = "delete_todo"
	ToolGenerateUPIQR ToolName = "generate_upi_qr"
	ToolGenerateImage ToolName = "generate_image"
)

// ToolNames lists every known tool in prompt order.
var ToolNames = []ToolName{
	ToolGetWeather,
	ToolAddTodo,
	ToolGetTodos,
	ToolDeleteTodo,
	ToolGenerateUPIQR,
	ToolGenerateImage,
}

// ParseToolName matches s verbatim against the known tool names.
func ParseToolName(s string) (ToolName, bool) {
	for _, name := range ToolNames {
		if string(name) == s {
			return name, true
		}
	}
	return "", false
}

// ToolSpec describes how the agent presents a tool to the model.
type ToolSpec struct {
	Name        ToolName `json:"name"`
	Description string   `json:"description"`
}

// Tool is a side-effecting capability the model can select. Invoke receives the
// model's params untouched; each tool validates what it needs.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, params Params) (any, error)
}

// Params is the free-form argument object of a Decision.
type Params map[string]any

// String returns params[key] as a string, or "" when absent.
func (p Params) String(key string) string {
	return cast.ToString(p[key])
}

// Strings accepts either a single string or an array of values.
func (p Params) Strings(key string) ([]string, error) {
	switch v := p[key].(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	default:
		out, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, fmt.Errorf("%s must be a string or an array of strings", key)
		}
		return out, nil
	}
}

func (p Params) Float(key string) (float64, error) {
	f, err := cast.ToFloat64E(p[key])
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}

// Has reports whether key is present with a non-null value.
func (p Params) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}
