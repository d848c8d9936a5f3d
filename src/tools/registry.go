// Package tools implements the capabilities the agent can dispatch to.
package tools

import (
	"github.com/Protocol-Lattice/chat-agent/src/imagegen"
	"github.com/Protocol-Lattice/chat-agent/src/todo"

	agent "github.com/Protocol-Lattice/chat-agent"
)

// Deps are the backends the tools run against.
type Deps struct {
	Todos   todo.Store
	Weather WeatherLookup
	Images  imagegen.Generator
}

// Registry returns every tool in the order it is presented to the model.
func Registry(deps Deps) []agent.Tool {
	return []agent.Tool{
		&WeatherTool{Lookup: deps.Weather},
		&AddTodoTool{Store: deps.Todos},
		&GetTodosTool{Store: deps.Todos},
		&DeleteTodoTool{Store: deps.Todos},
		&UPIQRTool{},
		&ImageTool{Generator: deps.Images},
	}
}
