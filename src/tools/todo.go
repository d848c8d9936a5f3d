package tools

import (
	"context"
	"errors"
	"strings"

	agent "github.com/Protocol-Lattice/chat-agent"
	"github.com/Protocol-Lattice/chat-agent/src/todo"
)

var errNoStore = errors.New("todo store is not configured")

// AddTodoTool creates a task from the "title" param.
type AddTodoTool struct {
	Store todo.Store
}

func (t *AddTodoTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{Name: agent.ToolAddTodo, Description: "Add a new todo task"}
}

func (t *AddTodoTool) Invoke(ctx context.Context, params agent.Params) (any, error) {
	if t.Store == nil {
		return nil, errNoStore
	}
	title := strings.TrimSpace(params.String("title"))
	if title == "" {
		return nil, todo.ErrEmptyTitle
	}
	return t.Store.Create(ctx, title)
}

// GetTodosTool lists tasks, newest first, optionally filtered by "search".
type GetTodosTool struct {
	Store todo.Store
}

func (t *GetTodosTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{Name: agent.ToolGetTodos, Description: "Get all todo tasks, optionally filtered by title"}
}

func (t *GetTodosTool) Invoke(ctx context.Context, params agent.Params) (any, error) {
	if t.Store == nil {
		return nil, errNoStore
	}
	todos, err := t.Store.Find(ctx, strings.TrimSpace(params.String("search")))
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

// DeleteTodoTool removes one task. "id" wins over "title" when both are given.
type DeleteTodoTool struct {
	Store todo.Store
}

func (t *DeleteTodoTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{Name: agent.ToolDeleteTodo, Description: "Delete a todo task by title or ID"}
}

func (t *DeleteTodoTool) Invoke(ctx context.Context, params agent.Params) (any, error) {
	if t.Store == nil {
		return nil, errNoStore
	}
	if id := strings.TrimSpace(params.String("id")); id != "" {
		return t.Store.DeleteByID(ctx, id)
	}
	if title := strings.TrimSpace(params.String("title")); title != "" {
		return t.Store.DeleteByTitle(ctx, title)
	}
	return nil, errors.New("Either title or id must be provided")
}
