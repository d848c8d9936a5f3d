// Package todo persists the tasks managed by the todo tools.
package todo

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyTitle = errors.New("todo title is required")
	ErrInvalidID  = errors.New("invalid todo id")
)

// Todo is a single task. JSON field names follow the document shape the chat UI renders.
type Todo struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the persistence boundary for todos. Title matching is a
// case-insensitive literal substring match in every implementation.
type Store interface {
	// Create inserts a new, not yet completed todo stamped with the current time.
	Create(ctx context.Context, title string) (Todo, error)
	// Find returns todos newest first, filtered by title when search is non-empty.
	Find(ctx context.Context, search string) ([]Todo, error)
	// DeleteByID removes the todo with the given id. A nil todo means nothing matched.
	DeleteByID(ctx context.Context, id string) (*Todo, error)
	// DeleteByTitle removes the oldest todo whose title matches. A nil todo means nothing matched.
	DeleteByTitle(ctx context.Context, title string) (*Todo, error)
}

func titleMatches(title, search string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(search))
}
