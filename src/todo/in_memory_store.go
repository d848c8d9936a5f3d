package todo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore keeps todos in process memory for tests and database-less runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	todos []Todo
	now   func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{now: time.Now}
}

func (s *InMemoryStore) Create(_ context.Context, title string) (Todo, error) {
	if strings.TrimSpace(title) == "" {
		return Todo{}, ErrEmptyTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Todo{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: s.now().UTC(),
	}
	s.todos = append(s.todos, t)
	return t, nil
}

func (s *InMemoryStore) Find(_ context.Context, search string) ([]Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Todo, 0, len(s.todos))
	// Walk backwards so todos created within the same instant stay newest first.
	for i := len(s.todos) - 1; i >= 0; i-- {
		if search == "" || titleMatches(s.todos[i].Title, search) {
			out = append(out, s.todos[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) DeleteByID(_ context.Context, id string) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.todos {
		if t.ID == id {
			return s.removeAt(i), nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) DeleteByTitle(_ context.Context, title string) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.todos {
		if titleMatches(t.Title, title) {
			return s.removeAt(i), nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) removeAt(i int) *Todo {
	removed := s.todos[i]
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	return &removed
}

var _ Store = (*InMemoryStore)(nil)
