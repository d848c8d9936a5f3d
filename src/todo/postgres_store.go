package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTodosTable = `
CREATE TABLE IF NOT EXISTS todos (
    id         UUID PRIMARY KEY,
    title      TEXT NOT NULL,
    completed  BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS todos_created_at ON todos (created_at DESC);
`

// PostgresStore keeps todos in a Postgres table.
type PostgresStore struct {
	DB  *pgxpool.Pool
	now func() time.Time
}

// NewPostgresStore connects to Postgres and ensures the todos table exists.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	if connStr == "" {
		return nil, errors.New("postgres connection string is required")
	}
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if _, err := db.Exec(ctx, createTodosTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create todos table: %w", err)
	}
	return &PostgresStore{DB: db, now: time.Now}, nil
}

func (ps *PostgresStore) Create(ctx context.Context, title string) (Todo, error) {
	if strings.TrimSpace(title) == "" {
		return Todo{}, ErrEmptyTitle
	}
	t := Todo{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: ps.now().UTC().Truncate(time.Microsecond),
	}
	_, err := ps.DB.Exec(ctx,
		`INSERT INTO todos (id, title, completed, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Title, t.Completed, t.CreatedAt)
	if err != nil {
		return Todo{}, err
	}
	return t, nil
}

func (ps *PostgresStore) Find(ctx context.Context, search string) ([]Todo, error) {
	query := `SELECT id::text, title, completed, created_at FROM todos`
	var args []any
	if search != "" {
		query += ` WHERE strpos(lower(title), lower($1)) > 0`
		args = append(args, search)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := ps.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.CreatedAt = t.CreatedAt.UTC()
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (ps *PostgresStore) DeleteByID(ctx context.Context, id string) (*Todo, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidID
	}
	return ps.deleteReturning(ctx,
		`DELETE FROM todos WHERE id = $1 RETURNING id::text, title, completed, created_at`, parsed.String())
}

func (ps *PostgresStore) DeleteByTitle(ctx context.Context, title string) (*Todo, error) {
	return ps.deleteReturning(ctx, `
		DELETE FROM todos WHERE id = (
			SELECT id FROM todos WHERE strpos(lower(title), lower($1)) > 0
			ORDER BY created_at ASC LIMIT 1
		) RETURNING id::text, title, completed, created_at`, title)
}

func (ps *PostgresStore) deleteReturning(ctx context.Context, query string, arg any) (*Todo, error) {
	var t Todo
	err := ps.DB.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

func (ps *PostgresStore) Close() error {
	if ps != nil && ps.DB != nil {
		ps.DB.Close()
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
