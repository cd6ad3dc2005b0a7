package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrGoalNotFound = errors.New("goal not found")

const (
	queryList   = `SELECT id, goal FROM goals ORDER BY id`
	queryByID   = `SELECT id, goal FROM goals WHERE id = $1`
	queryCreate = `INSERT INTO goals (goal) VALUES ($1) RETURNING id, goal`
	queryUpdate = `UPDATE goals SET goal = COALESCE($1, goal) WHERE id = $2 RETURNING id, goal`
	queryDelete = `DELETE FROM goals WHERE id = $1 RETURNING id, goal`
)

// Store runs one statement per call against q, normally a single pooled connection
// held for the lifetime of a request.
type Store struct {
	q sqlx.QueryerContext
}

func NewStore(q sqlx.QueryerContext) *Store {
	return &Store{q: q}
}

func (s *Store) List(ctx context.Context) ([]Goal, error) {
	goals := []Goal{}
	if err := sqlx.SelectContext(ctx, s.q, &goals, queryList); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	if goals == nil {
		goals = []Goal{}
	}
	return goals, nil
}

func (s *Store) ByID(ctx context.Context, id int64) (Goal, error) {
	return s.one(ctx, "get goal", queryByID, id)
}

func (s *Store) Create(ctx context.Context, text string) (Goal, error) {
	return s.one(ctx, "create goal", queryCreate, text)
}

// Update replaces the text when text is non-nil and leaves it untouched otherwise.
func (s *Store) Update(ctx context.Context, id int64, text *string) (Goal, error) {
	return s.one(ctx, "update goal", queryUpdate, text, id)
}

func (s *Store) Delete(ctx context.Context, id int64) (Goal, error) {
	return s.one(ctx, "delete goal", queryDelete, id)
}

func (s *Store) one(ctx context.Context, op, query string, args ...any) (Goal, error) {
	var g Goal
	err := sqlx.GetContext(ctx, s.q, &g, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrGoalNotFound
	}
	if err != nil {
		return Goal{}, fmt.Errorf("%s: %w", op, err)
	}
	return g, nil
}
