package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/todobot/internal/model"
)

// Store implements data access for users and tasks on top of Postgres.
// Every method is a single logical unit of work; multi-row saves run inside
// one transaction.
type Store struct {
	db *sqlx.DB
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// CreateUser inserts a fresh user carrying only the Telegram identity.
// Status defaults to the start of the registration band.
func (s *Store) CreateUser(ctx context.Context, tgID int64) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, `
		INSERT INTO td_users (tg_id, status)
		VALUES ($1, $2)
		RETURNING id, name, login, tg_id, status, task_id`,
		tgID, model.StatusStart,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// UserByTelegramID resolves a user by the external chat identity.
// Returns (nil, nil) when no such user exists.
func (s *Store) UserByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, `
		SELECT id, name, login, tg_id, status, task_id
		FROM td_users
		WHERE tg_id = $1`,
		tgID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by tg_id: %w", err)
	}
	return &u, nil
}

// LoginTaken reports whether any user already holds the given login.
// The match is case-sensitive and exact.
func (s *Store) LoginTaken(ctx context.Context, login string) (bool, error) {
	var taken bool
	err := s.db.GetContext(ctx, &taken,
		`SELECT EXISTS (SELECT 1 FROM td_users WHERE login = $1)`, login)
	if err != nil {
		return false, fmt.Errorf("check login: %w", err)
	}
	return taken, nil
}

// TaskFilter narrows task listings; nil fields are not applied.
type TaskFilter struct {
	IsVisible  *bool
	IsComplete *bool
}

// Tasks returns the user's tasks matching the filter, ordered by id.
func (s *Store) Tasks(ctx context.Context, userID int64, filter TaskFilter) ([]model.Task, error) {
	query := `
		SELECT id, user_id, title, description, is_complete, is_visible
		FROM td_tasks
		WHERE user_id = $1`
	args := []any{userID}
	if filter.IsVisible != nil {
		args = append(args, *filter.IsVisible)
		query += fmt.Sprintf(" AND is_visible = $%d", len(args))
	}
	if filter.IsComplete != nil {
		args = append(args, *filter.IsComplete)
		query += fmt.Sprintf(" AND is_complete = $%d", len(args))
	}
	query += " ORDER BY id"

	var tasks []model.Task
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Task fetches one task scoped to its owner. Returns (nil, nil) when absent.
func (s *Store) Task(ctx context.Context, userID, taskID int64) (*model.Task, error) {
	var t model.Task
	err := s.db.GetContext(ctx, &t, `
		SELECT id, user_id, title, description, is_complete, is_visible
		FROM td_tasks
		WHERE user_id = $1 AND id = $2`,
		userID, taskID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// SaveUser writes the user row back. Uniqueness violations (login) surface
// as ErrConflict so the registration flow can re-prompt.
func (s *Store) SaveUser(ctx context.Context, u *model.User) error {
	if err := saveUserTx(ctx, s.db, u); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// SaveTask writes the task row back.
func (s *Store) SaveTask(ctx context.Context, t *model.Task) error {
	if err := saveTaskTx(ctx, s.db, t); err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// SaveUserAndTask persists a user together with the task the dialogue is
// mutating, in one transaction. A new task (ID zero) is inserted first and
// the user's active task reference is set only after its id exists, so a
// failed commit never leaves task_id pointing at nothing.
func (s *Store) SaveUserAndTask(ctx context.Context, u *model.User, t *model.Task) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if t != nil {
		if err := saveTaskTx(ctx, tx, t); err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		u.TaskID = &t.ID
	}
	if err := saveUserTx(ctx, tx, u); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteTask removes a task scoped to its owner. Deleting a task that does
// not exist is not an error.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM td_tasks WHERE user_id = $1 AND id = $2`, userID, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// PurgeDraftTasks removes the user's invisible draft tasks left behind by an
// abandoned creation flow.
func (s *Store) PurgeDraftTasks(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM td_tasks WHERE user_id = $1 AND is_visible = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("purge draft tasks: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	sqlx.QueryerContext
}

func saveUserTx(ctx context.Context, q execer, u *model.User) error {
	_, err := q.ExecContext(ctx, `
		UPDATE td_users
		SET name = $1, login = $2, status = $3, task_id = $4
		WHERE id = $5`,
		u.Name, u.Login, u.Status, u.TaskID, u.ID,
	)
	return err
}

func saveTaskTx(ctx context.Context, q execer, t *model.Task) error {
	if t.ID == 0 {
		row := q.QueryRowxContext(ctx, `
			INSERT INTO td_tasks (user_id, title, description, is_complete, is_visible)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			t.UserID, t.Title, t.Description, t.IsComplete, t.IsVisible,
		)
		return row.Scan(&t.ID)
	}
	_, err := q.ExecContext(ctx, `
		UPDATE td_tasks
		SET title = $1, description = $2, is_complete = $3, is_visible = $4
		WHERE id = $5 AND user_id = $6`,
		t.Title, t.Description, t.IsComplete, t.IsVisible, t.ID, t.UserID,
	)
	return err
}
