package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/todobot/core/logger"
	"github.com/m3rciful/todobot/internal/model"
)

const (
	msgEnterNewTitle       = "Enter a new task title"
	msgEnterNewDescription = "Enter a new task description"
	msgTaskUpdated         = "Task updated"
)

// Update rewrites the title and description of an existing task. The caller
// sets the user's active task pointer before Start, typically from an inline
// button payload.
type Update struct {
	store Store
	user  *model.User
}

// NewUpdate binds the update flow to a loaded user.
func NewUpdate(store Store, user *model.User) *Update {
	return &Update{store: store, user: user}
}

// Start enters the update band and runs one step.
func (a *Update) Start(ctx context.Context) (Reply, error) {
	a.user.Status = model.StatusUpdateTaskStart
	return a.step(ctx, "")
}

// Continue consumes the answer to the last prompt.
func (a *Update) Continue(ctx context.Context, text string) (Reply, error) {
	return a.step(ctx, text)
}

func (a *Update) step(ctx context.Context, text string) (Reply, error) {
	switch a.user.Status {
	case model.StatusUpdateTaskStart:
		a.user.Status = model.StatusUpdateTaskTitle
		if err := a.store.SaveUser(ctx, a.user); err != nil {
			return Reply{}, fmt.Errorf("update task: %w", err)
		}
		return Reply{Text: msgEnterNewTitle}, nil

	case model.StatusUpdateTaskTitle:
		if !validTitle(text) {
			return Reply{Text: msgTitleRejected}, nil
		}
		task, err := activeTask(ctx, a.store, a.user)
		if err != nil {
			return Reply{}, fmt.Errorf("update task: %w", err)
		}
		task.Title = strings.TrimSpace(text)
		a.user.Status = model.StatusUpdateTaskDescription
		if err := a.store.SaveUserAndTask(ctx, a.user, task); err != nil {
			return Reply{}, fmt.Errorf("update task: %w", err)
		}
		return Reply{Text: msgEnterNewDescription}, nil

	case model.StatusUpdateTaskDescription:
		if !validDescription(text) {
			return Reply{Text: msgDescriptionRejected}, nil
		}
		task, err := activeTask(ctx, a.store, a.user)
		if err != nil {
			return Reply{}, fmt.Errorf("update task: %w", err)
		}
		desc := strings.TrimSpace(text)
		task.Description = &desc
		a.user.Status = model.StatusFinish
		if err := a.store.SaveUserAndTask(ctx, a.user, task); err != nil {
			return Reply{}, fmt.Errorf("update task: %w", err)
		}
		logger.Info(ctx, "service.tasks", "task.updated",
			slog.Int64("user_id", a.user.ID),
			slog.Int64("task_id", task.ID),
		)
		return Reply{Text: msgTaskUpdated}, nil
	}

	return Reply{}, fmt.Errorf("update task: status %s outside update band", a.user.Status)
}
