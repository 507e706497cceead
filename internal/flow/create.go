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
	msgEnterTitle          = "Enter a task title"
	msgTitleRejected       = "That title does not fit, try a shorter one"
	msgEnterDescription    = "Enter a task description"
	msgDescriptionRejected = "That description does not fit, try a shorter one"
	msgTaskCreated         = "Task created"
)

// Create walks a user through draft task creation: title, then description.
// The draft stays invisible until the description step completes.
type Create struct {
	store Store
	user  *model.User
}

// NewCreate binds the creation flow to a loaded user.
func NewCreate(store Store, user *model.User) *Create {
	return &Create{store: store, user: user}
}

// Start purges any stale draft left by an abandoned flow, enters the creation
// band, and runs one step.
func (a *Create) Start(ctx context.Context) (Reply, error) {
	if err := a.store.PurgeDraftTasks(ctx, a.user.ID); err != nil {
		return Reply{}, fmt.Errorf("create task: %w", err)
	}
	a.user.Status = model.StatusCreateTaskStart
	return a.step(ctx, "")
}

// Continue consumes the answer to the last prompt.
func (a *Create) Continue(ctx context.Context, text string) (Reply, error) {
	return a.step(ctx, text)
}

func (a *Create) step(ctx context.Context, text string) (Reply, error) {
	switch a.user.Status {
	case model.StatusCreateTaskStart:
		a.user.Status = model.StatusCreateTaskTitle
		if err := a.store.SaveUser(ctx, a.user); err != nil {
			return Reply{}, fmt.Errorf("create task: %w", err)
		}
		return Reply{Text: msgEnterTitle}, nil

	case model.StatusCreateTaskTitle:
		if !validTitle(text) {
			return Reply{Text: msgTitleRejected}, nil
		}
		task := &model.Task{
			UserID: a.user.ID,
			Title:  strings.TrimSpace(text),
		}
		a.user.Status = model.StatusCreateTaskDescription
		// Task row first, then user; the store sets task_id once the row exists.
		if err := a.store.SaveUserAndTask(ctx, a.user, task); err != nil {
			return Reply{}, fmt.Errorf("create task: %w", err)
		}
		return Reply{Text: msgEnterDescription}, nil

	case model.StatusCreateTaskDescription:
		if !validDescription(text) {
			return Reply{Text: msgDescriptionRejected}, nil
		}
		task, err := activeTask(ctx, a.store, a.user)
		if err != nil {
			return Reply{}, fmt.Errorf("create task: %w", err)
		}
		desc := strings.TrimSpace(text)
		task.Description = &desc
		task.IsVisible = true
		a.user.Status = model.StatusFinish
		if err := a.store.SaveUserAndTask(ctx, a.user, task); err != nil {
			return Reply{}, fmt.Errorf("create task: %w", err)
		}
		logger.Info(ctx, "service.tasks", "task.created",
			slog.Int64("user_id", a.user.ID),
			slog.Int64("task_id", task.ID),
		)
		return Reply{Text: msgTaskCreated}, nil
	}

	return Reply{}, fmt.Errorf("create task: status %s outside creation band", a.user.Status)
}

// activeTask loads the task referenced by the user's active task pointer.
func activeTask(ctx context.Context, store Store, user *model.User) (*model.Task, error) {
	if user.TaskID == nil {
		return nil, fmt.Errorf("no active task for user %d", user.ID)
	}
	task, err := store.Task(ctx, user.ID, *user.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("active task %d not found for user %d", *user.TaskID, user.ID)
	}
	return task, nil
}
