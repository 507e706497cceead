package bot

import (
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/todobot/core/logger"
	"github.com/m3rciful/todobot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/todobot/core/telegram/helpers"
	"github.com/m3rciful/todobot/internal/flow"
	"github.com/m3rciful/todobot/internal/model"
)

// Callback operation tokens carried in inline button payloads as
// "<operation>_<task_id>".
const (
	opUpdateTask   = "updatetask"
	opCompleteTask = "completetask"
	opDeleteTask   = "deletetask"
)

const (
	msgTaskDeleted  = "Task was deleted"
	msgTaskNotFound = "That task no longer exists"
)

// UpdateTask starts the update dialogue for the task named in the payload.
func (h *Handlers) UpdateTask(c tele.Context, user *model.User) error {
	ctx := tghelpers.BuildContext(c)
	taskID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return h.fail(c, "updatetask", fmt.Errorf("bad payload: %w", err))
	}
	user.TaskID = &taskID
	reply, err := flow.NewUpdate(h.store, user).Start(ctx)
	return h.send(c, reply, err)
}

// CompleteTask flips the completion flag of the task named in the payload.
func (h *Handlers) CompleteTask(c tele.Context, user *model.User) error {
	ctx := tghelpers.BuildContext(c)
	taskID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return h.fail(c, "completetask", fmt.Errorf("bad payload: %w", err))
	}
	task, err := h.store.Task(ctx, user.ID, taskID)
	if err != nil {
		return h.fail(c, "completetask", err)
	}
	if task == nil {
		return tghelpers.SendText(c, msgTaskNotFound)
	}
	task.IsComplete = !task.IsComplete
	if err := h.store.SaveTask(ctx, task); err != nil {
		return h.fail(c, "completetask", err)
	}
	logger.Info(ctx, "service.tasks", "task.toggled",
		slog.Int64("user_id", user.ID),
		slog.Int64("task_id", task.ID),
		slog.Bool("is_complete", task.IsComplete),
	)
	text, markup := taskCard(*task)
	return tghelpers.EditOrSendMD(c, text, markup)
}

// DeleteTask removes the task named in the payload. The confirmation is
// unconditional: deleting an already-gone task succeeds.
func (h *Handlers) DeleteTask(c tele.Context, user *model.User) error {
	ctx := tghelpers.BuildContext(c)
	taskID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return h.fail(c, "deletetask", fmt.Errorf("bad payload: %w", err))
	}
	if err := h.store.DeleteTask(ctx, user.ID, taskID); err != nil {
		return h.fail(c, "deletetask", err)
	}
	logger.Info(ctx, "service.tasks", "task.deleted",
		slog.Int64("user_id", user.ID),
		slog.Int64("task_id", taskID),
	)
	return tghelpers.SendText(c, msgTaskDeleted)
}
