// Package bot adapts Telegram updates to the dialogue flows and direct task
// operations. Handlers resolve the sender to a stored user, invoke the core
// logic, and render its replies; no dialogue state lives here.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/todobot/core/logger"
	tghelpers "github.com/m3rciful/todobot/core/telegram/helpers"
	"github.com/m3rciful/todobot/core/telegram/keyboard"
	"github.com/m3rciful/todobot/internal/flow"
	"github.com/m3rciful/todobot/internal/model"
	"github.com/m3rciful/todobot/internal/storage"
)

const (
	msgHello         = "Hello"
	msgStartFirst    = "Use /start to begin"
	msgInternalError = "Something went wrong, please try again"
	msgNoTasks       = "You have no tasks yet"
)

// Store is the persistence surface the handlers need: the flow contract plus
// user lookup and the direct task operations.
type Store interface {
	flow.Store
	CreateUser(ctx context.Context, tgID int64) (*model.User, error)
	UserByTelegramID(ctx context.Context, tgID int64) (*model.User, error)
	Tasks(ctx context.Context, userID int64, filter storage.TaskFilter) ([]model.Task, error)
	SaveTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

// Handlers owns the transport-facing side of the bot.
type Handlers struct {
	store Store
}

// NewHandlers wires handlers to the store.
func NewHandlers(store Store) *Handlers {
	return &Handlers{store: store}
}

// Start greets a new chat participant. The first /start creates the user row
// with only the Telegram identity set; repeated /start is silent.
func (h *Handlers) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := h.store.UserByTelegramID(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "start", err)
	}
	if user != nil {
		return nil
	}
	if _, err := h.store.CreateUser(ctx, c.Sender().ID); err != nil {
		return h.fail(c, "start", err)
	}
	logger.Info(ctx, "service.users", "user.created",
		slog.Int64("tg_id", c.Sender().ID),
	)
	return tghelpers.SendText(c, msgHello, &tele.SendOptions{
		ReplyMarkup: keyboard.ReplyButtons([]string{"/registration"}),
	})
}

// Registration starts the registration dialogue.
func (h *Handlers) Registration(c tele.Context, user *model.User) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := flow.NewRegistration(h.store, user).Start(ctx)
	return h.send(c, reply, err)
}

// Create starts the task creation dialogue.
func (h *Handlers) Create(c tele.Context, user *model.User) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := flow.NewCreate(h.store, user).Start(ctx)
	return h.send(c, reply, err)
}

// Show lists the user's visible tasks, one message per task with its action
// buttons.
func (h *Handlers) Show(c tele.Context, user *model.User) error {
	ctx := tghelpers.BuildContext(c)
	visible := true
	tasks, err := h.store.Tasks(ctx, user.ID, storage.TaskFilter{IsVisible: &visible})
	if err != nil {
		return h.fail(c, "show", err)
	}
	if len(tasks) == 0 {
		return tghelpers.SendText(c, msgNoTasks)
	}
	for _, task := range tasks {
		if err := sendTaskCard(c, task); err != nil {
			return h.fail(c, "show", err)
		}
	}
	return nil
}

// Text routes free text to the flow owning the sender's persisted status.
// Completed users generate no reply; unknown senders are told to register.
func (h *Handlers) Text(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := h.store.UserByTelegramID(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "text", err)
	}
	if user == nil {
		return tghelpers.SendText(c, msgStartFirst)
	}

	kind := flow.Select(user.Status)
	if kind == flow.KindNone {
		return nil
	}
	reply, err := flow.New(kind, h.store, user).Continue(ctx, c.Text())
	return h.send(c, reply, err)
}

// send renders a flow reply, surfacing flow errors as a generic message so
// the dialogue never silently continues in an inconsistent status.
func (h *Handlers) send(c tele.Context, reply flow.Reply, err error) error {
	if err != nil {
		return h.fail(c, "flow", err)
	}
	if reply.Text == "" {
		return nil
	}
	if len(reply.Buttons) > 0 {
		return tghelpers.SendText(c, reply.Text, &tele.SendOptions{
			ReplyMarkup: keyboard.ReplyButtons(reply.Buttons...),
		})
	}
	return tghelpers.SendText(c, reply.Text)
}

func (h *Handlers) fail(c tele.Context, op string, err error) error {
	ctx := tghelpers.BuildContext(c)
	logger.Error(ctx, "tg", "handler.error",
		slog.String("op", op),
		slog.String("err", err.Error()),
	)
	if sendErr := tghelpers.SendText(c, msgInternalError); sendErr != nil {
		return fmt.Errorf("%s: %w", op, sendErr)
	}
	return err
}
