package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/todobot/core/telegram/format"
	tghelpers "github.com/m3rciful/todobot/core/telegram/helpers"
	"github.com/m3rciful/todobot/core/telegram/keyboard"
	"github.com/m3rciful/todobot/internal/model"
)

// taskCard renders one task with its three action buttons. Button data
// carries the "<operation>_<task_id>" token parsed by the callback route.
func taskCard(task model.Task) (string, *tele.ReplyMarkup) {
	completeLabel := "complete task"
	statusLabel := "not completed"
	if task.IsComplete {
		completeLabel = "uncomplete task"
		statusLabel = "completed"
	}

	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "update", Data: callbackData(opUpdateTask, task.ID)},
		{Text: completeLabel, Data: callbackData(opCompleteTask, task.ID)},
		{Text: "delete task", Data: callbackData(opDeleteTask, task.ID)},
	})

	text := fmt.Sprintf("*%s*\nDescription: _%s_\nStatus: `%s`",
		format.EscapeMarkdown(task.Title),
		format.EscapeMarkdown(format.DerefString(task.Description, "-")),
		statusLabel,
	)
	return text, markup
}

func sendTaskCard(c tele.Context, task model.Task) error {
	text, markup := taskCard(task)
	return tghelpers.SendMD(c, text, markup)
}

func callbackData(op string, taskID int64) string {
	return fmt.Sprintf("%s_%d", op, taskID)
}
