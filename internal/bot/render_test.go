package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/todobot/internal/model"
)

func TestTaskCard(t *testing.T) {
	desc := "pick the 2% one"
	task := model.Task{ID: 42, UserID: 1, Title: "buy milk", Description: &desc, IsVisible: true}

	text, markup := taskCard(task)
	assert.Contains(t, text, "buy milk")
	assert.Contains(t, text, desc)
	assert.Contains(t, text, "not completed")

	require.Len(t, markup.InlineKeyboard, 1)
	row := markup.InlineKeyboard[0]
	require.Len(t, row, 3)
	assert.Equal(t, "update", row[0].Text)
	assert.Equal(t, "updatetask_42", row[0].Data)
	assert.Equal(t, "complete task", row[1].Text)
	assert.Equal(t, "completetask_42", row[1].Data)
	assert.Equal(t, "delete task", row[2].Text)
	assert.Equal(t, "deletetask_42", row[2].Data)
}

func TestTaskCardCompleted(t *testing.T) {
	task := model.Task{ID: 7, UserID: 1, Title: "done thing", IsComplete: true, IsVisible: true}

	text, markup := taskCard(task)
	assert.Contains(t, text, "completed")
	// Missing description renders as a placeholder.
	assert.Contains(t, text, "-")
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "uncomplete task", markup.InlineKeyboard[0][1].Text)
	assert.Equal(t, "completetask_7", markup.InlineKeyboard[0][1].Data)
}

func TestTaskCardEscapesMarkdown(t *testing.T) {
	task := model.Task{ID: 9, UserID: 1, Title: "a_b*c", IsVisible: true}

	text, _ := taskCard(task)
	assert.Contains(t, text, `a\_b\*c`)
}
