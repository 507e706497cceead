package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/todobot/internal/model"
	"github.com/m3rciful/todobot/internal/storage"
)

type mockStore struct {
	createUser       func(ctx context.Context, tgID int64) (*model.User, error)
	userByTelegramID func(ctx context.Context, tgID int64) (*model.User, error)
	loginTaken       func(ctx context.Context, login string) (bool, error)
	tasks            func(ctx context.Context, userID int64, filter storage.TaskFilter) ([]model.Task, error)
	task             func(ctx context.Context, userID, taskID int64) (*model.Task, error)
	saveUser         func(ctx context.Context, u *model.User) error
	saveTask         func(ctx context.Context, t *model.Task) error
	saveUserAndTask  func(ctx context.Context, u *model.User, t *model.Task) error
	deleteTask       func(ctx context.Context, userID, taskID int64) error
	purgeDraftTasks  func(ctx context.Context, userID int64) error
}

func (m *mockStore) CreateUser(ctx context.Context, tgID int64) (*model.User, error) {
	if m.createUser != nil {
		return m.createUser(ctx, tgID)
	}
	return &model.User{ID: 1, TelegramID: tgID}, nil
}

func (m *mockStore) UserByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	if m.userByTelegramID != nil {
		return m.userByTelegramID(ctx, tgID)
	}
	return nil, nil
}

func (m *mockStore) LoginTaken(ctx context.Context, login string) (bool, error) {
	if m.loginTaken != nil {
		return m.loginTaken(ctx, login)
	}
	return false, nil
}

func (m *mockStore) Tasks(ctx context.Context, userID int64, filter storage.TaskFilter) ([]model.Task, error) {
	if m.tasks != nil {
		return m.tasks(ctx, userID, filter)
	}
	return nil, nil
}

func (m *mockStore) Task(ctx context.Context, userID, taskID int64) (*model.Task, error) {
	if m.task != nil {
		return m.task(ctx, userID, taskID)
	}
	return nil, nil
}

func (m *mockStore) SaveUser(ctx context.Context, u *model.User) error {
	if m.saveUser != nil {
		return m.saveUser(ctx, u)
	}
	return nil
}

func (m *mockStore) SaveTask(ctx context.Context, t *model.Task) error {
	if m.saveTask != nil {
		return m.saveTask(ctx, t)
	}
	return nil
}

func (m *mockStore) SaveUserAndTask(ctx context.Context, u *model.User, t *model.Task) error {
	if m.saveUserAndTask != nil {
		return m.saveUserAndTask(ctx, u, t)
	}
	return nil
}

func (m *mockStore) DeleteTask(ctx context.Context, userID, taskID int64) error {
	if m.deleteTask != nil {
		return m.deleteTask(ctx, userID, taskID)
	}
	return nil
}

func (m *mockStore) PurgeDraftTasks(ctx context.Context, userID int64) error {
	if m.purgeDraftTasks != nil {
		return m.purgeDraftTasks(ctx, userID)
	}
	return nil
}

// stubContext covers the subset of tele.Context the handlers touch; every
// other method panics through the nil embedded interface.
type stubContext struct {
	tele.Context
	sender   *tele.User
	callback *tele.Callback
	text     string
	kv       map[string]any
	sent     []string
}

func newStubContext(tgID int64) *stubContext {
	return &stubContext{
		sender: &tele.User{ID: tgID},
		kv:     make(map[string]any),
	}
}

func (c *stubContext) Update() tele.Update      { return tele.Update{ID: 1} }
func (c *stubContext) Sender() *tele.User       { return c.sender }
func (c *stubContext) Chat() *tele.Chat         { return &tele.Chat{ID: c.sender.ID} }
func (c *stubContext) Callback() *tele.Callback { return c.callback }
func (c *stubContext) Text() string             { return c.text }
func (c *stubContext) Get(key string) any       { return c.kv[key] }
func (c *stubContext) Set(key string, v any)    { c.kv[key] = v }

func (c *stubContext) Send(what any, _ ...any) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func (c *stubContext) EditOrSend(what any, _ ...any) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func TestStartCreatesUserAndGreets(t *testing.T) {
	created := 0
	store := &mockStore{
		createUser: func(_ context.Context, tgID int64) (*model.User, error) {
			created++
			return &model.User{ID: 1, TelegramID: tgID}, nil
		},
	}
	c := newStubContext(100)

	require.NoError(t, NewHandlers(store).Start(c))
	assert.Equal(t, 1, created)
	require.Len(t, c.sent, 1)
	assert.Equal(t, msgHello, c.sent[0])
}

func TestStartSilentForExistingUser(t *testing.T) {
	created := 0
	store := &mockStore{
		userByTelegramID: func(_ context.Context, tgID int64) (*model.User, error) {
			return &model.User{ID: 1, TelegramID: tgID, Status: model.StatusFinish}, nil
		},
		createUser: func(_ context.Context, tgID int64) (*model.User, error) {
			created++
			return nil, nil
		},
	}
	c := newStubContext(100)

	require.NoError(t, NewHandlers(store).Start(c))
	assert.Zero(t, created)
	assert.Empty(t, c.sent)
}

func TestTextUnknownUserPromptsStart(t *testing.T) {
	c := newStubContext(100)
	c.text = "hello"

	require.NoError(t, NewHandlers(&mockStore{}).Text(c))
	require.Len(t, c.sent, 1)
	assert.Equal(t, msgStartFirst, c.sent[0])
}

func TestDeleteTaskMissingTaskConfirms(t *testing.T) {
	var gotUser, gotTask int64
	store := &mockStore{
		deleteTask: func(_ context.Context, userID, taskID int64) error {
			gotUser, gotTask = userID, taskID
			return nil
		},
	}
	c := newStubContext(100)
	c.callback = &tele.Callback{Data: "deletetask_99"}
	user := &model.User{ID: 1, Status: model.StatusFinish}

	require.NoError(t, NewHandlers(store).DeleteTask(c, user))
	assert.Equal(t, int64(1), gotUser)
	assert.Equal(t, int64(99), gotTask)
	require.Len(t, c.sent, 1)
	assert.Equal(t, msgTaskDeleted, c.sent[0])
}

func TestCompleteTaskDoubleToggle(t *testing.T) {
	stored := &model.Task{ID: 5, UserID: 1, Title: "buy milk", IsVisible: true}
	store := &mockStore{
		task: func(_ context.Context, userID, taskID int64) (*model.Task, error) {
			if userID == stored.UserID && taskID == stored.ID {
				copied := *stored
				return &copied, nil
			}
			return nil, nil
		},
		saveTask: func(_ context.Context, t *model.Task) error {
			*stored = *t
			return nil
		},
	}
	h := NewHandlers(store)
	user := &model.User{ID: 1, Status: model.StatusFinish}

	c := newStubContext(100)
	c.callback = &tele.Callback{Data: "completetask_5"}
	require.NoError(t, h.CompleteTask(c, user))
	assert.True(t, stored.IsComplete)
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "completed")

	c = newStubContext(100)
	c.callback = &tele.Callback{Data: "completetask_5"}
	require.NoError(t, h.CompleteTask(c, user))
	assert.False(t, stored.IsComplete)
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "not completed")
}

func TestCompleteTaskMissingTask(t *testing.T) {
	c := newStubContext(100)
	c.callback = &tele.Callback{Data: "completetask_404"}
	user := &model.User{ID: 1, Status: model.StatusFinish}

	require.NoError(t, NewHandlers(&mockStore{}).CompleteTask(c, user))
	require.Len(t, c.sent, 1)
	assert.Equal(t, msgTaskNotFound, c.sent[0])
}

func TestShowEmpty(t *testing.T) {
	c := newStubContext(100)
	user := &model.User{ID: 1, Status: model.StatusFinish}

	require.NoError(t, NewHandlers(&mockStore{}).Show(c, user))
	require.Len(t, c.sent, 1)
	assert.Equal(t, msgNoTasks, c.sent[0])
}
