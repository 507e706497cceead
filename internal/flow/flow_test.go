package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/todobot/internal/model"
	"github.com/m3rciful/todobot/internal/storage"
)

type mockStore struct {
	loginTaken      func(ctx context.Context, login string) (bool, error)
	task            func(ctx context.Context, userID, taskID int64) (*model.Task, error)
	saveUser        func(ctx context.Context, u *model.User) error
	saveUserAndTask func(ctx context.Context, u *model.User, t *model.Task) error
	purgeDraftTasks func(ctx context.Context, userID int64) error
}

func (m *mockStore) LoginTaken(ctx context.Context, login string) (bool, error) {
	if m.loginTaken != nil {
		return m.loginTaken(ctx, login)
	}
	return false, nil
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

func (m *mockStore) SaveUserAndTask(ctx context.Context, u *model.User, t *model.Task) error {
	if m.saveUserAndTask != nil {
		return m.saveUserAndTask(ctx, u, t)
	}
	if t != nil {
		if t.ID == 0 {
			t.ID = 101
		}
		u.TaskID = &t.ID
	}
	return nil
}

func (m *mockStore) PurgeDraftTasks(ctx context.Context, userID int64) error {
	if m.purgeDraftTasks != nil {
		return m.purgeDraftTasks(ctx, userID)
	}
	return nil
}

func TestSelect(t *testing.T) {
	cases := []struct {
		status model.Status
		want   Kind
	}{
		{model.StatusStart, KindRegistration},
		{model.StatusEnterName, KindRegistration},
		{model.StatusEnterLogin, KindRegistration},
		{model.StatusFinish, KindNone},
		{model.StatusCreateTaskStart, KindCreate},
		{model.StatusCreateTaskTitle, KindCreate},
		{model.StatusCreateTaskDescription, KindCreate},
		{model.StatusUpdateTaskStart, KindUpdate},
		{model.StatusUpdateTaskTitle, KindUpdate},
		{model.StatusUpdateTaskDescription, KindUpdate},
		{model.Status(99), KindNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Select(tc.status), "status %d", tc.status)
	}
}

func TestRegistrationHappyPath(t *testing.T) {
	ctx := context.Background()
	var saved []model.User
	store := &mockStore{
		saveUser: func(_ context.Context, u *model.User) error {
			saved = append(saved, *u)
			return nil
		},
	}
	user := &model.User{ID: 1, TelegramID: 100}
	reg := NewRegistration(store, user)

	reply, err := reg.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, msgEnterName, reply.Text)
	assert.Equal(t, model.StatusEnterName, user.Status)

	reply, err = reg.Continue(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, msgEnterLogin, reply.Text)
	assert.Equal(t, model.StatusEnterLogin, user.Status)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Alice", *user.Name)

	reply, err = reg.Continue(ctx, "alice01")
	require.NoError(t, err)
	assert.Equal(t, msgRegistered, reply.Text)
	assert.Equal(t, buttonsAfterRegistration, reply.Buttons)
	assert.Equal(t, model.StatusFinish, user.Status)
	require.NotNil(t, user.Login)
	assert.Equal(t, "alice01", *user.Login)
	assert.Len(t, saved, 3)
}

func TestRegistrationRejectsCommandAsName(t *testing.T) {
	ctx := context.Background()
	saves := 0
	store := &mockStore{
		saveUser: func(context.Context, *model.User) error {
			saves++
			return nil
		},
	}
	user := &model.User{ID: 1, Status: model.StatusEnterName}

	reply, err := NewRegistration(store, user).Continue(ctx, "/start")
	require.NoError(t, err)
	assert.Equal(t, msgNameRejected, reply.Text)
	assert.Equal(t, model.StatusEnterName, user.Status)
	assert.Nil(t, user.Name)
	assert.Zero(t, saves)
}

func TestRegistrationRejectsTakenLogin(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{
		loginTaken: func(_ context.Context, login string) (bool, error) {
			return login == "taken", nil
		},
	}
	user := &model.User{ID: 1, Status: model.StatusEnterLogin}

	reply, err := NewRegistration(store, user).Continue(ctx, "taken")
	require.NoError(t, err)
	assert.Equal(t, msgLoginRejected, reply.Text)
	assert.Equal(t, model.StatusEnterLogin, user.Status)
	assert.Nil(t, user.Login)
}

func TestRegistrationLoginConflictReprompts(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{
		saveUser: func(_ context.Context, u *model.User) error {
			if u.Login != nil {
				return storage.ErrConflict
			}
			return nil
		},
	}
	user := &model.User{ID: 1, Status: model.StatusEnterLogin}

	reply, err := NewRegistration(store, user).Continue(ctx, "raced")
	require.NoError(t, err)
	assert.Equal(t, msgLoginRejected, reply.Text)
	assert.Equal(t, model.StatusEnterLogin, user.Status)
	assert.Nil(t, user.Login)
}

func TestRegistrationStartAfterFinish(t *testing.T) {
	ctx := context.Background()
	user := &model.User{ID: 1, Status: model.StatusFinish}

	reply, err := NewRegistration(&mockStore{}, user).Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, msgAlreadyRegistered, reply.Text)
	assert.Equal(t, model.StatusFinish, user.Status)
}

func TestRegistrationStartRewindsUnfinished(t *testing.T) {
	ctx := context.Background()
	user := &model.User{ID: 1, Status: model.StatusEnterLogin}

	reply, err := NewRegistration(&mockStore{}, user).Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, msgEnterName, reply.Text)
	assert.Equal(t, model.StatusEnterName, user.Status)
}

func TestRegistrationSaveErrorPropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")
	store := &mockStore{
		saveUser: func(context.Context, *model.User) error { return boom },
	}
	user := &model.User{ID: 1}

	_, err := NewRegistration(store, user).Start(ctx)
	require.ErrorIs(t, err, boom)
}

func TestCreateHappyPath(t *testing.T) {
	ctx := context.Background()
	purged := 0
	tasks := map[int64]*model.Task{}
	store := &mockStore{
		purgeDraftTasks: func(context.Context, int64) error {
			purged++
			return nil
		},
		saveUserAndTask: func(_ context.Context, u *model.User, task *model.Task) error {
			if task.ID == 0 {
				task.ID = 7
			}
			u.TaskID = &task.ID
			copied := *task
			tasks[task.ID] = &copied
			return nil
		},
		task: func(_ context.Context, _, taskID int64) (*model.Task, error) {
			if task, ok := tasks[taskID]; ok {
				copied := *task
				return &copied, nil
			}
			return nil, nil
		},
	}
	user := &model.User{ID: 1, Status: model.StatusFinish}
	create := NewCreate(store, user)

	reply, err := create.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
	assert.Equal(t, msgEnterTitle, reply.Text)
	assert.Equal(t, model.StatusCreateTaskTitle, user.Status)

	reply, err = create.Continue(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, msgEnterDescription, reply.Text)
	assert.Equal(t, model.StatusCreateTaskDescription, user.Status)
	require.NotNil(t, user.TaskID)
	assert.False(t, tasks[*user.TaskID].IsVisible)

	reply, err = create.Continue(ctx, "two liters")
	require.NoError(t, err)
	assert.Equal(t, msgTaskCreated, reply.Text)
	assert.Equal(t, model.StatusFinish, user.Status)
	final := tasks[*user.TaskID]
	assert.True(t, final.IsVisible)
	require.NotNil(t, final.Description)
	assert.Equal(t, "two liters", *final.Description)
}

func TestCreateRejectsOverlongTitle(t *testing.T) {
	ctx := context.Background()
	long := make([]byte, model.TitleMaxLen+1)
	for i := range long {
		long[i] = 'a'
	}
	user := &model.User{ID: 1, Status: model.StatusCreateTaskTitle}

	reply, err := NewCreate(&mockStore{}, user).Continue(ctx, string(long))
	require.NoError(t, err)
	assert.Equal(t, msgTitleRejected, reply.Text)
	assert.Equal(t, model.StatusCreateTaskTitle, user.Status)
}

func TestCreateAcceptsMultibyteTitleAtLimit(t *testing.T) {
	ctx := context.Background()
	// 60 Cyrillic runes exceed 100 bytes but stay inside the rune limit.
	title := strings.Repeat("я", 60)
	store := &mockStore{}
	user := &model.User{ID: 1, Status: model.StatusCreateTaskTitle}

	reply, err := NewCreate(store, user).Continue(ctx, title)
	require.NoError(t, err)
	assert.Equal(t, msgEnterDescription, reply.Text)
	assert.Equal(t, model.StatusCreateTaskDescription, user.Status)
}

func TestCreateRejectsOverlongDescription(t *testing.T) {
	ctx := context.Background()
	long := make([]byte, model.DescriptionMaxLen+1)
	for i := range long {
		long[i] = 'b'
	}
	user := &model.User{ID: 1, Status: model.StatusCreateTaskDescription}

	reply, err := NewCreate(&mockStore{}, user).Continue(ctx, string(long))
	require.NoError(t, err)
	assert.Equal(t, msgDescriptionRejected, reply.Text)
	assert.Equal(t, model.StatusCreateTaskDescription, user.Status)
}

func TestCreateDescriptionWithoutActiveTask(t *testing.T) {
	ctx := context.Background()
	user := &model.User{ID: 1, Status: model.StatusCreateTaskDescription}

	_, err := NewCreate(&mockStore{}, user).Continue(ctx, "orphan text")
	require.Error(t, err)
}

func TestUpdateHappyPath(t *testing.T) {
	ctx := context.Background()
	desc := "old description"
	stored := &model.Task{ID: 5, UserID: 1, Title: "old", Description: &desc, IsVisible: true}
	store := &mockStore{
		task: func(_ context.Context, userID, taskID int64) (*model.Task, error) {
			if userID == stored.UserID && taskID == stored.ID {
				copied := *stored
				return &copied, nil
			}
			return nil, nil
		},
		saveUserAndTask: func(_ context.Context, u *model.User, task *model.Task) error {
			*stored = *task
			u.TaskID = &task.ID
			return nil
		},
	}
	taskID := stored.ID
	user := &model.User{ID: 1, Status: model.StatusFinish, TaskID: &taskID}
	update := NewUpdate(store, user)

	reply, err := update.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, msgEnterNewTitle, reply.Text)
	assert.Equal(t, model.StatusUpdateTaskTitle, user.Status)

	reply, err = update.Continue(ctx, "new title")
	require.NoError(t, err)
	assert.Equal(t, msgEnterNewDescription, reply.Text)
	assert.Equal(t, "new title", stored.Title)

	reply, err = update.Continue(ctx, "new description")
	require.NoError(t, err)
	assert.Equal(t, msgTaskUpdated, reply.Text)
	assert.Equal(t, model.StatusFinish, user.Status)
	require.NotNil(t, stored.Description)
	assert.Equal(t, "new description", *stored.Description)
	assert.True(t, stored.IsVisible)
}

func TestUpdateMissingTask(t *testing.T) {
	ctx := context.Background()
	taskID := int64(404)
	user := &model.User{ID: 1, Status: model.StatusUpdateTaskTitle, TaskID: &taskID}

	_, err := NewUpdate(&mockStore{}, user).Continue(ctx, "anything")
	require.Error(t, err)
}

func TestValidName(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Alice", true},
		{"  padded  ", true},
		{"", false},
		{"   ", false},
		{"/start", false},
		{"/create task", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidName(tc.text), "text %q", tc.text)
	}
}
