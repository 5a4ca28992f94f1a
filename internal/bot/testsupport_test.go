package bot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"mijozbot/core/telegram/state"
	"mijozbot/internal/config"
	"mijozbot/internal/service"
	"mijozbot/internal/storage"
)

const (
	testAdminID   = int64(99)
	testStaffChat = int64(-1001)
)

// fakeUsersRepo is an in-memory registry with first-write-wins inserts.
type fakeUsersRepo struct {
	users map[int64]storage.User
	order []int64
	err   error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[int64]storage.User)}
}

func (r *fakeUsersRepo) Insert(_ context.Context, u storage.User) error {
	if r.err != nil {
		return r.err
	}
	if _, exists := r.users[u.UserID]; exists {
		return nil
	}
	r.users[u.UserID] = u
	r.order = append(r.order, u.UserID)
	return nil
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id int64) (storage.User, error) {
	if r.err != nil {
		return storage.User{}, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return storage.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) ListAll(_ context.Context) ([]storage.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]storage.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out, nil
}

type sentText struct {
	ChatID int64
	Text   string
}

type forwarded struct {
	ToChatID   int64
	FromChatID int64
	MessageID  int
}

// fakeTransport records outbound traffic and can fail per chat id.
// Safe for concurrent use so tests can exercise handlers in parallel.
type fakeTransport struct {
	mu       sync.Mutex
	texts    []sentText
	photos   []sentText // Text carries the file id
	videos   []sentText
	forwards []forwarded
	fail     map[int64]error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{fail: make(map[int64]error)}
}

func (t *fakeTransport) SendText(_ context.Context, chatID int64, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.fail[chatID]; err != nil {
		return err
	}
	t.texts = append(t.texts, sentText{ChatID: chatID, Text: text})
	return nil
}

func (t *fakeTransport) SendPhoto(_ context.Context, chatID int64, fileID, _ string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.fail[chatID]; err != nil {
		return err
	}
	t.photos = append(t.photos, sentText{ChatID: chatID, Text: fileID})
	return nil
}

func (t *fakeTransport) SendVideo(_ context.Context, chatID int64, fileID, _ string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.fail[chatID]; err != nil {
		return err
	}
	t.videos = append(t.videos, sentText{ChatID: chatID, Text: fileID})
	return nil
}

func (t *fakeTransport) Forward(_ context.Context, toChatID, fromChatID int64, messageID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.fail[toChatID]; err != nil {
		return err
	}
	t.forwards = append(t.forwards, forwarded{ToChatID: toChatID, FromChatID: fromChatID, MessageID: messageID})
	return nil
}

func (t *fakeTransport) textsTo(chatID int64) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for _, m := range t.texts {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

// fakeTeleContext implements the subset of tele.Context the handlers touch.
// Unimplemented methods panic through the embedded nil interface.
type fakeTeleContext struct {
	tele.Context

	update  tele.Update
	store   map[string]interface{}
	replies []string
	markups []interface{}
	api     tele.API
}

func (f *fakeTeleContext) Update() tele.Update { return f.update }

func (f *fakeTeleContext) Bot() tele.API { return f.api }

func (f *fakeTeleContext) Message() *tele.Message { return f.update.Message }

func (f *fakeTeleContext) Callback() *tele.Callback { return f.update.Callback }

func (f *fakeTeleContext) Sender() *tele.User {
	if f.update.Callback != nil {
		return f.update.Callback.Sender
	}
	if f.update.Message != nil {
		return f.update.Message.Sender
	}
	return nil
}

func (f *fakeTeleContext) Chat() *tele.Chat {
	if f.update.Message != nil {
		return f.update.Message.Chat
	}
	if f.update.Callback != nil && f.update.Callback.Message != nil {
		return f.update.Callback.Message.Chat
	}
	return nil
}

func (f *fakeTeleContext) Text() string {
	if f.update.Message == nil {
		return ""
	}
	return f.update.Message.Text
}

func (f *fakeTeleContext) Send(what interface{}, opts ...interface{}) error {
	if text, ok := what.(string); ok {
		f.replies = append(f.replies, text)
	}
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok && so.ReplyMarkup != nil {
			f.markups = append(f.markups, so.ReplyMarkup)
		}
	}
	return nil
}

func (f *fakeTeleContext) Respond(...*tele.CallbackResponse) error { return nil }

func (f *fakeTeleContext) Get(key string) interface{} { return f.store[key] }

func (f *fakeTeleContext) Set(key string, val interface{}) {
	if f.store == nil {
		f.store = make(map[string]interface{})
	}
	f.store[key] = val
}

func (f *fakeTeleContext) lastReply() string {
	if len(f.replies) == 0 {
		return ""
	}
	return f.replies[len(f.replies)-1]
}

var updateSeq int

func textUpdate(userID int64, text string) *fakeTeleContext {
	updateSeq++
	u := &tele.User{ID: userID, FirstName: "Test", LastName: "User", Username: "testuser"}
	return &fakeTeleContext{update: tele.Update{
		ID:      updateSeq,
		Message: &tele.Message{Text: text, Sender: u, Chat: &tele.Chat{ID: userID}},
	}}
}

func contactUpdate(userID int64, phone string) *fakeTeleContext {
	updateSeq++
	u := &tele.User{ID: userID, FirstName: "Test", LastName: "User", Username: "testuser"}
	return &fakeTeleContext{update: tele.Update{
		ID: updateSeq,
		Message: &tele.Message{
			Sender:  u,
			Chat:    &tele.Chat{ID: userID},
			Contact: &tele.Contact{PhoneNumber: phone, UserID: userID},
		},
	}}
}

func photoUpdate(userID int64, fileID, caption string) *fakeTeleContext {
	updateSeq++
	u := &tele.User{ID: userID, FirstName: "Test", Username: "testuser"}
	return &fakeTeleContext{update: tele.Update{
		ID: updateSeq,
		Message: &tele.Message{
			Sender:  u,
			Chat:    &tele.Chat{ID: userID},
			Photo:   &tele.Photo{File: tele.File{FileID: fileID}},
			Caption: caption,
		},
	}}
}

func callbackUpdate(userID int64, unique string) *fakeTeleContext {
	updateSeq++
	u := &tele.User{ID: userID, FirstName: "Test", Username: "testuser"}
	return &fakeTeleContext{update: tele.Update{
		ID: updateSeq,
		Callback: &tele.Callback{
			Unique:  unique,
			Sender:  u,
			Message: &tele.Message{Chat: &tele.Chat{ID: userID}},
		},
	}}
}

func newTestApp(t *testing.T) (*App, *fakeTransport, *fakeUsersRepo) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Core.Telegram.AdminID = testAdminID
	cfg.Core.Telegram.StaffChatID = testStaffChat
	require.NoError(t, config.Normalize(cfg))

	repo := newFakeUsersRepo()
	tr := newFakeTransport()
	app := &App{
		cfg:          cfg,
		users:        service.NewUsers(repo),
		fsm:          state.NewMemoryManager(),
		subjectCache: state.NewStash(),
		transport:    tr,
	}
	app.registerFlows()
	return app, tr, repo
}
