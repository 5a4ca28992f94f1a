package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mijozbot/internal/storage"
)

func seedUsers(t *testing.T, repo *fakeUsersRepo, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, repo.Insert(context.Background(), testUser(id)))
	}
}

func TestAdminReportListsUsers(t *testing.T) {
	app, _, repo := newTestApp(t)
	seedUsers(t, repo, 1, 2, 3)

	c := callbackUpdate(testAdminID, cbAdminReport)
	require.NoError(t, app.handleAdminReport(c))

	reply := c.lastReply()
	assert.Contains(t, reply, "soni: 3")
	assert.Contains(t, reply, "🆔 1")
	assert.Contains(t, reply, "🆔 3")
}

func TestBroadcastAllFlow(t *testing.T) {
	app, tr, repo := newTestApp(t)
	seedUsers(t, repo, 1, 2, 3)

	require.NoError(t, app.handleBroadcastAll(callbackUpdate(testAdminID, cbAdminBroadcastAll)))
	assert.Equal(t, StateAdminWaitingMessage, app.fsm.GetState(testAdminID))

	c := textUpdate(testAdminID, "yangi kurslar boshlandi")
	require.NoError(t, app.handleAdminBroadcastMessage(c))

	require.Len(t, tr.texts, 3)
	for _, id := range []int64{1, 2, 3} {
		msgs := tr.textsTo(id)
		require.Len(t, msgs, 1)
		assert.Equal(t, "yangi kurslar boshlandi", msgs[0])
	}
	assert.Equal(t, "✅ Xabar yuborildi!", c.lastReply())
	assert.False(t, app.fsm.InProgress(testAdminID))
}

func TestBroadcastPartialFailureReported(t *testing.T) {
	app, tr, repo := newTestApp(t)
	seedUsers(t, repo, 1, 2, 3)
	tr.fail[2] = errors.New("forbidden: bot was blocked by the user")

	require.NoError(t, app.handleBroadcastAll(callbackUpdate(testAdminID, cbAdminBroadcastAll)))

	c := textUpdate(testAdminID, "hello")
	require.NoError(t, app.handleAdminBroadcastMessage(c))

	assert.Len(t, tr.textsTo(1), 1)
	assert.Empty(t, tr.textsTo(2))
	assert.Len(t, tr.textsTo(3), 1)

	assert.Contains(t, c.lastReply(), "Yetkazildi: 2")
	assert.Contains(t, c.lastReply(), "xatolik: 1")
	assert.False(t, app.fsm.InProgress(testAdminID))
}

func TestBroadcastOneFlow(t *testing.T) {
	app, tr, repo := newTestApp(t)
	seedUsers(t, repo, 1, 2)

	require.NoError(t, app.handleBroadcastOne(callbackUpdate(testAdminID, cbAdminBroadcastOne)))
	assert.Equal(t, StateAdminEnteringUserID, app.fsm.GetState(testAdminID))

	require.NoError(t, app.handleAdminEnterUserID(textUpdate(testAdminID, "2")))
	assert.Equal(t, StateAdminWaitingMessage, app.fsm.GetState(testAdminID))

	c := textUpdate(testAdminID, "salom")
	require.NoError(t, app.handleAdminBroadcastMessage(c))

	assert.Empty(t, tr.textsTo(1))
	require.Len(t, tr.textsTo(2), 1)
	assert.Equal(t, "salom", tr.textsTo(2)[0])
	assert.Equal(t, "✅ Xabar yuborildi!", c.lastReply())
}

func TestBroadcastOneRepromptsOnBadID(t *testing.T) {
	app, _, _ := newTestApp(t)

	require.NoError(t, app.handleBroadcastOne(callbackUpdate(testAdminID, cbAdminBroadcastOne)))

	c := textUpdate(testAdminID, "not-a-number")
	require.NoError(t, app.handleAdminEnterUserID(c))

	assert.Equal(t, StateAdminEnteringUserID, app.fsm.GetState(testAdminID))
	assert.Contains(t, c.lastReply(), "raqamlardan iborat")
}

func TestBroadcastOneUnknownIDWarnsButProceeds(t *testing.T) {
	app, tr, _ := newTestApp(t)

	require.NoError(t, app.handleBroadcastOne(callbackUpdate(testAdminID, cbAdminBroadcastOne)))

	c := textUpdate(testAdminID, "777")
	require.NoError(t, app.handleAdminEnterUserID(c))

	assert.Contains(t, c.replies[0], "topilmadi")
	assert.Equal(t, StateAdminWaitingMessage, app.fsm.GetState(testAdminID))

	require.NoError(t, app.handleAdminBroadcastMessage(textUpdate(testAdminID, "test")))
	require.Len(t, tr.textsTo(777), 1)
}

func TestHomeButtonAbandonsBroadcastComposition(t *testing.T) {
	app, tr, repo := newTestApp(t)
	seedUsers(t, repo, 1, 2)

	require.NoError(t, app.handleBroadcastAll(callbackUpdate(testAdminID, cbAdminBroadcastAll)))

	c := textUpdate(testAdminID, btnHome)
	require.NoError(t, app.handleAdminBroadcastMessage(c))

	assert.False(t, app.fsm.InProgress(testAdminID))
	assert.Empty(t, tr.textsTo(1))
	assert.Empty(t, tr.textsTo(2))
	assert.Contains(t, c.lastReply(), "Salom")
}

func TestBroadcastPhotoPayload(t *testing.T) {
	app, tr, repo := newTestApp(t)
	seedUsers(t, repo, 1)

	require.NoError(t, app.handleBroadcastAll(callbackUpdate(testAdminID, cbAdminBroadcastAll)))

	c := photoUpdate(testAdminID, "file-123", "caption")
	require.NoError(t, app.handleAdminBroadcastMessage(c))

	require.Len(t, tr.photos, 1)
	assert.Equal(t, int64(1), tr.photos[0].ChatID)
	assert.Equal(t, "file-123", tr.photos[0].Text)
}

func testUser(id int64) storage.User {
	return storage.User{
		UserID:   id,
		Username: fmt.Sprintf("user%d", id),
		Name:     fmt.Sprintf("User %d", id),
	}
}
