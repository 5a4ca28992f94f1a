package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type apiCall struct {
	Recipient string
	What      interface{}
}

// fakeAPI records the bot API calls the live transport issues.
type fakeAPI struct {
	tele.API

	sent     []apiCall
	forwards []apiCall
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	f.sent = append(f.sent, apiCall{Recipient: to.Recipient(), What: what})
	return &tele.Message{}, nil
}

func (f *fakeAPI) Forward(to tele.Recipient, msg tele.Editable, _ ...interface{}) (*tele.Message, error) {
	f.forwards = append(f.forwards, apiCall{Recipient: to.Recipient(), What: msg})
	return &tele.Message{}, nil
}

func TestBotTransportSends(t *testing.T) {
	api := &fakeAPI{}
	tr := &botTransport{bot: api}
	ctx := context.Background()

	require.NoError(t, tr.SendText(ctx, 5, "salom"))
	require.NoError(t, tr.SendPhoto(ctx, 5, "photo-1", "cap"))
	require.NoError(t, tr.SendVideo(ctx, 5, "video-1", "cap"))

	require.Len(t, api.sent, 3)
	assert.Equal(t, "5", api.sent[0].Recipient)
	assert.Equal(t, "salom", api.sent[0].What)

	photo, ok := api.sent[1].What.(*tele.Photo)
	require.True(t, ok)
	assert.Equal(t, "photo-1", photo.FileID)

	video, ok := api.sent[2].What.(*tele.Video)
	require.True(t, ok)
	assert.Equal(t, "video-1", video.FileID)
}

func TestBotTransportForward(t *testing.T) {
	api := &fakeAPI{}
	tr := &botTransport{bot: api}

	require.NoError(t, tr.Forward(context.Background(), 5, testStaffChat, 982))

	require.Len(t, api.forwards, 1)
	assert.Equal(t, "5", api.forwards[0].Recipient)

	stored, ok := api.forwards[0].What.(tele.StoredMessage)
	require.True(t, ok)
	assert.Equal(t, "982", stored.MessageID)
	assert.Equal(t, testStaffChat, stored.ChatID)
}

func TestTransportForFallsBackToBotAPI(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.transport = nil

	api := &fakeAPI{}
	c := textUpdate(5, btnCourses)
	c.api = api

	tr := app.transportFor(c)
	require.NoError(t, tr.SendText(context.Background(), 5, "hi"))
	require.Len(t, api.sent, 1)
}
