package bot

import (
	"context"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"mijozbot/internal/broadcast"
)

// Transport is the narrow outbound surface flows and the broadcast
// dispatcher send through. Faults surface as plain errors and are handled
// where the caller decides, never swallowed here.
type Transport interface {
	broadcast.Sender
	Forward(ctx context.Context, toChatID, fromChatID int64, messageID int) error
}

type botTransport struct {
	bot tele.API
}

func (t *botTransport) SendText(_ context.Context, chatID int64, text string) error {
	_, err := t.bot.Send(tele.ChatID(chatID), text)
	return err
}

func (t *botTransport) SendPhoto(_ context.Context, chatID int64, fileID, caption string) error {
	photo := &tele.Photo{File: tele.File{FileID: fileID}, Caption: caption}
	_, err := t.bot.Send(tele.ChatID(chatID), photo)
	return err
}

func (t *botTransport) SendVideo(_ context.Context, chatID int64, fileID, caption string) error {
	video := &tele.Video{File: tele.File{FileID: fileID}, Caption: caption}
	_, err := t.bot.Send(tele.ChatID(chatID), video)
	return err
}

func (t *botTransport) Forward(_ context.Context, toChatID, fromChatID int64, messageID int) error {
	stored := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: fromChatID}
	_, err := t.bot.Forward(tele.ChatID(toChatID), stored)
	return err
}

// transportFor returns the injected transport if present (tests), otherwise
// one bound to the live bot behind the context.
func (a *App) transportFor(c tele.Context) Transport {
	if a.transport != nil {
		return a.transport
	}
	return &botTransport{bot: c.Bot()}
}
