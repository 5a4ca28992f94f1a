package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"mijozbot/core/logger"
	tghelpers "mijozbot/core/telegram/helpers"
	"mijozbot/internal/broadcast"
	"mijozbot/internal/storage"
)

// handleAdminPanel shows the inline admin panel. It sets no session state;
// the chosen mode callback does.
func (a *App) handleAdminPanel(c tele.Context) error {
	return tghelpers.SendText(c, "Admin paneliga xush kelibsiz:", &tele.SendOptions{ReplyMarkup: adminPanel()})
}

// handleAdminReport lists every registered user.
func (a *App) handleAdminReport(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	users, err := a.users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 Umumiy foydalanuvchilar soni: %d\n", len(users))
	for _, u := range users {
		username := u.Username
		if username == "" {
			username = "username yo'q"
		}
		fmt.Fprintf(&b, "\n🆔 %d - %s (@%s)", u.UserID, u.Name, username)
	}
	return tghelpers.SendText(c, b.String())
}

// handleBroadcastAll arms a broadcast to every registered user.
func (a *App) handleBroadcastAll(c tele.Context) error {
	userID := c.Sender().ID
	a.fsm.Enter(userID, StateAdminWaitingMessage)
	a.fsm.SetTemp(userID, tempMode, modeAll)
	return tghelpers.SendText(c, "✍️ Yuboriladigan xabar (matn, rasm, yoki video) ni kiriting:")
}

// handleBroadcastOne starts the single-recipient broadcast flow.
func (a *App) handleBroadcastOne(c tele.Context) error {
	a.fsm.Enter(c.Sender().ID, StateAdminEnteringUserID)
	return tghelpers.SendText(c, "🆔 Foydalanuvchi ID sini kiriting:")
}

// handleAdminEnterUserID reads the broadcast target id. Non-numeric input
// re-prompts and keeps the state; the flow only advances on a valid id.
func (a *App) handleAdminEnterUserID(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == btnHome {
		return a.handleStart(c)
	}

	targetID, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return tghelpers.SendText(c, "🆔 ID raqamlardan iborat bo'lishi kerak. Qaytadan kiriting:")
	}

	ctx := tghelpers.BuildContext(c)
	if _, err := tghelpers.CurrentUser(ctx, a.users, targetID); err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("lookup target %d: %w", targetID, err)
		}
		if err := tghelpers.SendText(c, "⚠️ Bu ID ro'yxatda topilmadi, baribir yuborishga harakat qilinadi."); err != nil {
			return err
		}
	}

	userID := c.Sender().ID
	a.fsm.Enter(userID, StateAdminWaitingMessage)
	a.fsm.SetTemp(userID, tempMode, modeOne)
	a.fsm.SetTemp(userID, tempTargetID, targetID)
	return tghelpers.SendText(c, "✍️ Yuboriladigan xabarni kiriting:")
}

// handleAdminBroadcastMessage is the terminal broadcast transition: it fans
// the admin's message out to the recipient list and clears the session
// unconditionally, partial delivery failures included.
func (a *App) handleAdminBroadcastMessage(c tele.Context) error {
	userID := c.Sender().ID
	if c.Text() == btnHome {
		return a.handleStart(c)
	}
	defer a.fsm.Clear(userID)

	ctx := tghelpers.BuildContext(c)
	recipients, err := a.broadcastRecipients(c)
	if err != nil {
		return err
	}

	payload := broadcastPayload(c.Message())
	results := broadcast.Dispatch(ctx, a.transportFor(c), recipients, payload)
	delivered, failed := broadcast.Summarize(results)

	logger.Info(ctx, "flow.admin", "broadcast.done",
		slog.Int64("user_id", userID),
		slog.Int("recipients", len(recipients)),
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
	)

	reply := "✅ Xabar yuborildi!"
	if failed > 0 {
		reply = fmt.Sprintf("✅ Xabar yuborildi! Yetkazildi: %d, xatolik: %d", delivered, failed)
	}
	return tghelpers.SendText(c, reply)
}

func (a *App) broadcastRecipients(c tele.Context) ([]int64, error) {
	userID := c.Sender().ID
	mode, _ := a.fsm.GetTemp(userID, tempMode)
	if mode == modeOne {
		targetID, ok := a.fsm.GetTempInt64(userID, tempTargetID)
		if !ok {
			return nil, fmt.Errorf("broadcast: missing target user id")
		}
		return []int64{targetID}, nil
	}

	ctx := tghelpers.BuildContext(c)
	users, err := a.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("broadcast recipients: %w", err)
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	return ids, nil
}

// broadcastPayload maps the admin's message onto the fan-out payload:
// text, then photo, then video.
func broadcastPayload(msg *tele.Message) broadcast.Payload {
	if msg == nil {
		return broadcast.Payload{}
	}
	switch {
	case msg.Text != "":
		return broadcast.Payload{Text: msg.Text}
	case msg.Photo != nil:
		return broadcast.Payload{PhotoID: msg.Photo.FileID, Caption: msg.Caption}
	case msg.Video != nil:
		return broadcast.Payload{VideoID: msg.Video.FileID, Caption: msg.Caption}
	default:
		return broadcast.Payload{}
	}
}
