package bot

import (
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"mijozbot/core/logger"
	tghelpers "mijozbot/core/telegram/helpers"
)

func senderName(u *tele.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// handleStart registers the sender in the user registry (first write wins),
// abandons any active flow, and shows the main menu.
func (a *App) handleStart(c tele.Context) error {
	user := c.Sender()
	ctx := tghelpers.BuildContext(c)

	if err := a.users.Register(ctx, user.ID, user.Username, senderName(user)); err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	a.fsm.Clear(user.ID)
	greeting := fmt.Sprintf("Salom, %s! Asosiy menyudasiz.", senderName(user))
	return tghelpers.SendText(c, greeting, &tele.SendOptions{ReplyMarkup: mainMenu()})
}

// handleCoursesInfo forwards the courses post from the staff channel.
func (a *App) handleCoursesInfo(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	tg := a.cfg.Core.Telegram
	return a.transportFor(c).Forward(ctx, c.Chat().ID, tg.StaffChatID, a.cfg.Bot.CoursesPostID)
}

func (a *App) handleContactInfo(c tele.Context) error {
	return tghelpers.SendText(c, "Biz bilan bog‘lanish uchun: "+a.cfg.Bot.ManagerContact)
}

func (a *App) handleAboutInfo(c tele.Context) error {
	return tghelpers.SendText(c, "Biz haqimizda: "+a.cfg.Bot.AboutLink)
}

// handleAskContact prompts the user to share their phone number.
func (a *App) handleAskContact(c tele.Context) error {
	return tghelpers.SendText(c,
		"Ro'yxatdan o'tish uchun telefon raqamingizni yuboring:",
		&tele.SendOptions{ReplyMarkup: contactMenu()},
	)
}

// handleContact completes registration from a shared contact, regardless of
// the sender's current state: it notifies the staff chat with the cached
// subject selection, then clears both the session and the cache.
func (a *App) handleContact(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Contact == nil {
		return nil
	}
	user := c.Sender()
	ctx := tghelpers.BuildContext(c)

	if err := tghelpers.SendText(c,
		"Rahmat! Siz bilan tez orada bog'lanamiz.",
		&tele.SendOptions{ReplyMarkup: mainMenu()},
	); err != nil {
		return err
	}

	username := user.Username
	if username == "" {
		username = "username yo'q"
	}

	var b strings.Builder
	b.WriteString("📲 Yangi ro'yxatdan o'tish:\n")
	fmt.Fprintf(&b, "👤 Ismi: %s\n", senderName(user))
	fmt.Fprintf(&b, "🔗 Username: @%s\n", username)
	fmt.Fprintf(&b, "🆔 ID: %d\n", user.ID)
	fmt.Fprintf(&b, "📞 Telefon: %s", msg.Contact.PhoneNumber)
	if subjects, ok := a.subjectCache.Get(user.ID); ok && len(subjects) > 0 {
		fmt.Fprintf(&b, "\n📘 Fanlar: %s", strings.Join(subjects, ", "))
	}

	tg := a.cfg.Core.Telegram
	if err := a.transportFor(c).SendText(ctx, tg.StaffChatID, b.String()); err != nil {
		logger.Error(ctx, "flow.register", "notify.fail",
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return err
	}

	a.fsm.Clear(user.ID)
	a.subjectCache.Clear(user.ID)
	logger.Info(ctx, "flow.register", "register.done",
		slog.Int64("user_id", user.ID),
	)
	return nil
}

// handleCancel returns the user to the main menu without side effects.
func (a *App) handleCancel(c tele.Context) error {
	a.fsm.Clear(c.Sender().ID)
	return tghelpers.SendText(c, "Asosiy menyuga qaytdingiz.", &tele.SendOptions{ReplyMarkup: mainMenu()})
}
