package bot

import (
	"log/slog"
	"sort"

	tele "gopkg.in/telebot.v4"

	"mijozbot/core/logger"
	tghelpers "mijozbot/core/telegram/helpers"
)

// handleShowSubjects enters the subject collection flow with an empty set.
func (a *App) handleShowSubjects(c tele.Context) error {
	userID := c.Sender().ID
	a.fsm.Enter(userID, StateCollectingSubjects)
	a.fsm.SetTemp(userID, tempSubjects, map[string]struct{}{})

	return tghelpers.SendText(c,
		"Qaysi fanlarga qiziqasiz? Tanlab bo‘lgach '⬅️ Ortga' ni bosing.",
		&tele.SendOptions{ReplyMarkup: subjectsMenu(a.cfg.Bot.SubjectPosts)},
	)
}

// handleCollectingSubjects sub-dispatches all input while the user is
// picking subjects. State-scoped, so subject names and the back button can
// never be shadowed by unrelated global matchers.
func (a *App) handleCollectingSubjects(c tele.Context) error {
	text := c.Text()
	switch {
	case text == btnHome:
		return a.handleStart(c)
	case text == btnSubjects:
		return a.handleShowSubjects(c)
	case a.isSubject(text):
		return a.chooseSubject(c, text)
	case text == btnBack:
		return a.finishSubjects(c)
	case text == btnRegister:
		return a.handleAskContact(c)
	case text == btnCancel:
		return a.handleCancel(c)
	default:
		ctx := tghelpers.BuildContext(c)
		logger.Debug(ctx, "flow.subjects", "input.skip",
			slog.Int64("user_id", c.Sender().ID),
		)
		return nil
	}
}

func (a *App) isSubject(text string) bool {
	_, ok := a.cfg.Bot.SubjectPosts[text]
	return ok
}

// chooseSubject adds the subject to the set (idempotent) and forwards its
// reference post to the user.
func (a *App) chooseSubject(c tele.Context, subject string) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	// A subject press outside the flow starts a fresh collection.
	if a.fsm.GetState(userID) != StateCollectingSubjects {
		a.fsm.Enter(userID, StateCollectingSubjects)
	}

	// Copy-on-write under the manager's lock. Published sets are never
	// mutated, so concurrent readers need no coordination.
	count := 0
	a.fsm.UpdateTemp(userID, tempSubjects, func(old interface{}) interface{} {
		prev, _ := old.(map[string]struct{})
		next := make(map[string]struct{}, len(prev)+1)
		for name := range prev {
			next[name] = struct{}{}
		}
		next[subject] = struct{}{}
		count = len(next)
		return next
	})

	logger.Debug(ctx, "flow.subjects", "subject.chosen",
		slog.Int64("user_id", userID),
		slog.String("subject", subject),
		slog.Int("count", count),
	)

	postID := a.cfg.Bot.SubjectPosts[subject]
	if postID == 0 {
		return tghelpers.SendText(c, "✅ "+subject+" tanlandi.")
	}
	tg := a.cfg.Core.Telegram
	return a.transportFor(c).Forward(ctx, c.Chat().ID, tg.StaffChatID, postID)
}

// finishSubjects leaves the flow. A non-empty selection is stashed for the
// registration handoff and the user is prompted to register; an empty one
// just returns to the main menu. The session is cleared either way.
func (a *App) finishSubjects(c tele.Context) error {
	userID := c.Sender().ID
	subjects := a.subjectSet(userID)
	a.fsm.Clear(userID)

	if len(subjects) == 0 {
		return tghelpers.SendText(c, "Asosiy menyuga qaytdingiz.", &tele.SendOptions{ReplyMarkup: mainMenu()})
	}

	names := make([]string, 0, len(subjects))
	for name := range subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	a.subjectCache.Put(userID, names)

	return tghelpers.SendText(c,
		"✅ Fanlar tanlandi. Endi ro'yxatdan o'tishingiz mumkin.",
		&tele.SendOptions{ReplyMarkup: confirmMenu()},
	)
}

func (a *App) subjectSet(userID int64) map[string]struct{} {
	if v, ok := a.fsm.GetTemp(userID, tempSubjects); ok {
		if set, ok := v.(map[string]struct{}); ok {
			return set
		}
	}
	return map[string]struct{}{}
}
