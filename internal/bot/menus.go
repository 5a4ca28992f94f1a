package bot

import (
	"sort"

	tele "gopkg.in/telebot.v4"

	"mijozbot/core/telegram/keyboard"
)

// Menu button labels. These are the bot's whole text command surface;
// everything except /admin is a keyboard button, not a formal command.
const (
	btnHome      = "🏠 Bosh menyu"
	btnCourses   = "📚 Kurslar haqida"
	btnContact   = "📞 Bog‘lanish"
	btnInfo      = "ℹ️ Ma'lumot"
	btnSubjects  = "📘 Fanlar"
	btnBack      = "⬅️ Ortga"
	btnRegister  = "✍️ Ro'yxatdan o'tish"
	btnCancel    = "⬅️ Bekor qilish"
	btnSendPhone = "📞 Raqamni yuborish"
)

// Callback keys for the admin panel.
const (
	cbAdminReport       = "admin_report"
	cbAdminBroadcastAll = "admin_broadcast_all"
	cbAdminBroadcastOne = "admin_broadcast_one"
)

func mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnCourses},
		[]string{btnContact, btnInfo},
		[]string{btnSubjects},
		[]string{btnHome},
	)
}

func contactMenu() *tele.ReplyMarkup {
	return keyboard.ContactRequest(btnSendPhone)
}

func confirmMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{btnRegister, btnCancel})
}

// subjectsMenu lays out the configured subjects three per row with a back
// button underneath. Labels are sorted so the layout is stable.
func subjectsMenu(subjects map[string]int) *tele.ReplyMarkup {
	names := make([]string, 0, len(subjects))
	for name := range subjects {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows [][]string
	for i := 0; i < len(names); i += 3 {
		end := i + 3
		if end > len(names) {
			end = len(names)
		}
		rows = append(rows, names[i:end])
	}
	rows = append(rows, []string{btnBack})
	return keyboard.ReplyButtons(rows...)
}

func adminPanel() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "📊 Hisobot", Unique: cbAdminReport},
		{Text: "📤 Umumiy xabar yuborish", Unique: cbAdminBroadcastAll},
		{Text: "📨 Yakka xabar yuborish", Unique: cbAdminBroadcastOne},
	})
}
