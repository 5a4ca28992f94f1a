package bot

import (
	tele "gopkg.in/telebot.v4"

	coretelegram "mijozbot/core/telegram"
	"mijozbot/core/telegram/commands"
	"mijozbot/core/telegram/middleware"
	"mijozbot/core/telegram/router"
)

// buildRegistry wires commands, the ordered button rule table, and the
// admin callbacks. Button registration order is the global routing
// priority for text updates.
func (a *App) buildRegistry() *coretelegram.Registry {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Botni ishga tushirish",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     a.handleAdminPanel,
		Description: "Admin paneli",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.RegisterButton("home", btnHome, a.handleStart)
	reg.RegisterButton("show_subjects", btnSubjects, a.handleShowSubjects)
	reg.RegisterButtonMatch("choose_subject", a.isSubject, a.handleCollectingSubjects)
	reg.RegisterButton("finish_subjects", btnBack, a.finishSubjects)
	reg.RegisterButton("ask_contact", btnRegister, a.handleAskContact)
	reg.RegisterButton("cancel", btnCancel, a.handleCancel)
	reg.RegisterButton("courses_info", btnCourses, a.handleCoursesInfo)
	reg.RegisterButton("contact_info", btnContact, a.handleContactInfo)
	reg.RegisterButton("about_info", btnInfo, a.handleAboutInfo)

	adminOnly := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	_ = reg.RegisterCallback(cbAdminReport, adminOnly(a.handleAdminReport))
	_ = reg.RegisterCallback(cbAdminBroadcastAll, adminOnly(a.handleBroadcastAll))
	_ = reg.RegisterCallback(cbAdminBroadcastOne, adminOnly(a.handleBroadcastOne))

	return reg
}

// TelegramRunOptions assembles the bot runtime for the cmd runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()
	reg := a.buildRegistry()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.fsm, reg, router.TextOptions{
		AdminID: core.Telegram.AdminID,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, coretelegram.Route{
		Endpoint: tele.OnContact,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(a.handleContact)),
	})

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Routes:      routes,
		Middlewares: coretelegram.DefaultMiddlewares(core, nil),
	}, nil
}
