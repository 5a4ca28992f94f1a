package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"mijozbot/core/telegram/router"
)

func textRouteHandler(t *testing.T, app *App) tele.HandlerFunc {
	t.Helper()
	routes := router.TextRoutes(app.fsm, app.buildRegistry(), router.TextOptions{
		AdminID: app.cfg.Core.Telegram.AdminID,
	})
	for _, r := range routes {
		if r.Endpoint == tele.OnText {
			return r.Handler
		}
	}
	t.Fatal("no OnText route")
	return nil
}

func callbackRouteHandler(t *testing.T, app *App) tele.HandlerFunc {
	t.Helper()
	return router.CallbackRoute(app.buildRegistry(), router.CallbackOptions{}).Handler
}

func TestRoutingActiveFlowShadowsGlobalButtons(t *testing.T) {
	app, tr, _ := newTestApp(t)
	handler := textRouteHandler(t, app)

	require.NoError(t, app.handleShowSubjects(textUpdate(5, btnSubjects)))

	// mid-flow the courses button belongs to the flow handler, which
	// ignores it instead of forwarding the courses post
	require.NoError(t, handler(textUpdate(5, btnCourses)))
	assert.Empty(t, tr.forwards)

	// once idle, the same text reaches the global button rule
	app.fsm.Clear(5)
	require.NoError(t, handler(textUpdate(5, btnCourses)))
	require.Len(t, tr.forwards, 1)
	assert.Equal(t, app.cfg.Bot.CoursesPostID, tr.forwards[0].MessageID)
}

func TestRoutingSubjectButtonOutsideFlow(t *testing.T) {
	app, _, _ := newTestApp(t)
	handler := textRouteHandler(t, app)

	require.NoError(t, handler(textUpdate(5, "Biologiya")))

	assert.Equal(t, StateCollectingSubjects, app.fsm.GetState(5))
	assert.Len(t, app.subjectSet(5), 1)
}

func TestRoutingAdminCommandGated(t *testing.T) {
	app, _, _ := newTestApp(t)
	handler := textRouteHandler(t, app)

	c := textUpdate(5, "/admin")
	require.NoError(t, handler(c))
	assert.Empty(t, c.replies, "non-admin must not reach the panel")

	adminCtx := textUpdate(testAdminID, "/admin")
	require.NoError(t, handler(adminCtx))
	assert.Contains(t, adminCtx.lastReply(), "Admin paneliga")
}

func TestRoutingStartCommand(t *testing.T) {
	app, _, repo := newTestApp(t)
	handler := textRouteHandler(t, app)

	c := textUpdate(5, "/start")
	require.NoError(t, handler(c))

	_, ok := repo.users[5]
	assert.True(t, ok)
	assert.Contains(t, c.lastReply(), "Salom")
}

func TestRoutingUnknownTextDropped(t *testing.T) {
	app, tr, _ := newTestApp(t)
	handler := textRouteHandler(t, app)

	c := textUpdate(5, "qwerty")
	require.NoError(t, handler(c))

	assert.Empty(t, c.replies)
	assert.Empty(t, tr.texts)
	assert.False(t, app.fsm.InProgress(5))
}

func TestRoutingAdminCallbackGated(t *testing.T) {
	app, _, repo := newTestApp(t)
	seedUsers(t, repo, 1)
	handler := callbackRouteHandler(t, app)

	c := callbackUpdate(5, cbAdminReport)
	require.NoError(t, handler(c))
	assert.Empty(t, c.replies)

	adminCtx := callbackUpdate(testAdminID, cbAdminReport)
	require.NoError(t, handler(adminCtx))
	assert.Contains(t, adminCtx.lastReply(), "soni: 1")
}

func TestRoutingUnknownCallbackFallsBack(t *testing.T) {
	app, _, _ := newTestApp(t)
	handler := callbackRouteHandler(t, app)

	c := callbackUpdate(5, "no_such_action")
	require.NoError(t, handler(c))
	assert.False(t, app.fsm.InProgress(5))
}

func TestTelegramRunOptionsWiring(t *testing.T) {
	app, _, _ := newTestApp(t)

	opts, err := app.TelegramRunOptions()
	require.NoError(t, err)

	require.NotNil(t, opts.Registry)
	_, _, ok := opts.Registry.LookupCommand("/start")
	assert.True(t, ok)
	_, cmd, ok := opts.Registry.LookupCommand("/admin")
	require.True(t, ok)
	assert.True(t, cmd.AdminOnly)

	_, ok = opts.Registry.LookupButton(btnSubjects)
	assert.True(t, ok)
	_, ok = opts.Registry.GetCallback(cbAdminBroadcastAll)
	assert.True(t, ok)

	endpoints := make(map[interface{}]bool)
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	assert.True(t, endpoints[tele.OnText])
	assert.True(t, endpoints[tele.OnPhoto])
	assert.True(t, endpoints[tele.OnCallback])
	assert.True(t, endpoints[tele.OnContact])
	assert.True(t, endpoints["/start"])
}
