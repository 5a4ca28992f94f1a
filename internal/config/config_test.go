package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
telegram:
  token: "123:abc"
  admin_id: 99
  staff_chat_id: -1001
  run_mode: longpoll

database:
  host: localhost
  port: "5432"
  user: bot
  name: bot
  sslmode: disable

bot:
  courses_post_id: 10
  subject_posts:
    "Matematika": 11
    "Fizika": 12
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, int64(99), cfg.Core.Telegram.AdminID)
	assert.Equal(t, int64(-1001), cfg.Core.Telegram.StaffChatID)
	assert.Equal(t, 10, cfg.Bot.CoursesPostID)
	assert.Equal(t, 11, cfg.Bot.SubjectPosts["Matematika"])
	// unset fields pick up defaults
	assert.NotEmpty(t, cfg.Bot.ManagerContact)
	assert.NotEmpty(t, cfg.Bot.AboutLink)
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Core.Telegram.AdminID = 1
	cfg.Core.Telegram.StaffChatID = -1

	require.NoError(t, Normalize(cfg))
	assert.NotEmpty(t, cfg.Bot.SubjectPosts)
	assert.NotZero(t, cfg.Bot.CoursesPostID)
}

func TestNormalizeRequiresAdminID(t *testing.T) {
	cfg := &Config{}
	cfg.Core.Telegram.StaffChatID = -1

	err := Normalize(cfg)
	assert.ErrorContains(t, err, "admin_id")
}

func TestNormalizeRequiresStaffChatID(t *testing.T) {
	cfg := &Config{}
	cfg.Core.Telegram.AdminID = 1

	err := Normalize(cfg)
	assert.ErrorContains(t, err, "staff_chat_id")
}
