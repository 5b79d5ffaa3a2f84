package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "abc")
	t.Setenv("GUILD_ID", "123")
	t.Setenv("TIMEZONE", "Europe/Madrid")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendFile, cfg.StoreBackend)
	require.Equal(t, "events.json", cfg.EventsFile)
	require.Equal(t, "es", cfg.Locale)
	require.Equal(t, time.Minute, cfg.ReminderInterval)
	require.Equal(t, 15*time.Minute, cfg.ReminderLead)
	require.Equal(t, 15*time.Minute, cfg.WizardTimeout)
	require.Equal(t, "Europe/Madrid", cfg.Location().String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "abc")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://bot:secret@db:5432/eventos?sslmode=disable")
	t.Setenv("WIZARD_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendPostgres, cfg.StoreBackend)
	require.Equal(t, 90*time.Second, cfg.WizardTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Token:            "abc",
			StoreBackend:     BackendFile,
			EventsFile:       "events.json",
			ReminderInterval: time.Minute,
			ReminderLead:     15 * time.Minute,
			WizardTimeout:    15 * time.Minute,
			MemberCacheTTL:   time.Minute,
		}
	}

	cases := map[string]func(*Config){
		"missing token":     func(c *Config) { c.Token = " " },
		"guild not numeric": func(c *Config) { c.GuildID = "abc" },
		"unknown backend":   func(c *Config) { c.StoreBackend = "redis" },
		"postgres no url":   func(c *Config) { c.StoreBackend = BackendPostgres },
		"postgres bad url":  func(c *Config) { c.StoreBackend = BackendPostgres; c.DatabaseURL = "localhost" },
		"zero lead":         func(c *Config) { c.ReminderLead = 0 },
		"unknown time zone": func(c *Config) { c.Timezone = "Mars/Olympus" },
		"empty events file": func(c *Config) { c.EventsFile = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			require.Error(t, c.validate())
		})
	}

	c := valid()
	require.NoError(t, c.validate())
	require.Equal(t, time.Local, c.Location())
}
