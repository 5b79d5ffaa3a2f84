package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"eventosbot/pkg/tz"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	Token            string        `env:"DISCORD_TOKEN"`
	GuildID          string        `env:"GUILD_ID"`
	StoreBackend     string        `env:"STORE_BACKEND" envDefault:"file"`
	EventsFile       string        `env:"EVENTS_FILE" envDefault:"events.json"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	Locale           string        `env:"LOCALE" envDefault:"es"`
	Timezone         string        `env:"TIMEZONE"`
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"60s"`
	ReminderLead     time.Duration `env:"REMINDER_LEAD" envDefault:"15m"`
	WizardTimeout    time.Duration `env:"WIZARD_TIMEOUT" envDefault:"15m"`
	MemberCacheTTL   time.Duration `env:"MEMBER_CACHE_TTL" envDefault:"10m"`

	location *time.Location
}

// Location is the zone event times are read and shown in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Load lee la configuración desde el entorno (y un .env opcional) y la valida.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env es opcional cuando las variables vienen del entorno (Docker, CI, etc.).
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate aplica las reglas de negocio sobre la configuración cargada.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: DISCORD_TOKEN es obligatorio y no puede estar vacío")
	}

	for _, r := range c.GuildID {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: GUILD_ID debe ser un ID de servidor de Discord (solo dígitos)")
		}
	}

	switch c.StoreBackend {
	case BackendFile:
		if strings.TrimSpace(c.EventsFile) == "" {
			return fmt.Errorf("config: EVENTS_FILE no puede estar vacío con STORE_BACKEND=file")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: DATABASE_URL es obligatorio con STORE_BACKEND=postgres")
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL inválida (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL inválida (%q): falta scheme o host", c.DatabaseURL)
		}
	default:
		return fmt.Errorf("config: STORE_BACKEND desconocido %q (file|postgres)", c.StoreBackend)
	}

	for name, d := range map[string]time.Duration{
		"REMINDER_INTERVAL": c.ReminderInterval,
		"REMINDER_LEAD":     c.ReminderLead,
		"WIZARD_TIMEOUT":    c.WizardTimeout,
		"MEMBER_CACHE_TTL":  c.MemberCacheTTL,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s debe ser positivo", name)
		}
	}

	loc, err := tz.Load(c.Timezone)
	if err != nil {
		return fmt.Errorf("config: TIMEZONE: %w", err)
	}
	c.location = loc
	return nil
}
