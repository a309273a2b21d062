package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DBConfig struct {
	DSN      string `env:"DSN"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	Name     string `env:"NAME" envDefault:"customseal"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// DSNString devuelve DB_DSN o lo arma con las partes sueltas.
func (c DBConfig) DSNString() string {
	if strings.TrimSpace(c.DSN) != "" {
		return c.DSN
	}
	return "host=" + c.Host + " user=" + c.User + " password=" + c.Password + " dbname=" + c.Name + " port=" + c.Port + " sslmode=" + c.SSLMode
}

type SMTPConfig struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
	From string `env:"FROM"`
}

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	DB   DBConfig   `envPrefix:"DB_"`
	SMTP SMTPConfig `envPrefix:"SMTP_"`

	StorageDir   string        `env:"STORAGE_DIR" envDefault:"uploads"`
	MaxUploadMB  int64         `env:"MAX_UPLOAD_MB" envDefault:"100"`
	WizardFlow   string        `env:"WIZARD_FLOW" envDefault:"scan"`
	FrameCatalog string        `env:"FRAME_CATALOG"`
	SessionKey   string        `env:"SESSION_KEY" envDefault:"dev-insecure"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SweepEvery   time.Duration `env:"SESSION_SWEEP_EVERY" envDefault:"5m"`

	GoogleClientID     string   `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	AdminAllowedEmails []string `env:"ADMIN_ALLOWED_EMAILS" envSeparator:","`
	JWTAdminSecret     string   `env:"JWT_ADMIN_SECRET"`
}

// Load carga .env si existe y parsea el entorno.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.MaxUploadMB <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_MB debe ser positivo: %d", c.MaxUploadMB)
	}
	if c.JWTAdminSecret == "" {
		c.JWTAdminSecret = c.SessionKey
	}
	allowed := c.AdminAllowedEmails[:0]
	for _, e := range c.AdminAllowedEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed = append(allowed, e)
		}
	}
	c.AdminAllowedEmails = allowed
	return c, nil
}

func (c Config) IsDev() bool {
	e := strings.ToLower(c.AppEnv)
	return e == "" || e == "development" || e == "dev"
}

func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }
