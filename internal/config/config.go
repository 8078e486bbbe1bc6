package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TASKPULSE_HTTP_ADDR
const EnvPrefix = "TASKPULSE"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrUnknownDriver     = errors.New("database.driver must be sqlite or postgres")
	ErrDSNRequired       = errors.New("database.dsn is required")
	ErrBotTokenRequired  = errors.New("bot.token is required (TASKPULSE_BOT_TOKEN or MAX_BOT_TOKEN)")
	ErrInvalidLogLevel   = errors.New("log.level must be debug, info, warn or error")
	ErrInvalidLogFormat  = errors.New("log.format must be text or json")
	ErrInvalidPollWindow = errors.New("bot.poll_timeout must be positive")
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Bot      BotConfig      `mapstructure:"bot"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`

	// QuotesFile replaces the built-in motivation quotes when set
	QuotesFile string `mapstructure:"quotes_file"`
}

type HTTPConfig struct {
	Addr         string   `mapstructure:"addr"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	AccessLog    bool     `mapstructure:"access_log"`
	TimeZone     string   `mapstructure:"time_zone"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type BotConfig struct {
	Token       string        `mapstructure:"token"`
	BaseURL     string        `mapstructure:"base_url"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

type AdminConfig struct {
	// TokenHash is the argon2id hash printed by `taskpulse admin-token`
	TokenHash string `mapstructure:"token_hash"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Options says where to look for configuration besides the environment
type Options struct {
	// File is an optional YAML config file
	File string
	// EnvFile is a dotenv file; a missing file is not an error
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8000")
	v.SetDefault("http.allow_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:8080",
		"https://max.ru",
		"https://webtomax.vercel.app",
	})
	v.SetDefault("http.access_log", true)
	v.SetDefault("http.time_zone", "UTC")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "data/taskpulse.db")

	v.SetDefault("bot.token", "")
	v.SetDefault("bot.base_url", "https://botapi.max.ru")
	v.SetDefault("bot.poll_timeout", 30*time.Second)

	v.SetDefault("admin.token_hash", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("quotes_file", "")
}

// Load builds the configuration from defaults, the optional YAML file, the
// dotenv file and the environment, in increasing order of precedence.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// bot hosting usually exports the bare MAX_BOT_TOKEN
	if err := v.BindEnv("bot.token", EnvPrefix+"_BOT_TOKEN", "MAX_BOT_TOKEN"); err != nil {
		return nil, err
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every command needs. The bot token is
// checked separately by RequireBot.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownDriver, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return ErrDSNRequired
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Log.Format)
	}
	return nil
}

// RequireBot checks the settings the chat bot needs
func (c *Config) RequireBot() error {
	if c.Bot.Token == "" {
		return ErrBotTokenRequired
	}
	if c.Bot.PollTimeout <= 0 {
		return ErrInvalidPollWindow
	}
	return nil
}

func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidLogLevel, l.Level)
	}
	return level, nil
}
