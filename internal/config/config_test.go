package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so the host environment does not
// leak into the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TASKPULSE_HTTP_ADDR",
		"TASKPULSE_HTTP_ALLOW_ORIGINS",
		"TASKPULSE_HTTP_ACCESS_LOG",
		"TASKPULSE_HTTP_TIME_ZONE",
		"TASKPULSE_DATABASE_DRIVER",
		"TASKPULSE_DATABASE_DSN",
		"TASKPULSE_BOT_TOKEN",
		"TASKPULSE_BOT_BASE_URL",
		"TASKPULSE_BOT_POLL_TIMEOUT",
		"TASKPULSE_ADMIN_TOKEN_HASH",
		"TASKPULSE_LOG_LEVEL",
		"TASKPULSE_LOG_FORMAT",
		"TASKPULSE_QUOTES_FILE",
		"MAX_BOT_TOKEN",
	} {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Addr != ":8000" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if len(cfg.HTTP.AllowOrigins) != 5 || cfg.HTTP.AllowOrigins[3] != "https://max.ru" {
		t.Errorf("HTTP.AllowOrigins = %v", cfg.HTTP.AllowOrigins)
	}
	if !cfg.HTTP.AccessLog {
		t.Error("HTTP.AccessLog = false, want true")
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.DSN != "data/taskpulse.db" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Bot.PollTimeout != 30*time.Second || cfg.Bot.BaseURL != "https://botapi.max.ru" {
		t.Errorf("Bot = %+v", cfg.Bot)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.RequireBot(); !errors.Is(err, ErrBotTokenRequired) {
		t.Errorf("RequireBot() error = %v, want %v", err, ErrBotTokenRequired)
	}
}

// Requirement: environment overrides the YAML file, which overrides defaults
func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	file := writeFile(t, "taskpulse.yaml", `
http:
  addr: ":9000"
  allow_origins:
    - https://example.com
database:
  driver: postgres
  dsn: postgres://file/db
bot:
  poll_timeout: 10s
log:
  level: debug
`)
	t.Setenv("TASKPULSE_DATABASE_DSN", "postgres://env/db")
	t.Setenv("TASKPULSE_LOG_FORMAT", "json")

	cfg, err := Load(Options{File: file})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("HTTP.Addr = %q, want value from file", cfg.HTTP.Addr)
	}
	if !reflect.DeepEqual(cfg.HTTP.AllowOrigins, []string{"https://example.com"}) {
		t.Errorf("HTTP.AllowOrigins = %v", cfg.HTTP.AllowOrigins)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "postgres://env/db" {
		t.Errorf("Database.DSN = %q, want value from env", cfg.Database.DSN)
	}
	if cfg.Bot.PollTimeout != 10*time.Second {
		t.Errorf("Bot.PollTimeout = %v", cfg.Bot.PollTimeout)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_BotTokenAliases(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "bare MAX_BOT_TOKEN",
			env:  map[string]string{"MAX_BOT_TOKEN": "bare"},
			want: "bare",
		},
		{
			name: "prefixed wins",
			env:  map[string]string{"MAX_BOT_TOKEN": "bare", "TASKPULSE_BOT_TOKEN": "prefixed"},
			want: "prefixed",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(Options{})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Bot.Token != test.want {
				t.Errorf("Bot.Token = %q, want %q", cfg.Bot.Token, test.want)
			}
			if err := cfg.RequireBot(); err != nil {
				t.Errorf("RequireBot() error = %v", err)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "TASKPULSE_HTTP_ADDR=:7000\nMAX_BOT_TOKEN=from-dotenv\n")

	cfg, err := Load(Options{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":7000" || cfg.Bot.Token != "from-dotenv" {
		t.Errorf("config = %+v, want values from dotenv file", cfg)
	}

	// a missing dotenv file is fine
	if _, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "absent.env")}); err != nil {
		t.Errorf("Load() with missing env file error = %v", err)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(Options{File: filepath.Join(t.TempDir(), "absent.yaml")})
	if err == nil {
		t.Fatal("Load() error = nil, want error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: DriverSQLite, DSN: ":memory:"},
			Log:      LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "warn level", mutate: func(c *Config) { c.Log.Level = "WARN" }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: ErrUnknownDriver},
		{name: "empty dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: ErrDSNRequired},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: ErrInvalidLogLevel},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidLogFormat},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.mutate(cfg)

			err := cfg.Validate()

			if test.wantErr == nil && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if test.wantErr != nil && !errors.Is(err, test.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestRequireBot_PollTimeout(t *testing.T) {
	cfg := &Config{Bot: BotConfig{Token: "t", PollTimeout: 0}}

	if err := cfg.RequireBot(); !errors.Is(err, ErrInvalidPollWindow) {
		t.Errorf("RequireBot() error = %v, want %v", err, ErrInvalidPollWindow)
	}
}
