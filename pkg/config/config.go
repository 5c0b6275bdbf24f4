package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Sheets        SheetsConfig
	SMTP          SMTPConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Notifications NotificationsConfig
	Export        ExportConfig
}

// SheetsConfig locates the two backing spreadsheets and the service
// account credential used to reach them.
type SheetsConfig struct {
	CredentialsFile     string
	ScoresSpreadsheetID string
	ScoresWorksheet     string
	UsersSpreadsheetID  string
	UsersWorksheet      string
}

// SMTPConfig carries the outbound mail account. An empty Host selects the
// console mailer, which only logs messages.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// NotificationsConfig tunes the lecturer reminder emails.
type NotificationsConfig struct {
	Subject        string
	PlatformURL    string
	Signature      string
	BulkConfirmTTL time.Duration
}

// ExportConfig gates the roster download endpoint.
type ExportConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Sheets = SheetsConfig{
		CredentialsFile:     v.GetString("SHEETS_CREDENTIALS_FILE"),
		ScoresSpreadsheetID: v.GetString("SHEETS_SCORES_SPREADSHEET_ID"),
		ScoresWorksheet:     v.GetString("SHEETS_SCORES_WORKSHEET"),
		UsersSpreadsheetID:  v.GetString("SHEETS_USERS_SPREADSHEET_ID"),
		UsersWorksheet:      v.GetString("SHEETS_USERS_WORKSHEET"),
	}

	cfg.SMTP = SMTPConfig{
		Host:     v.GetString("SMTP_HOST"),
		Port:     v.GetInt("SMTP_PORT"),
		Username: v.GetString("SMTP_USERNAME"),
		Password: v.GetString("SMTP_PASSWORD"),
		From:     v.GetString("SMTP_FROM"),
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Notifications = NotificationsConfig{
		Subject:        v.GetString("NOTIFY_SUBJECT"),
		PlatformURL:    v.GetString("NOTIFY_PLATFORM_URL"),
		Signature:      v.GetString("NOTIFY_SIGNATURE"),
		BulkConfirmTTL: parseDuration(v.GetString("NOTIFY_BULK_CONFIRM_TTL"), 2*time.Minute),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_EXPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SHEETS_CREDENTIALS_FILE", "service-account.json")
	v.SetDefault("SHEETS_SCORES_SPREADSHEET_ID", "")
	v.SetDefault("SHEETS_SCORES_WORKSHEET", "Sheet1")
	v.SetDefault("SHEETS_USERS_SPREADSHEET_ID", "")
	v.SetDefault("SHEETS_USERS_WORKSHEET", "Sheet1")

	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "results-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("NOTIFY_SUBJECT", "Postgraduate Result Request - CSI")
	v.SetDefault("NOTIFY_PLATFORM_URL", "")
	v.SetDefault("NOTIFY_SIGNATURE", "Postgraduate Coordinator\nDepartment of Computer Science and Informatics")
	v.SetDefault("NOTIFY_BULK_CONFIRM_TTL", "2m")

	v.SetDefault("ENABLE_EXPORT", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
