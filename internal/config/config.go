package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Export
		Snapshot
		Audit
		Log
	}

	HTTP struct {
		Port           int32
		Host           string
		AllowedOrigins []string // CORS origins, empty disables CORS
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Export struct {
		Dir     string // Default directory for exports without an explicit path
		AppName string // Written into export metadata
	}
	Snapshot struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Dir      string
		Keep     int // Newest scheduled snapshots to retain, 0 keeps all
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 90)
	}
	Log struct {
		Level  string
		Format string // "console" or "json"
	}
)

// ShutdownTimeout returns the graceful shutdown window.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutInSeconds) * time.Second
}

func NewConfig() *Config {
	return newConfig(viper.New())
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("export_dir", DefaultExportDir)
	v.SetDefault("app_name", DefaultAppName)
	v.SetDefault("snapshot_enabled", false)
	v.SetDefault("snapshot_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("snapshot_dir", DefaultSnapshotDir)
	v.SetDefault("snapshot_keep", 7)
	v.SetDefault("audit_retention_days", 90)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Export: Export{
			Dir:     v.GetString("EXPORT_DIR"),
			AppName: v.GetString("APP_NAME"),
		},
		Snapshot: Snapshot{
			Enabled:  v.GetBool("SNAPSHOT_ENABLED"),
			Schedule: v.GetString("SNAPSHOT_SCHEDULE"),
			Dir:      v.GetString("SNAPSHOT_DIR"),
			Keep:     v.GetInt("SNAPSHOT_KEEP"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
