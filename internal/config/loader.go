package config

import (
	"github.com/hmalik/txnpipe/internal/db"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration, read once at startup.
type Config struct {
	DB         db.Config
	FilePath   string
	ListenAddr string
}

// Load reads an optional config.yaml plus the environment. The env names
// match the original deployment: DB_HOST, DB_PORT, DB_USER, DB_PASSWORD,
// DB_DATABASE, DB_SSLMODE, FILE_PATH, LISTEN_ADDR.
func Load(configPath string) (Config, error) {
	cfg := Config{
		DB:         db.DefaultConfig(),
		ListenAddr: ":8080",
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_DATABASE")
	v.BindEnv("database.sslmode", "DB_SSLMODE")
	v.BindEnv("loader.file_path", "FILE_PATH")
	v.BindEnv("server.listen_addr", "LISTEN_ADDR")

	// A missing config file is fine; env vars and defaults still apply.
	_ = v.ReadInConfig()

	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("loader.file_path") {
		cfg.FilePath = v.GetString("loader.file_path")
	}
	if v.IsSet("server.listen_addr") {
		cfg.ListenAddr = v.GetString("server.listen_addr")
	}

	return cfg, nil
}
