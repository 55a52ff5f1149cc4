package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Admin    AdminConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	Env         string
	LogLevel    string
	AutoMigrate bool
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	PoolMin        int
	PoolMax        int
	ConnectRetries int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// AdminConfig holds the shared secret guarding write endpoints.
type AdminConfig struct {
	Token string
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (*Config, error) {
	v := newViper()

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			Env:         v.GetString("ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			AutoMigrate: v.GetBool("AUTO_MIGRATE"),
		},
		Database: databaseFrom(v),
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Admin: AdminConfig{
			Token: v.GetString("ADMIN_TOKEN"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDatabase reads only the database section. Used by tooling that never
// serves HTTP, such as the migration CLI.
func LoadDatabase() (*DatabaseConfig, error) {
	db := databaseFrom(newViper())
	if err := db.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &db, nil
}

func newViper() *viper.Viper {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "delegation")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.AutomaticEnv()
	return v
}

func databaseFrom(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:           v.GetString("DB_HOST"),
		Port:           v.GetString("DB_PORT"),
		Name:           v.GetString("DB_NAME"),
		User:           v.GetString("DB_USER"),
		Password:       v.GetString("DB_PASSWORD"),
		SSLMode:        v.GetString("DB_SSLMODE"),
		PoolMin:        v.GetInt("DB_POOL_MIN"),
		PoolMax:        v.GetInt("DB_POOL_MAX"),
		ConnectRetries: v.GetInt("DB_CONNECT_RETRIES"),
	}
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Admin.Token == "" {
		return fmt.Errorf("ADMIN_TOKEN is required")
	}

	return nil
}

// Validate checks the database section on its own.
func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	if d.ConnectRetries < 0 {
		return fmt.Errorf("DB_CONNECT_RETRIES must be non-negative")
	}
	return nil
}

// DSN builds the postgres:// connection string shared by pgx and the
// migration runner.
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
