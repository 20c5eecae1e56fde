package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
		// FrontDoorSecret, when set, restricts access to requests carrying the
		// same value in the X-Front-Door-Secret header. Empty disables the check.
		FrontDoorSecret string `yaml:"front_door_secret" env:"SERVER_FRONT_DOOR_SECRET"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`

		// User is the restricted role; its queries are subject to the
		// row-level-security policies. Admin bypasses them and is used only
		// for migrations and health checks.
		User struct {
			Name     string `yaml:"name" env:"DB_USER_ROLE"`
			Password string `yaml:"password" env:"DB_USER_PASSWORD"`
		} `yaml:"user"`
		Admin struct {
			Name     string `yaml:"name" env:"DB_ADMIN_ROLE"`
			Password string `yaml:"password" env:"DB_ADMIN_PASSWORD"`
		} `yaml:"admin"`
	} `yaml:"database"`

	Auth struct {
		Issuer   string `yaml:"issuer" env:"AUTH_ISSUER"`
		Audience string `yaml:"audience" env:"AUTH_AUDIENCE"`
		JWKSURL  string `yaml:"jwks_url" env:"AUTH_JWKS_URL"`
		// Secret enables HS256 verification for providers that sign tokens
		// with a shared secret instead of publishing a JWKS.
		Secret string `yaml:"secret" env:"AUTH_SECRET"`
	} `yaml:"auth"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"cors"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.DBName = "coursegenius"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.User.Name = "coursegenius_user"
	config.Database.User.Password = "coursegenius"
	config.Database.Admin.Name = "postgres"
	config.Database.Admin.Password = "postgres"

	// Auth defaults
	config.Auth.Issuer = "https://login.coursegenius.app"
	config.Auth.Audience = "course-genius"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.User.Name == "" || config.Database.Admin.Name == "" {
		return fmt.Errorf("both database roles are required")
	}

	if config.Database.User.Name == config.Database.Admin.Name {
		return fmt.Errorf("restricted and admin database roles must be distinct")
	}

	if config.Auth.Issuer == "" {
		return fmt.Errorf("auth issuer is required")
	}

	if config.Auth.JWKSURL == "" && config.Auth.Secret == "" {
		return fmt.Errorf("either auth JWKS URL or auth secret is required")
	}

	return nil
}

// UserConnectionString returns the DSN for the restricted, RLS-respecting role.
func (c *Config) UserConnectionString() string {
	return c.connectionString(c.Database.User.Name, c.Database.User.Password)
}

// AdminConnectionString returns the DSN for the RLS-bypassing role.
func (c *Config) AdminConnectionString() string {
	return c.connectionString(c.Database.Admin.Name, c.Database.Admin.Password)
}

func (c *Config) connectionString(user, password string) string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user,
		password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// splitList turns a comma separated env value into a trimmed string slice.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
