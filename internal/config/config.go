// Package config provides configuration for the application
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Supported database types
const (
	DBTypeMySQL  = "mysql"
	DBTypeSQLite = "sqlite"
)

// Supported password hashers
const (
	HasherMD5    = "md5"
	HasherBcrypt = "bcrypt"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type     string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Host string
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
	Debug bool
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// AdminConfig holds settings of the bootstrap admin account
type AdminConfig struct {
	Password string
}

// SecurityConfig holds password hashing settings
type SecurityConfig struct {
	PasswordHasher string
}

// RateLimitConfig holds per-IP request limits
type RateLimitConfig struct {
	RequestsPerMinute int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbType := strings.ToLower(os.Getenv("DB_TYPE"))
	if dbType == "" {
		dbType = DBTypeMySQL // default type
	}
	if dbType != DBTypeMySQL && dbType != DBTypeSQLite {
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}
	cfg.Database.Type = dbType

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Connection settings are only needed for MySQL
	if dbType == DBTypeMySQL {
		dbHost := os.Getenv("DB_HOST")
		if dbHost == "" {
			return nil, fmt.Errorf("DB_HOST is required")
		}
		cfg.Database.Host = dbHost

		dbPortStr := os.Getenv("DB_PORT")
		if dbPortStr == "" {
			return nil, fmt.Errorf("DB_PORT is required")
		}
		dbPort, err := strconv.Atoi(dbPortStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT: %w", err)
		}
		cfg.Database.Port = dbPort

		dbUser := os.Getenv("DB_USER")
		if dbUser == "" {
			return nil, fmt.Errorf("DB_USER is required")
		}
		cfg.Database.User = dbUser

		dbPassword := os.Getenv("DB_PASSWORD")
		if dbPassword == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required")
		}
		cfg.Database.Password = dbPassword
	}

	// Server configuration
	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "0.0.0.0" // default host
	}
	cfg.Server.Host = serverHost

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	debugStr := os.Getenv("DEBUG")
	if debugStr != "" {
		debug, err := strconv.ParseBool(debugStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DEBUG: %w", err)
		}
		cfg.Logging.Debug = debug
	}

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	// Access token expiry (default: 24 hours)
	accessExpiryStr := os.Getenv("JWT_ACCESS_TOKEN_EXPIRY")
	if accessExpiryStr == "" {
		accessExpiryStr = "24h"
	}
	accessExpiry, err := time.ParseDuration(accessExpiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	if accessExpiry <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRY must be positive")
	}
	cfg.JWT.AccessTokenExpiry = accessExpiry

	// Bootstrap admin configuration
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123" // default password
	}
	cfg.Admin.Password = adminPassword

	// Password hashing configuration
	hasher := strings.ToLower(os.Getenv("PASSWORD_HASHER"))
	if hasher == "" {
		hasher = HasherMD5 // legacy digest keeps existing hashes valid
	}
	if hasher != HasherMD5 && hasher != HasherBcrypt {
		return nil, fmt.Errorf("unsupported PASSWORD_HASHER: %s", hasher)
	}
	cfg.Security.PasswordHasher = hasher

	// Rate limit configuration
	rateLimitStr := os.Getenv("RATE_LIMIT_PER_MINUTE")
	if rateLimitStr == "" {
		rateLimitStr = "100" // default limit
	}
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	cfg.RateLimit.RequestsPerMinute = rateLimit

	return cfg, nil
}

// parseOrigins parses a comma-separated origins list.
// An empty list allows all origins.
func parseOrigins(corsOrigins string) []string {
	if corsOrigins == "" {
		return []string{"*"}
	}
	origins := strings.Split(corsOrigins, ",")
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}

// DSN returns the database connection string for the configured database type
func (c *Config) DSN() string {
	if c.Database.Type == DBTypeSQLite {
		return fmt.Sprintf("file:%s.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite",
			c.Database.DBName,
		)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return ""
	}
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = c.Database.User
	mysqlCfg.Passwd = c.Database.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port))
	mysqlCfg.DBName = c.Database.DBName
	mysqlCfg.ParseTime = true
	mysqlCfg.Collation = "utf8mb4_general_ci"
	return mysqlCfg.FormatDSN()
}

// Address returns the server listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
