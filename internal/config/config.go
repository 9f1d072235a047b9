package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Redis     RedisConfig     `yaml:"redis"`
	Backup    BackupConfig    `yaml:"backup"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        string   `yaml:"port"`
	Mode        string   `yaml:"mode"`         // debug, release, test
	CORSOrigins []string `yaml:"cors_origins"` // empty allows any origin without credentials
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json; empty picks by level
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres, none
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// AuthConfig holds the bootstrap console credential and whether bearer
// tokens are enforced at all.
type AuthConfig struct {
	Enabled       bool   `yaml:"enabled"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

// UpstreamConfig points at the core bid-tracking API the console fronts.
// An empty BaseURL keeps the gateway permanently on mock data.
type UpstreamConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	FallbackDelay time.Duration `yaml:"fallback_delay"`
	// Consecutive failures before the breaker opens; 0 disables the breaker.
	BreakerFailures int           `yaml:"breaker_failures"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"`
}

// RedisConfig for optional async task queue
type RedisConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	Concurrency int    `yaml:"concurrency"` // report worker goroutines
}

type BackupConfig struct {
	Schedule string `yaml:"schedule"` // cron expression, empty disables scheduled backups
}

type DashboardConfig struct {
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	CacheSize int           `yaml:"cache_size"`
	Country   string        `yaml:"country"` // holiday calendar for deadline countdowns
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Log: LogConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "bizeyes-admin.db",
		},
		JWT: JWTConfig{
			Secret:     "bizeyes-admin-secret-change-in-production",
			ExpireHour: 24,
		},
		Auth: AuthConfig{
			Enabled:       true,
			AdminUsername: "admin",
			AdminPassword: "admin123",
		},
		Upstream: UpstreamConfig{
			Timeout:         10 * time.Second,
			FallbackDelay:   300 * time.Millisecond,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Redis: RedisConfig{
			Enabled:     false,
			Addr:        "localhost:6379",
			DB:          0,
			Concurrency: 4,
		},
		Backup: BackupConfig{
			Schedule: "0 3 * * *",
		},
		Dashboard: DashboardConfig{
			CacheTTL:  time.Minute,
			CacheSize: 64,
			Country:   "CN",
		},
		RateLimit: RateLimitConfig{
			RPS:   5,
			Burst: 10,
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = strings.Split(origins, ",")
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if enabled := os.Getenv("AUTH_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			c.Auth.Enabled = v
		}
	}
	if user := os.Getenv("ADMIN_USERNAME"); user != "" {
		c.Auth.AdminUsername = user
	}
	if pass := os.Getenv("ADMIN_PASSWORD"); pass != "" {
		c.Auth.AdminPassword = pass
	}
	if baseURL := os.Getenv("UPSTREAM_BASE_URL"); baseURL != "" {
		c.Upstream.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout := os.Getenv("UPSTREAM_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Upstream.Timeout = d
		}
	}
	if delay := os.Getenv("UPSTREAM_FALLBACK_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			c.Upstream.FallbackDelay = d
		}
	}
	if schedule, ok := os.LookupEnv("BACKUP_SCHEDULE"); ok {
		c.Backup.Schedule = schedule
	}
	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		// Password format: :password or user:password
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}
