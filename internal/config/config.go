package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Fence     FenceConfig
	Proximity ProximityConfig
	Session   SessionConfig
	Media     MediaConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	TargetListTTL time.Duration
	ReadingTTL    time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
}

// FenceConfig holds per-module geofence radii in meters. Modules not
// listed here fall back to DefaultRadius.
type FenceConfig struct {
	DefaultRadius float64
	TwinbinRadius float64
}

type ProximityConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

type MediaConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			TargetListTTL: time.Duration(viper.GetInt("TARGET_LIST_CACHE_TTL")) * time.Second,
			ReadingTTL:    time.Duration(viper.GetInt("READING_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
		},
		Fence: FenceConfig{
			DefaultRadius: viper.GetFloat64("FENCE_DEFAULT_RADIUS"),
			TwinbinRadius: viper.GetFloat64("FENCE_TWINBIN_RADIUS"),
		},
		Proximity: ProximityConfig{
			Secret:   viper.GetString("PROXIMITY_SECRET"),
			TokenTTL: time.Duration(viper.GetInt("PROXIMITY_TOKEN_TTL")) * time.Second,
		},
		Session: SessionConfig{
			TTL: time.Duration(viper.GetInt("SESSION_TTL")) * time.Second,
		},
		Media: MediaConfig{
			BaseURL:        viper.GetString("MEDIA_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("MEDIA_REQUEST_TIMEOUT")) * time.Second,
		},
	}

	// Set default values if not provided
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "position-tracker-workers"
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Fence.DefaultRadius == 0 {
		cfg.Fence.DefaultRadius = 100
	}
	if cfg.Fence.TwinbinRadius == 0 {
		cfg.Fence.TwinbinRadius = 50
	}
	if cfg.Proximity.TokenTTL == 0 {
		cfg.Proximity.TokenTTL = 10 * time.Minute
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 2 * time.Hour
	}
	if cfg.Cache.TargetListTTL == 0 {
		cfg.Cache.TargetListTTL = 60 * time.Second
	}
	if cfg.Cache.ReadingTTL == 0 {
		cfg.Cache.ReadingTTL = 30 * time.Second
	}
	if cfg.Media.RequestTimeout == 0 {
		cfg.Media.RequestTimeout = 15 * time.Second
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
