package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Logger      LoggerConfig    `mapstructure:"logger"`
	Scheduler   SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	CORSOrigins       []string      `mapstructure:"corsOrigins"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// RedisConfig contains availability cache and notification settings.
// An empty Addr disables Redis: availability falls back to the live
// aggregate query and notifications go to the log.
type RedisConfig struct {
	Addr                string        `mapstructure:"addr"`
	Password            string        `mapstructure:"password"`
	DB                  int           `mapstructure:"db"`
	CacheTTL            time.Duration `mapstructure:"cacheTTL"` // seconds
	NotificationChannel string        `mapstructure:"notificationChannel"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// SchedulerConfig contains overdue sweep settings
type SchedulerConfig struct {
	OverdueSweepSpec string        `mapstructure:"overdueSweepSpec"`
	SweepTimeout     time.Duration `mapstructure:"sweepTimeout"` // seconds
}
