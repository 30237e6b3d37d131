package bootstrap

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config 结构体用于存储从环境变量或 .env 文件加载的配置
type Config struct {
	JWTSecret     string `env:"JWT_TOKEN_SECRET,required,notEmpty"`
	JWTExpiration int    `env:"JWT_TOKEN_EXPIRATION_TIME" envDefault:"3600"` // 秒

	ServerPort    string `env:"PORT" envDefault:"3000"`
	AllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`

	// DBDriver 为 mysql 或 sqlite (DB_NAME 为文件路径)
	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBName     string `env:"DB_NAME" envDefault:"chat_db"`

	// RedisAddr 为空时关闭跨实例转发、限流和后台任务
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix     string `env:"REDIS_KEY_PREFIX" envDefault:"chat:"`

	RateLimitMax         int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1s"`
	EventRateLimitMax    int           `env:"EVENT_RATE_LIMIT_MAX" envDefault:"20"`
	EventRateLimitWindow time.Duration `env:"EVENT_RATE_LIMIT_WINDOW" envDefault:"1s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
}

// LoadConfig 从环境变量加载配置，.env 文件 (如果存在) 优先加载
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // 忽略错误，允许只使用环境变量

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.JWTExpiration <= 0 {
		return nil, fmt.Errorf("JWT_TOKEN_EXPIRATION_TIME must be positive, got %d", cfg.JWTExpiration)
	}
	if cfg.RateLimitWindow <= 0 || cfg.EventRateLimitWindow <= 0 {
		return nil, fmt.Errorf("rate limit windows must be positive")
	}

	// 验证日志级别
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// RedisEnabled 报告是否配置了 Redis
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
