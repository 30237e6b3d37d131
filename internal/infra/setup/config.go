package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBConfig 描述数据库连接参数。
// Driver 为 "sqlite" 时 Name 是数据库文件路径 (或 file: URI)，其余字段忽略。
type DBConfig struct {
	Driver   string
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// DSN 构建 MySQL 连接字符串
func (c DBConfig) DSN() (string, error) {
	if c.User == "" {
		return "", fmt.Errorf("DB_USER environment variable not set")
	}
	host := c.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Port
	if port == "" {
		port = "3306"
	}
	name := c.Name
	if name == "" {
		name = "chat_db"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, host, port, name), nil
}

// InitDB 根据 Driver 打开数据库连接并配置连接池
func InitDB(cfg DBConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "", "mysql":
		return initMySQL(cfg)
	case "sqlite":
		return InitSQLite(cfg.Name)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// InitSQLite 打开 SQLite 数据库，用于本地开发和测试。
// SQLite 只允许一个写连接，连接池限制为 1。
func InitSQLite(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite database path not set")
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %s: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	logrus.WithField("dsn", dsn).Info("SQLite opened")
	return db, nil
}

func initMySQL(cfg DBConfig) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	logrus.WithFields(logrus.Fields{"host": cfg.Host, "db": cfg.Name}).Info("MySQL connected")
	return db, nil
}

// CloseDB 关闭底层连接池
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitRedis 初始化 Redis 连接并 Ping 一次
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 5,
		MaxConnAge:   30 * time.Minute,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	logrus.WithField("addr", addr).Info("Redis connected")
	return client, nil
}
