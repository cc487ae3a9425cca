// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Reporting ReportingConfig `mapstructure:"reporting"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
	Maxsize    int    `mapstructure:"maxsize"`
	Maxbackups int    `mapstructure:"maxbackups"`
	Maxage     int    `mapstructure:"maxage"`
	Compress   bool   `mapstructure:"compress"`
}

// DatabaseConfig 描述关系库与 Redis。
// Driver 取值 mysql / postgres / sqlite，DSN 按驱动各自的格式书写。
type DatabaseConfig struct {
	Driver                 string      `mapstructure:"driver"`
	DSN                    string      `mapstructure:"dsn"`
	MaxIdleConns           int         `mapstructure:"max_idle_conns"`
	MaxOpenConns           int         `mapstructure:"max_open_conns"`
	ConnMaxLifetimeMinutes int         `mapstructure:"conn_max_lifetime_minutes"`
	SlowThresholdMs        int         `mapstructure:"slow_threshold_ms"`
	Redis                  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// ReportingConfig 聚合相关的时间窗口（天）。
type ReportingConfig struct {
	TrendWindowDays   int `mapstructure:"trend_window_days"`
	HistoryWindowDays int `mapstructure:"history_window_days"`
}

// EnvPrefix 环境变量前缀，例如 CHANGEREADY_DATABASE_DSN 覆盖 database.dsn。
const EnvPrefix = "CHANGEREADY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.maxsize", 100)
	v.SetDefault("log.maxbackups", 7)
	v.SetDefault("log.maxage", 30)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime_minutes", 60)
	v.SetDefault("database.slow_threshold_ms", 200)
	v.SetDefault("jwt.access_token_expire_hours", 24)
	v.SetDefault("jwt.refresh_token_expire_days", 7)
	v.SetDefault("reporting.trend_window_days", 30)
	v.SetDefault("reporting.history_window_days", 30)
}

// Load 读取 YAML 配置文件，再叠加 .env 与环境变量，返回解析后的配置。
// .env 不存在时静默跳过；配置文件不存在或解析失败返回错误。
func Load(configPath string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Reporting.TrendWindowDays <= 0 {
		cfg.Reporting.TrendWindowDays = 30
	}
	if cfg.Reporting.HistoryWindowDays <= 0 {
		cfg.Reporting.HistoryWindowDays = 30
	}
	return cfg, nil
}

// Init 初始化配置加载，从指定的路径读取 YAML 配置文件并解析导入到 Conf 变量中
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	Conf = cfg
}
