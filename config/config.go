package config

import (
    "strings"
    "time"

    "github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
    Server    ServerConfig    `mapstructure:"server"`
    Database  DatabaseConfig  `mapstructure:"database"`
    Redis     RedisConfig     `mapstructure:"redis"`
    Broker    BrokerConfig    `mapstructure:"broker"`
    Push      PushConfig      `mapstructure:"push"`
    ChatOps   ChatOpsConfig   `mapstructure:"chatops"`
    JWT       JWTConfig       `mapstructure:"jwt"`
    Log       LogConfig       `mapstructure:"log"`
    Telemetry TelemetryConfig `mapstructure:"telemetry"`
    Sentry    SentryConfig    `mapstructure:"sentry"`
}

type ServerConfig struct {
    Addr string `mapstructure:"addr"`
    Mode string `mapstructure:"mode"` // debug, release
}

type DatabaseConfig struct {
    Driver string `mapstructure:"driver"` // sqlite, postgres
    DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
    Addr     string `mapstructure:"addr"`
    Password string `mapstructure:"password"`
    DB       int    `mapstructure:"db"`
}

// BrokerConfig 事件通道（Redis Streams）配置
type BrokerConfig struct {
    GroupPrefix string        `mapstructure:"group_prefix"`
    BlockWait   time.Duration `mapstructure:"block_wait"`
    BatchCount  int64         `mapstructure:"batch_count"`
    ClaimIdle   time.Duration `mapstructure:"claim_idle"` // pending 消息可被认领的最小空闲时间
}

type PushConfig struct {
    IdleTimeout time.Duration `mapstructure:"idle_timeout"`
    SendBuffer  int           `mapstructure:"send_buffer"`
}

type ChatOpsConfig struct {
    WebhookURL string        `mapstructure:"webhook_url"`
    Timeout    time.Duration `mapstructure:"timeout"`
}

type JWTConfig struct {
    Secret string        `mapstructure:"secret"`
    Expire time.Duration `mapstructure:"expire"`
}

type LogConfig struct {
    Level string `mapstructure:"level"`
}

type TelemetryConfig struct {
    Enabled  bool   `mapstructure:"enabled"`
    Endpoint string `mapstructure:"endpoint"`
    Service  string `mapstructure:"service"`
}

type SentryConfig struct {
    DSN string `mapstructure:"dsn"`
}

// Load 读取 config.yaml 并允许环境变量覆盖（FEEDSYNC_SERVER_ADDR 等）
func Load() (*Config, error) {
    v := viper.New()
    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./config")
    v.SetEnvPrefix("feedsync")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    setDefaults(v)

    if err := v.ReadInConfig(); err != nil {
        // 配置文件缺失时退回默认值+环境变量
        if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
            return nil, err
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, err
    }
    return &cfg, nil
}

func setDefaults(v *viper.Viper) {
    v.SetDefault("server.addr", ":8080")
    v.SetDefault("server.mode", "debug")
    v.SetDefault("database.driver", "sqlite")
    v.SetDefault("database.dsn", "feedsync.db")
    v.SetDefault("redis.addr", "localhost:6379")
    v.SetDefault("redis.db", 0)
    v.SetDefault("broker.group_prefix", "feedsync")
    v.SetDefault("broker.block_wait", 2*time.Second)
    v.SetDefault("broker.batch_count", 16)
    v.SetDefault("broker.claim_idle", time.Minute)
    v.SetDefault("push.idle_timeout", 30*time.Minute)
    v.SetDefault("push.send_buffer", 16)
    v.SetDefault("chatops.timeout", 5*time.Second)
    v.SetDefault("jwt.secret", "dev-secret")
    v.SetDefault("jwt.expire", 24*time.Hour)
    v.SetDefault("log.level", "info")
    v.SetDefault("telemetry.enabled", false)
    v.SetDefault("telemetry.service", "feedsync")
}
