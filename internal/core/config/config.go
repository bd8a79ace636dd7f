package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

// Session 会话 cookie（JWT 签名，内容为 sid）
type Session struct {
	Secret     string
	Issuer     string
	TTLMin     int
	CookieName string
	Secure     bool
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Upload 图片上传根目录（uploads/{profile|books}/...）
type Upload struct {
	Dir        string
	MaxImageMB int
}

type Limits struct {
	RPS         float64
	Burst       int
	Concurrency int64
	MaxBodyMB   int64
	TimeoutSec  int
}

type Config struct {
	App     App
	Log     Log
	Session Session
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Upload  Upload
	Limits  Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bookreview")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("session.issuer", "bookreview")
	v.SetDefault("session.ttlmin", 120)
	v.SetDefault("session.cookiename", "bookreview_session")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.maximagemb", 5)
	v.SetDefault("limits.rps", 50)
	v.SetDefault("limits.burst", 100)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxbodymb", 16)
	v.SetDefault("limits.timeoutsec", 10)
}

// Read 读取 yaml + APP_ 前缀环境变量（APP_DB_DSN 覆盖 db.dsn）
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if c.Session.Secret == "" {
		log.Fatalf("load config: session.secret is required")
	}
	return c
}
