package config

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds configuration values sourced from defaults, config/config.json and the environment.
type AppConfig struct {
	AppPort            string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database
	DBDriver        string
	DatabaseURI     string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBAutoMigrate   bool
	DBMaxIdleConns  int
	DBMaxOpenConns  int
	DBConnLifetimeM int
	// Redis response cache
	RedisEnabled    bool
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	CacheTTLSeconds int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Tracing, disabled while the endpoint is empty
	TracingEndpoint    string
	TracingServiceName string
	TracingSampleRatio float64
}

var cfg AppConfig
var loaded bool

// Load reads the configuration once during boot and caches it.
func Load() AppConfig {
	if loaded {
		return cfg
	}
	cfg = read()
	loaded = true
	return cfg
}

// read resolves defaults -> config/config.json -> environment variables. A .env
// file in the working directory, if present, is merged into the environment first.
func read() AppConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring unreadable .env: %v", err)
	}

	v := viper.New()
	applyDefaults(v)

	v.SetConfigFile(filepath.Join("config", "config.json"))
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("ignoring invalid config/config.json: %v", err)
		}
	}

	// app.port <- APP_PORT, db.driver <- DB_DRIVER, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.ratelimit", 600)
	v.SetDefault("app.origins", []string{"*"})

	v.SetDefault("gin.mode", "release")
	v.SetDefault("gin.path", "logs/go_gin.log")

	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", "3306")
	v.SetDefault("db.user", "root")
	v.SetDefault("db.name", "postboard")
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.maxidle", 5)
	v.SetDefault("db.maxopen", 20)
	v.SetDefault("db.lifetime", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.ttl", 3600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "logs/app.log")
	v.SetDefault("log.maxsize", 100)
	v.SetDefault("log.maxbackups", 3)
	v.SetDefault("log.maxage", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("tracing.service", "postboard")
	v.SetDefault("tracing.ratio", 1.0)
}

func fromViper(v *viper.Viper) AppConfig {
	c := AppConfig{
		AppPort:            v.GetString("app.port"),
		RateLimitPerMinute: v.GetInt("app.ratelimit"),
		AllowedOrigins:     splitList(v.GetStringSlice("app.origins")),
		GinMode:            v.GetString("gin.mode"),
		GinPath:            v.GetString("gin.path"),
		DBDriver:           strings.ToLower(v.GetString("db.driver")),
		DatabaseURI:        v.GetString("database.uri"),
		DBHost:             v.GetString("db.host"),
		DBPort:             v.GetString("db.port"),
		DBUser:             v.GetString("db.user"),
		DBPassword:         v.GetString("db.password"),
		DBName:             v.GetString("db.name"),
		DBAutoMigrate:      v.GetBool("db.automigrate"),
		DBMaxIdleConns:     v.GetInt("db.maxidle"),
		DBMaxOpenConns:     v.GetInt("db.maxopen"),
		DBConnLifetimeM:    v.GetInt("db.lifetime"),
		RedisEnabled:       v.GetBool("redis.enabled"),
		RedisHost:          v.GetString("redis.host"),
		RedisPort:          v.GetInt("redis.port"),
		RedisDB:            v.GetInt("redis.db"),
		RedisPassword:      v.GetString("redis.password"),
		CacheTTLSeconds:    v.GetInt("redis.ttl"),
		LogLevel:           strings.ToLower(v.GetString("log.level")),
		LogPath:            v.GetString("log.path"),
		LogMaxSizeMB:       v.GetInt("log.maxsize"),
		LogMaxBackups:      v.GetInt("log.maxbackups"),
		LogMaxAgeDays:      v.GetInt("log.maxage"),
		LogCompress:        v.GetBool("log.compress"),
		TracingEndpoint:    v.GetString("tracing.endpoint"),
		TracingServiceName: v.GetString("tracing.service"),
		TracingSampleRatio: v.GetFloat64("tracing.ratio"),
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		c.TracingSampleRatio = 1
	}
	return c
}

// splitList accepts both JSON arrays and comma separated env values (APP_ORIGINS=a,b).
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
