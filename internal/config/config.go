package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/howl/internal/provider/openai"
)

// Config represents the relay configuration. It is assembled once at process
// start and never mutated afterwards.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	OpenAI    openai.Config
	RateLimit RateLimitConfig
	Access    AccessConfig
	Stream    StreamConfig
	Upload    UploadConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `env:"SERVER_PORT"          envDefault:"8000"`
	ReadTimeout  int    `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int    `env:"SERVER_WRITE_TIMEOUT" envDefault:"300"`
	StaticDir    string `env:"SERVER_STATIC_DIR"    envDefault:"public"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,X-Key"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// RateLimitConfig contains admission control ceilings.
// PerMinute applies per route, PerDay applies across all routes.
type RateLimitConfig struct {
	PerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"5"`
	PerDay    int    `env:"RATE_LIMIT_PER_DAY"    envDefault:"100"`
	Capacity  int    `env:"RATE_LIMIT_CAPACITY"   envDefault:"4096"`
	RedisAddr string `env:"REDIS_ADDR"`
}

// AccessConfig contains identity and allow-list settings.
// IdentityHeader names the header carrying the real client address when the
// request is proxied; when empty or absent the transport peer address is used.
type AccessConfig struct {
	IdentityHeader string   `env:"IDENTITY_HEADER" envDefault:"X-Real-Ip"`
	KeyHeader      string   `env:"KEY_HEADER"      envDefault:"X-Key"`
	AllowList      []string `env:"ALLOW_LIST"      envSeparator:","`
}

// StreamConfig contains streaming relay settings.
type StreamConfig struct {
	PaddingSize int `env:"STREAM_PADDING_SIZE" envDefault:"64"`
	IdleTimeout int `env:"STREAM_IDLE_TIMEOUT" envDefault:"60"`
}

// UploadConfig contains file upload settings.
type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR"       envDefault:"tmp"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	TTL      int    `env:"UPLOAD_TTL"       envDefault:"3600"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*openai.Config
	*RateLimitConfig
	*AccessConfig
	*StreamConfig
	*UploadConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.OpenAI,
		&cfg.RateLimit,
		&cfg.Access,
		&cfg.Stream,
		&cfg.Upload,
	}
}
