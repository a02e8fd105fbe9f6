package config

import (
	"time"

	"github.com/forumhq/forum-api/internal/cache"
	"github.com/forumhq/forum-api/internal/storage"
	pkgconfig "github.com/forumhq/forum-api/pkg/config"
)

type Config struct {
	Server        ServerConfig
	Mongo         MongoConfig
	Redis         cache.RedisConfig
	Cache         CacheConfig
	JWT           JWTConfig
	S3            storage.S3Config
	Notifications NotificationsConfig
	Upload        UploadConfig
	Log           LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type CacheConfig struct {
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Issuer string        `mapstructure:"issuer"`
}

type NotificationsConfig struct {
	// DedupePerComment keys comment notifications on the specific comment,
	// so two comments on the same post inside the dedup window both notify.
	DedupePerComment bool `mapstructure:"dedupe_per_comment"`
}

type UploadConfig struct {
	MaxAvatarBytes int           `mapstructure:"max_avatar_bytes"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "forum")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.prefix", "forum")
	v.SetDefault("cache.ttl", "60s")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", "168h")
	v.SetDefault("jwt.issuer", "forum-api")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "forum-uploads")
	v.SetDefault("s3.use_path_style", false)
	v.SetDefault("s3.public_url", "")
	v.SetDefault("notifications.dedupe_per_comment", true)
	v.SetDefault("upload.max_avatar_bytes", 500*1024)
	v.SetDefault("upload.token_ttl", "1h")
	v.SetDefault("log.level", "info")

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.database", "MONGO_DATABASE")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.public_url", "S3_PUBLIC_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
