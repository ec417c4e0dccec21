package config

import (
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DefaultConfigPath = "./config/config.yaml"

	// InsecureSecret is used when no signing secret is configured.
	InsecureSecret = "secret"

	StorageLocal = "local"
	StorageS3    = "s3"

	DBPostgres = "postgres"
	DBMemory   = "memory"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	DBDriver   string `yaml:"db_driver" env:"DB_DRIVER" env-default:"postgres"`
	Tokens     `yaml:"tokens"`
	Postgres   `yaml:"postgres"`
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Uploads    `yaml:"uploads"`
	RabbitMQ   `yaml:"rabbitmq"`
	RateLimit  `yaml:"rate_limit"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"postgres"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-default:"job_tracker"`
	SSLMode  string `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
}

type Tokens struct {
	Secret         string        `yaml:"secret" env:"JWT_SECRET" env-default:"secret"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"60m"`
}

type Storage struct {
	Driver   string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"local"`
	LocalDir string `yaml:"local_dir" env:"STORAGE_LOCAL_DIR" env-default:"./uploads"`
	S3       `yaml:"s3"`
}

type S3 struct {
	Bucket    string `yaml:"bucket" env:"S3_BUCKET" env-default:"resumes"`
	Region    string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
}

type Uploads struct {
	MaxSize    int64    `yaml:"max_size" env:"UPLOAD_MAX_SIZE" env-default:"5242880"`
	AllowedExt []string `yaml:"allowed_ext" env:"UPLOAD_ALLOWED_EXT" env-default:"pdf,txt"`
}

type RabbitMQ struct {
	URL       string `yaml:"url" env:"RABBITMQ_URL"`
	QueueName string `yaml:"queue_name" env:"RABBITMQ_QUEUE" env-default:"account_events"`
}

type RateLimit struct {
	Enabled bool `yaml:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"true"`
}

// MustLoad reads configPath when it exists and the environment otherwise.
// Values from a .env file in the working directory are exported first.
func MustLoad(configPath string) *Config {
	_ = godotenv.Load()

	var cfg Config

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			panic("Failed to read config: " + err.Error())
		}

		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("Failed to read env: " + err.Error())
	}

	return &cfg
}

// Path returns CONFIG_PATH or the default location.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}

	return DefaultConfigPath
}

// placeholderSecrets are values shipped in sample configs.
var placeholderSecrets = map[string]struct{}{
	"":             {},
	InsecureSecret: {},
	"change-me":    {},
	"changeme":     {},
}

// IsInsecure reports whether the signing secret is empty or a known placeholder.
func (t Tokens) IsInsecure() bool {
	_, ok := placeholderSecrets[strings.TrimSpace(t.Secret)]
	return ok
}
