package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	KeywordsBuiltin  = "builtin"
	KeywordsFile     = "file"
	KeywordsPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Model    ModelConfig
	Keywords KeywordsConfig
	Upload   UploadConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
}

type AppConfig struct {
	AppName     string `validate:"required"`
	Environment string `validate:"required"`
	HTTPPort    string `validate:"required"`
	CORSOrigins string
}

type ModelConfig struct {
	ModelPath         string
	ClassifierURL     string `validate:"omitempty,url"`
	ClassifierTimeout time.Duration
}

type KeywordsConfig struct {
	Source         string `validate:"oneof=builtin file postgres"`
	Path           string `validate:"required_if=Source file"`
	PhraseMatching bool
	TraceScoring   bool
}

type UploadConfig struct {
	MaxBytes   int `validate:"gt=0"`
	RatePerMin int `validate:"gte=0"`
	RateBurst  int `validate:"gte=0"`
}

type DatabaseConfig struct {
	URL        string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	AutoMigrate bool

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

// Enabled reports whether enough settings exist to open a connection.
func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.URL) != "" || strings.TrimSpace(d.DBHost) != ""
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	def := func(key, fallback string) string {
		if v := opt(key); v != "" {
			return v
		}
		return fallback
	}

	cfg.App = AppConfig{
		AppName:     def("APP_NAME", "resume-ats"),
		Environment: def("APP_ENV", "development"),
		HTTPPort:    def("HTTP_PORT", "8080"),
		CORSOrigins: def("CORS_ORIGINS", "*"),
	}

	cfg.Model = ModelConfig{
		ModelPath:         def("MODEL_PATH", "model/resume_category.json"),
		ClassifierURL:     opt("CLASSIFIER_URL"),
		ClassifierTimeout: durationSeconds(opt("CLASSIFIER_TIMEOUT"), 10*time.Second),
	}

	cfg.Keywords = KeywordsConfig{
		Source:         strings.ToLower(def("KEYWORDS_SOURCE", KeywordsBuiltin)),
		PhraseMatching: boolean(opt("ATS_PHRASE_MATCHING")),
		TraceScoring:   boolean(opt("ATS_TRACE")),
	}
	if cfg.Keywords.Source == KeywordsFile {
		cfg.Keywords.Path = req("KEYWORDS_PATH")
	}

	cfg.Upload = UploadConfig{
		MaxBytes:   integer(opt("UPLOAD_MAX_BYTES"), 10<<20),
		RatePerMin: integer(opt("UPLOAD_RATE_PER_MIN"), 30),
		RateBurst:  integer(opt("UPLOAD_RATE_BURST"), 5),
	}

	cfg.Database = DatabaseConfig{
		URL:                   opt("DATABASE_URL"),
		DBHost:                opt("DB_HOST"),
		DBPort:                def("DB_PORT", "5432"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             def("DB_SSL_MODE", "disable"),
		AutoMigrate:           boolean(opt("DB_AUTO_MIGRATE")),
		ConnectTimeout:        durationSeconds(opt("DB_CONNECT_TIMEOUT"), 5*time.Second),
		PoolMaxConns:          int32(integer(opt("DB_POOL_MAX_CONNS"), 0)),
		PoolMinConns:          int32(integer(opt("DB_POOL_MIN_CONNS"), 0)),
		PoolMaxConnLifetime:   durationSeconds(opt("DB_POOL_MAX_CONN_LIFETIME"), 0),
		PoolMaxConnIdleTime:   durationSeconds(opt("DB_POOL_MAX_CONN_IDLE_TIME"), 0),
		PoolHealthCheckPeriod: durationSeconds(opt("DB_POOL_HEALTH_CHECK_PERIOD"), 0),
	}

	cfg.Redis = RedisConfig{
		Enabled:  opt("REDIS_HOST") != "",
		Host:     def("REDIS_HOST", "localhost"),
		Port:     def("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      durationSeconds(opt("REDIS_TTL"), 600*time.Second),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    opt("JWT_ACCESS_SECRET"),
		AccessExpiresIn: durationSeconds(opt("JWT_ACCESS_EXPIRES_IN"), 24*time.Hour),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Keywords.Source == KeywordsPostgres && !c.Database.Enabled() {
		return errors.New("invalid config: KEYWORDS_SOURCE=postgres requires DATABASE_URL or DB_HOST")
	}
	return nil
}

func durationSeconds(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Second
}

func integer(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func boolean(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
