package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Optional sections (storage, broker) are left
// empty when their variables are unset and the matching feature degrades.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	DBAutoMigrate  bool   // apply the embedded schema at startup

	LogLevel  string // debug, info, warn or error
	LogFormat string // json or console

	RoomBatchMax   int   // upper bound on rooms created by one batch request
	UploadMaxBytes int64 // largest accepted upload (photos, avatars, payment proofs)

	AMQPURL string // RabbitMQ connection string; empty disables the broker

	S3 S3Config
}

// S3Config describes the object store used for uploaded images.  Endpoint
// is set for S3-compatible stores (MinIO, R2); PublicBaseURL overrides the
// URL handed back to clients.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicBaseURL   string
}

// Enabled reports whether uploads can be stored.
func (c S3Config) Enabled() bool { return c.Bucket != "" && c.Region != "" }

// MissingEnvError lists every required variable that was unset or invalid.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return "missing or invalid required env vars: " + strings.Join(e.Keys, ", ")
}

// LoadFromEnv reads configuration values from environment variables.  All
// problems are collected so a single run reports every bad key.
func LoadFromEnv() (Config, error) {
	r := &reader{}
	cfg := Config{
		Env:            r.must("APP_ENV"),
		Port:           r.must("APP_PORT"),
		DBUser:         r.must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         r.must("DB_HOST"),
		DBPort:         r.must("DB_PORT"),
		DBName:         r.must("DB_NAME"),
		JWTSecret:      r.must("JWT_SECRET"),
		AccessTTLMin:   r.mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: r.mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     r.mustInt("BCRYPT_COST"),
		DBAutoMigrate:  envBool("DB_AUTO_MIGRATE", false),

		LogLevel:  strings.ToLower(envStr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envStr("LOG_FORMAT", "json")),

		RoomBatchMax:   envInt("ROOM_BATCH_MAX", 50),
		UploadMaxBytes: int64(envInt("UPLOAD_MAX_BYTES", 5<<20)),

		AMQPURL: envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),

		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          envStr("S3_REGION", os.Getenv("AWS_REGION")),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			PublicBaseURL:   strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		},
	}
	if cfg.RoomBatchMax < 1 {
		cfg.RoomBatchMax = 1
	}
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 5 << 20
	}
	if len(r.missing) > 0 {
		return Config{}, &MissingEnvError{Keys: r.missing}
	}
	return cfg, nil
}

// Load is LoadFromEnv for main: a bad environment halts the process.
func Load() Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// AccessTTL and RefreshTTL convert the integer settings to durations.
func (c Config) AccessTTL() time.Duration  { return time.Duration(c.AccessTTLMin) * time.Minute }
func (c Config) RefreshTTL() time.Duration { return time.Duration(c.RefreshTTLDays) * 24 * time.Hour }

// IsProduction is true for APP_ENV=prod or production.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// reader accumulates missing keys instead of exiting on the first one.
type reader struct {
	missing []string
}

// must retrieves the value of a required environment variable.
func (r *reader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		r.missing = append(r.missing, key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func (r *reader) mustInt(key string) int {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		r.missing = append(r.missing, key)
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.missing = append(r.missing, fmt.Sprintf("%s (invalid int %q)", key, s))
	}
	return n
}
