package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Tunnel   TunnelConfig   `yaml:"tunnel"`
	Storage  StorageConfig  `yaml:"storage"`
	Rebuild  RebuildConfig  `yaml:"rebuild"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// CORSConfig holds CORS settings. Operator clients authenticate with bearer
// tokens, so credentialed requests are off unless AllowCredentials is set.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Api-Key"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
// WriteTimeout must exceed Tunnel.RequestTimeout or proxied responses are cut off.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings. Migrations run at
// startup unless SkipMigrate is set.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ConnectAttempts int           `yaml:"connect_attempts"   env:"DATABASE_CONNECT_ATTEMPTS"   env-default:"5"`
	SkipMigrate     bool          `yaml:"skip_migrate"       env:"DATABASE_SKIP_MIGRATE"`
}

// AuthConfig holds operator-token and edge API key settings. JWTSecret is
// required; it may come from AUTH_JWT_SECRET_FILE.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"slide-relay"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"12h"`
	// EdgeKeysRaw is a comma-separated list of "origin:bcrypt-hash" pairs.
	EdgeKeysRaw string `yaml:"edge_keys" env:"AUTH_EDGE_KEYS"`

	// EdgeKeys is parsed from EdgeKeysRaw during validation (origin -> hash).
	EdgeKeys map[string]string `yaml:"-" env:"-"`
}

// IngestConfig holds event ingestion limits.
type IngestConfig struct {
	MaxBatchSize       int `yaml:"max_batch_size"        env:"INGEST_MAX_BATCH_SIZE"        env-default:"1000"`
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"INGEST_RATE_LIMIT_PER_MINUTE" env-default:"600"`
	MaxBodyBytes       int64 `yaml:"max_body_bytes"      env:"INGEST_MAX_BODY_BYTES"        env-default:"16777216"`
}

// TunnelConfig holds edge tunnel settings. An empty SharedSecret rejects
// every connection attempt.
type TunnelConfig struct {
	SharedSecret    string        `yaml:"shared_secret"     env:"TUNNEL_SHARED_SECRET"`
	HealthTimeout   time.Duration `yaml:"health_timeout"    env:"TUNNEL_HEALTH_TIMEOUT"    env-default:"5s"`
	RequestTimeout  time.Duration `yaml:"request_timeout"   env:"TUNNEL_REQUEST_TIMEOUT"   env-default:"60s"`
	PingInterval    time.Duration `yaml:"ping_interval"     env:"TUNNEL_PING_INTERVAL"     env-default:"25s"`
	PongWait        time.Duration `yaml:"pong_wait"         env:"TUNNEL_PONG_WAIT"         env-default:"60s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"     env:"TUNNEL_WRITE_TIMEOUT"     env-default:"10s"`
	MaxMessageBytes int64         `yaml:"max_message_bytes" env:"TUNNEL_MAX_MESSAGE_BYTES" env-default:"67108864"`
}

// StorageConfig holds object storage settings for signed preview URLs.
type StorageConfig struct {
	Bucket        string        `yaml:"bucket"         env:"STORAGE_BUCKET"`
	Endpoint      string        `yaml:"endpoint"       env:"STORAGE_ENDPOINT"`
	Region        string        `yaml:"region"         env:"STORAGE_REGION"`
	AccessID      string        `yaml:"access_id"      env:"STORAGE_ACCESS_ID"`
	PrivateKey    string        `yaml:"private_key"    env:"STORAGE_PRIVATE_KEY"`
	URLTTL        time.Duration `yaml:"url_ttl"        env:"STORAGE_URL_TTL"        env-default:"15m"`
	AllowedPrefix string        `yaml:"allowed_prefix" env:"STORAGE_ALLOWED_PREFIX" env-default:"previews/"`
}

// RebuildConfig holds projection rebuild settings. Rebuilds always run
// one at a time.
type RebuildConfig struct {
	PageSize int `yaml:"page_size" env:"REBUILD_PAGE_SIZE" env-default:"500"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SigningEnabled reports whether preview URLs can be signed.
func (s StorageConfig) SigningEnabled() bool {
	return s.AccessID != "" && s.PrivateKey != ""
}
