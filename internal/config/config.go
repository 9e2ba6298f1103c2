package config

import "time"

type Config struct {
	Service  *ServiceConfig
	Postgres *PostgresConfig
	Redis    *RedisConfig
	JWT      *JWTConfig
	Realtime *RealtimeConfig
	Worker   *WorkerConfig
	Logger   *LoggerConfig
	Tracer   *TracerConfig
}

type ServiceConfig struct {
	Name string
	Env  string
	Addr string
}

type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	PingTimeout  time.Duration
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type RealtimeConfig struct {
	SendTimeout  time.Duration
	ReadLimit    int64
	WriteBuffer  int
	OutQueueSize int
	// AllowedOrigins whitelists websocket handshake origins. Empty means
	// same-origin only; "*" allows any origin.
	AllowedOrigins []string
}

type WorkerConfig struct {
	AuditTopic string
	AuditGroup string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type TracerConfig struct {
	Address string
}
