package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string `env:"ENV" env-required:"true"`
	LogLevel     string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer   HttpServer
	Limiter      Limiter
	Auth         AuthConfig
	Store        Store
	Database     Database
	Cache        Cache
	Device       Device
	Registration Registration
	SMTP         SMTPConfig
	Email        EmailConfig
	Queue        Queue
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s" env-description:"must outlast the success countdown stream"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
	AllowedOrigins []string      `env:"HTTP_ALLOWED_ORIGINS" env-default:"*" env-description:"comma separated CORS origins"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	Device DeviceAuthConfig
}

// DeviceAuthConfig holds the credential scope of enrollment devices.
// Kiosk browsers never receive this key.
type DeviceAuthConfig struct {
	SigningKey string        `env:"DEVICE_JWT_SIGNING_KEY" env-required:"true"`
	Issuer     string        `env:"DEVICE_JWT_ISSUER" env-default:"enrollment"`
	TokenTTL   time.Duration `env:"DEVICE_JWT_TTL" env-default:"8760h"`
}

type Store struct {
	Type    string        `env:"STORE_TYPE" env-default:"memory" env-description:"one of memory/mysql/redis/device"`
	Timeout time.Duration `env:"STORE_TIMEOUT" env-default:"5s" env-description:"upper bound for a single store round trip"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER"`
	DBName             string        `env:"DB_NAME"`
	User               string        `env:"DB_USER"`
	Password           string        `env:"DB_PASSWORD"`
	TimeZone           string        `env:"DB_TIMEZONE" env-default:"UTC"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"10"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"20"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-default:"redis" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"localhost:6379" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes: ['172.27.29.90:7000','172.27.29.91:7001', '172.27.29.92:7002']"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

// Device is the local HTTP enrollment device used when STORE_TYPE=device.
type Device struct {
	URL string `env:"DEVICE_URL" env-default:"http://192.168.1.100"`
}

type Registration struct {
	BaseURL          string        `env:"REGISTRATION_BASE_URL" env-required:"true" env-description:"kiosk page the QR code points at"`
	InitialStatus    string        `env:"REGISTRATION_INITIAL_STATUS" env-default:"waiting_for_external_attachment" env-description:"pending or waiting_for_external_attachment"`
	SessionIDFormat  string        `env:"SESSION_ID_FORMAT" env-default:"uuid" env-description:"uuid or legacy (REG_<ms>_<suffix>)"`
	CountdownSeconds int           `env:"REGISTRATION_COUNTDOWN" env-default:"15"`
	CountdownTick    time.Duration `env:"REGISTRATION_COUNTDOWN_TICK" env-default:"1s"`
	ListLimit        int           `env:"REGISTRATION_LIST_LIMIT" env-default:"100"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT" env-default:"587"`
	From string `env:"SMTP_FROM"`
	Pass string `env:"SMTP_PASS"`
}

type EmailConfig struct {
	Enabled bool `env:"EMAIL_ENABLED" env-default:"false"`
}

type Queue struct {
	Enabled     bool `env:"QUEUE_ENABLED" env-default:"false" env-description:"run asynq worker and enqueue completion emails"`
	Concurrency int  `env:"QUEUE_CONCURRENCY" env-default:"10"`
}

func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return &cfg
}
