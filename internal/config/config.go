package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Cache     CacheConfig     `yaml:"cache"`
	Session   SessionConfig   `yaml:"session"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Outbox    OutboxConfig    `yaml:"outbox"`
	Storage   StorageConfig   `yaml:"storage"`
	Admin     AdminConfig     `yaml:"admin"`
	Order     OrderConfig     `yaml:"order"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that overwrites them.
	TrustProxy bool `yaml:"trustProxy"`
}

func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	AutoMigrate     bool          `yaml:"autoMigrate"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"poolSize"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type CacheConfig struct {
	// Driver is "redis" or "noop".
	Driver string `yaml:"driver"`
}

type SessionConfig struct {
	// Driver is "redis" or "memory".
	Driver     string        `yaml:"driver"`
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookieName"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	OrderTopic string   `yaml:"orderTopic"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type OutboxConfig struct {
	Interval  time.Duration `yaml:"interval"`
	BatchSize int           `yaml:"batchSize"`
}

type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
	PublicURL string `yaml:"publicUrl"`
}

type AdminConfig struct {
	SecretKey string `yaml:"secretKey"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

type OrderConfig struct {
	TxTimeout       time.Duration `yaml:"txTimeout"`
	NumberPrefix    string        `yaml:"numberPrefix"`
	Currency        string        `yaml:"currency"`
	IdempotencyTTL  time.Duration `yaml:"idempotencyTtl"`
	MaxItemQuantity int           `yaml:"maxItemQuantity"`
}

type RateLimitConfig struct {
	PublicRequests   int           `yaml:"publicRequests"`
	PublicWindow     time.Duration `yaml:"publicWindow"`
	SearchRequests   int           `yaml:"searchRequests"`
	SearchWindow     time.Duration `yaml:"searchWindow"`
	CheckoutRequests int           `yaml:"checkoutRequests"`
	CheckoutWindow   time.Duration `yaml:"checkoutWindow"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 3001)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("TRUST_PROXY", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "storefront")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("CACHE_DRIVER", "noop")
	v.SetDefault("SESSION_DRIVER", "memory")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("SESSION_COOKIE_NAME", "sessionId")

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_ORDER_TOPIC", "orders.placed")
	v.SetDefault("OUTBOX_INTERVAL", "2s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)

	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "product-images")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("STORAGE_PUBLIC_URL", "")

	v.SetDefault("ADMIN_SECRET_KEY", "")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("ORDER_TX_TIMEOUT", "5s")
	v.SetDefault("ORDER_NUMBER_PREFIX", "LUG")
	v.SetDefault("ORDER_CURRENCY", "INR")
	v.SetDefault("ORDER_IDEMPOTENCY_TTL", "24h")
	v.SetDefault("ORDER_MAX_ITEM_QUANTITY", 10000)

	v.SetDefault("RATE_LIMIT_PUBLIC_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_PUBLIC_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_SEARCH_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_SEARCH_WINDOW", "1m")
	v.SetDefault("RATE_LIMIT_CHECKOUT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_CHECKOUT_WINDOW", "1m")

	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
}

// Defaults returns a Config holding the boolean defaults. Booleans have no
// "unset" zero value, so they are seeded before the YAML file is decoded
// over them; every other field is defaulted by ApplyEnv.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)

	return Config{
		Database: DatabaseConfig{AutoMigrate: v.GetBool("DB_AUTO_MIGRATE")},
		Storage:  StorageConfig{UseSSL: v.GetBool("STORAGE_USE_SSL")},
	}
}

// Load builds a Config from defaults and environment variables only.
func Load() (*Config, error) {
	cfg := Defaults()
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv fills cfg from the environment. A value already present in cfg
// (for example from a YAML file) is kept unless the matching variable is set.
// Booleans only change when their variable is set; seed them with Defaults.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	str := func(dst *string, key string) {
		if *dst == "" || envSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(dst *int, key string) {
		if *dst == 0 || envSet(key) {
			*dst = v.GetInt(key)
		}
	}
	flag := func(dst *bool, key string) {
		if envSet(key) {
			*dst = v.GetBool(key)
		}
	}
	dur := func(dst *time.Duration, key string) error {
		if *dst != 0 && !envSet(key) {
			return nil
		}
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
	list := func(dst *[]string, key string) {
		if len(*dst) == 0 || envSet(key) {
			*dst = splitCSV(v.GetString(key))
		}
	}

	num(&cfg.Server.Port, "SERVER_PORT")
	str(&cfg.Server.Environment, "ENVIRONMENT")
	flag(&cfg.Server.TrustProxy, "TRUST_PROXY")

	str(&cfg.Database.Host, "DB_HOST")
	num(&cfg.Database.Port, "DB_PORT")
	str(&cfg.Database.User, "DB_USER")
	str(&cfg.Database.Password, "DB_PASSWORD")
	str(&cfg.Database.Name, "DB_NAME")
	num(&cfg.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	num(&cfg.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	if err := dur(&cfg.Database.ConnMaxLifetime, "DB_CONN_MAX_LIFETIME"); err != nil {
		return err
	}
	flag(&cfg.Database.AutoMigrate, "DB_AUTO_MIGRATE")

	str(&cfg.Redis.Addr, "REDIS_ADDR")
	str(&cfg.Redis.Password, "REDIS_PASSWORD")
	num(&cfg.Redis.DB, "REDIS_DB")
	num(&cfg.Redis.PoolSize, "REDIS_POOL_SIZE")

	str(&cfg.Cache.Driver, "CACHE_DRIVER")
	str(&cfg.Session.Driver, "SESSION_DRIVER")
	if err := dur(&cfg.Session.TTL, "SESSION_TTL"); err != nil {
		return err
	}
	str(&cfg.Session.CookieName, "SESSION_COOKIE_NAME")

	list(&cfg.Kafka.Brokers, "KAFKA_BROKERS")
	str(&cfg.Kafka.OrderTopic, "KAFKA_ORDER_TOPIC")
	if err := dur(&cfg.Outbox.Interval, "OUTBOX_INTERVAL"); err != nil {
		return err
	}
	num(&cfg.Outbox.BatchSize, "OUTBOX_BATCH_SIZE")

	str(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	str(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	str(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	str(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	flag(&cfg.Storage.UseSSL, "STORAGE_USE_SSL")
	str(&cfg.Storage.PublicURL, "STORAGE_PUBLIC_URL")

	str(&cfg.Admin.SecretKey, "ADMIN_SECRET_KEY")
	str(&cfg.Admin.Username, "ADMIN_USERNAME")
	str(&cfg.Admin.Password, "ADMIN_PASSWORD")

	if err := dur(&cfg.Order.TxTimeout, "ORDER_TX_TIMEOUT"); err != nil {
		return err
	}
	str(&cfg.Order.NumberPrefix, "ORDER_NUMBER_PREFIX")
	str(&cfg.Order.Currency, "ORDER_CURRENCY")
	if err := dur(&cfg.Order.IdempotencyTTL, "ORDER_IDEMPOTENCY_TTL"); err != nil {
		return err
	}
	num(&cfg.Order.MaxItemQuantity, "ORDER_MAX_ITEM_QUANTITY")

	num(&cfg.RateLimit.PublicRequests, "RATE_LIMIT_PUBLIC_REQUESTS")
	if err := dur(&cfg.RateLimit.PublicWindow, "RATE_LIMIT_PUBLIC_WINDOW"); err != nil {
		return err
	}
	num(&cfg.RateLimit.SearchRequests, "RATE_LIMIT_SEARCH_REQUESTS")
	if err := dur(&cfg.RateLimit.SearchWindow, "RATE_LIMIT_SEARCH_WINDOW"); err != nil {
		return err
	}
	num(&cfg.RateLimit.CheckoutRequests, "RATE_LIMIT_CHECKOUT_REQUESTS")
	if err := dur(&cfg.RateLimit.CheckoutWindow, "RATE_LIMIT_CHECKOUT_WINDOW"); err != nil {
		return err
	}

	list(&cfg.CORS.AllowedOrigins, "FRONTEND_URL")
	str(&cfg.Log.Level, "LOG_LEVEL")

	return nil
}
