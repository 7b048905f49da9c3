package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	AppConfig struct {
		Name                 string        `mapstructure:"name"`
		Version              string        `mapstructure:"version"`
		Port                 int           `mapstructure:"port"`
		Environment          string        `mapstructure:"environment"`
		PathPrefix           string        `mapstructure:"path_prefix"`
		RequestTimeout       time.Duration `mapstructure:"request_timeout"`
		ShutdownTimeout      time.Duration `mapstructure:"shutdown_timeout"`
		ExposeInternalErrors bool          `mapstructure:"expose_internal_errors"`
	}

	LoggerConfig struct {
		Level       string `mapstructure:"level"`
		Format      string `mapstructure:"format"`
		FilePath    string `mapstructure:"filepath"`
		MaxSize     int    `mapstructure:"max_size"`
		MaxAge      int    `mapstructure:"max_age"`
		MaxBackups  int    `mapstructure:"max_backups"`
		Compress    bool   `mapstructure:"compress"`
		LocalTime   bool   `mapstructure:"localTime"`
		Environment string
	}

	DatabaseConfig struct {
		Type           string         `mapstructure:"type"`
		MongoConfig    MongoConfig    `mapstructure:"mongo"`
		PostgresConfig PostgresConfig `mapstructure:"postgres"`
	}

	PostgresConfig struct {
		ConnectionString  string `mapstructure:"connection_string"`
		ConnectTimeout    int    `mapstructure:"connect_timeout"`
		MaxConns          int32  `mapstructure:"max_conns"`
		MinConns          int32  `mapstructure:"min_conns"`
		ConnMaxLifetime   int    `mapstructure:"conn_max_lifetime"`
		ConnMaxIdleTime   int    `mapstructure:"conn_max_idle_time"`
		HealthCheckPeriod int    `mapstructure:"health_check_period"`
	}

	MongoConfig struct {
		URI             string `mapstructure:"uri"`
		Database        string `mapstructure:"database"`
		ConnectTimeout  int    `mapstructure:"connect_timeout"`
		MaxPoolSize     uint64 `mapstructure:"max_pool_size"`
		MinPoolSize     uint64 `mapstructure:"min_pool_size"`
		MaxConnIdleTime int    `mapstructure:"max_conn_idle_time"`
	}

	AuthConfig struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
		Issuer    string        `mapstructure:"issuer"`
		HashCost  int           `mapstructure:"hash_cost"`
	}

	CORSConfig struct {
		Enabled          bool     `mapstructure:"enabled"`
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	}

	CacheConfig struct {
		Enabled    bool   `mapstructure:"enabled"`
		Type       string `mapstructure:"type"`
		Capacity   int    `mapstructure:"capacity"`
		DefaultTTL int    `mapstructure:"default_ttl"`
	}

	RedisConfig struct {
		Type       string `mapstructure:"type"`
		Addr       string `mapstructure:"addr"`
		MasterName string `mapstructure:"master_name"`
		Password   string `mapstructure:"password"`
		DB         int    `mapstructure:"db"`
		KeyPrefix  string `mapstructure:"key_prefix"`
	}

	MetricsConfig struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	}

	GRPCConfig struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	}
)

type Env struct {
	AppConfig      AppConfig      `mapstructure:"app"`
	LoggerConfig   LoggerConfig   `mapstructure:"logging"`
	DatabaseConfig DatabaseConfig `mapstructure:"database"`
	AuthConfig     AuthConfig     `mapstructure:"auth"`
	CORSConfig     CORSConfig     `mapstructure:"cors"`
	CacheConfig    CacheConfig    `mapstructure:"cache"`
	RedisConfig    RedisConfig    `mapstructure:"redis"`
	MetricsConfig  MetricsConfig  `mapstructure:"metrics"`
	GRPCConfig     GRPCConfig     `mapstructure:"grpc"`
}

var ErrMissingJWTSecret = errors.New("auth.jwt_secret is required (set JWT_SECRET)")

// envAliases lists plain variable names accepted besides the ENV_ prefixed
// ones. Earlier names take precedence.
var envAliases = map[string][]string{
	"app.port":                            {"ENV_APP_PORT", "PORT"},
	"app.environment":                     {"ENV_APP_ENVIRONMENT", "APP_ENV"},
	"app.name":                            {"ENV_APP_NAME", "APP_NAME"},
	"database.mongo.uri":                  {"ENV_DATABASE_MONGO_URI", "MONGO_URI"},
	"database.postgres.connection_string": {"ENV_DATABASE_POSTGRES_CONNECTION_STRING", "DATABASE_URL"},
	"auth.jwt_secret":                     {"ENV_AUTH_JWT_SECRET", "JWT_SECRET"},
	"redis.addr":                          {"ENV_REDIS_ADDR", "REDIS_ADDR"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "employee-api")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.port", 5000)
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.path_prefix", "/api")
	v.SetDefault("app.request_timeout", 10*time.Second)
	v.SetDefault("app.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "debug")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.filepath", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.compress", true)
	v.SetDefault("logging.localTime", true)

	v.SetDefault("database.type", "mongodb")
	v.SetDefault("database.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongo.database", "employee_db")
	v.SetDefault("database.mongo.connect_timeout", 30)
	v.SetDefault("database.mongo.max_pool_size", 0)
	v.SetDefault("database.mongo.min_pool_size", 0)
	v.SetDefault("database.mongo.max_conn_idle_time", 0)
	v.SetDefault("database.postgres.connection_string", "")
	v.SetDefault("database.postgres.connect_timeout", 30)
	v.SetDefault("database.postgres.max_conns", 0)
	v.SetDefault("database.postgres.min_conns", 0)
	v.SetDefault("database.postgres.conn_max_lifetime", 0)
	v.SetDefault("database.postgres.conn_max_idle_time", 0)
	v.SetDefault("database.postgres.health_check_period", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.issuer", "employee-api")
	v.SetDefault("auth.hash_cost", 10)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization"})
	v.SetDefault("cors.exposed_headers", []string{})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 43200)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.type", "lru")
	v.SetDefault("cache.capacity", 1000)
	v.SetDefault("cache.default_ttl", 60)

	v.SetDefault("redis.type", "normal")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.master_name", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "employee-api:")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.port", 5001)
}

// Load reads config.yaml from configPath (if present) and overlays the
// environment. A missing file is not an error: every key has a default.
func Load(configPath string) (*Env, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	setDefaults(v)

	// app.port -> ENV_APP_PORT
	v.SetEnvPrefix("env")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	env.LoggerConfig.Environment = env.AppConfig.Environment
	if env.IsProduction() {
		env.LoggerConfig.Level = "info"
	}

	// Store messages reach clients outside production unless configured otherwise.
	if v.IsSet("app.expose_internal_errors") {
		env.AppConfig.ExposeInternalErrors = v.GetBool("app.expose_internal_errors")
	} else {
		env.AppConfig.ExposeInternalErrors = !env.IsProduction()
	}

	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (e *Env) IsProduction() bool {
	return e.AppConfig.Environment == "production"
}

func (e *Env) validate() error {
	if e.AuthConfig.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch e.DatabaseConfig.Type {
	case "mongodb", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database type: %q", e.DatabaseConfig.Type)
	}
	if e.DatabaseConfig.Type == "postgres" && e.DatabaseConfig.PostgresConfig.ConnectionString == "" {
		return errors.New("database.postgres.connection_string is required (set DATABASE_URL)")
	}
	if e.CacheConfig.Enabled {
		switch strings.ToLower(e.CacheConfig.Type) {
		case "lru", "fifo", "redis":
		default:
			return fmt.Errorf("unsupported cache type: %q", e.CacheConfig.Type)
		}
	}
	if e.AuthConfig.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", e.AuthConfig.TokenTTL)
	}
	return nil
}

// PrintStartup writes a short summary of the effective configuration.
// Secrets and connection strings are left out.
func (e *Env) PrintStartup(w io.Writer) {
	line := strings.Repeat("=", 40)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "🚀 Application Configuration")
	fmt.Fprintln(w, line)

	fmt.Fprintf(w, "%-15s: %s\n", "App Name", e.AppConfig.Name)
	fmt.Fprintf(w, "%-15s: %s\n", "Version", e.AppConfig.Version)
	fmt.Fprintf(w, "%-15s: %s\n", "Environment", e.AppConfig.Environment)
	fmt.Fprintf(w, "%-15s: %d\n", "Port", e.AppConfig.Port)
	fmt.Fprintf(w, "%-15s: %s\n", "Database", e.DatabaseConfig.Type)
	fmt.Fprintf(w, "%-15s: %s\n", "Log Level", e.LoggerConfig.Level)

	fmt.Fprintln(w, line)
}
