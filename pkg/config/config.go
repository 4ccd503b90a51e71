package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Storage  StorageConfig
	DB       DBConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Security SecurityConfig
	Seed     SeedConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Drivers de almacenamiento del catálogo.
const (
	StorageJSON     = "json"
	StoragePostgres = "postgres"
)

// StorageConfig dónde vive el catálogo: archivos JSON en DataDir o PostgreSQL.
type StorageConfig struct {
	Driver  string
	DataDir string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// Drivers de caché de lectura.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// CacheConfig caché de vistas de lectura de la API.
type CacheConfig struct {
	Driver     string
	TTLSeconds int
}

// TTL duración de cada entrada.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RedisConfig conexión a Redis (solo con CACHE_DRIVER=redis).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SecurityConfig parámetros de contraseñas y recuperación.
type SecurityConfig struct {
	BcryptCost int
	// ExposeResetToken devuelve el token de recuperación en la respuesta (solo para demos sin email).
	ExposeResetToken bool
}

// SeedConfig datos iniciales cuando el catálogo está vacío.
type SeedConfig struct {
	Enabled       bool
	AdminName     string
	AdminEmail    string
	AdminPhone    string
	AdminPassword string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORAGE_DRIVER, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "vortex-catalogo"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 5000),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "vortex-catalogo"),
		},
		Storage: StorageConfig{
			Driver:  strings.ToLower(getString(v, "STORAGE_DRIVER", StorageJSON)),
			DataDir: getString(v, "DATA_DIR", "dados"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "vortex_catalogo"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
			MinConns:    getInt(v, "DB_MIN_CONNS", 1),
		},
		Cache: CacheConfig{
			Driver:     strings.ToLower(getString(v, "CACHE_DRIVER", CacheMemory)),
			TTLSeconds: getInt(v, "CACHE_TTL_SECONDS", 60),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Security: SecurityConfig{
			BcryptCost:       getInt(v, "BCRYPT_COST", 10),
			ExposeResetToken: getBool(v, "SECURITY_EXPOSE_RESET_TOKEN", false),
		},
		Seed: SeedConfig{
			Enabled:       getBool(v, "SEED_DEFAULTS", true),
			AdminName:     getString(v, "ADMIN_NAME", "Administrador"),
			AdminEmail:    getString(v, "ADMIN_EMAIL", "admin@vortex.com"),
			AdminPhone:    getString(v, "ADMIN_PHONE", "11999999999"),
			AdminPassword: getString(v, "ADMIN_PASSWORD", "admin@2025"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageJSON, StoragePostgres:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER %q no soportado", c.Storage.Driver)
	}
	switch c.Cache.Driver {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("config: CACHE_DRIVER %q no soportado", c.Cache.Driver)
	}
	if c.JWT.Secret == "" && c.App.Env == "production" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio en production")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
