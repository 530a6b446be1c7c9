// Package config arma la configuración en capas: defaults embebidos, archivo
// YAML opcional, archivo .env y por último variables de entorno.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ConfigPathEnv apunta a un YAML cuando no se pasa --config.
const ConfigPathEnv = "PETWORLD_CONFIG"

type Config struct {
	App    AppConfig    `yaml:"app"`
	HTTP   HTTPConfig   `yaml:"http"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Auth   AuthConfig   `yaml:"auth"`
	Notify NotifyConfig `yaml:"notify"`
	OTel   OTelConfig   `yaml:"otel"`
}

type AppConfig struct {
	Name string `yaml:"name" env:"APP_NAME"`
}

type HTTPConfig struct {
	Port            string        `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

type DBConfig struct {
	// memory | postgres | sqlite
	Driver     string `yaml:"driver" env:"DB_DRIVER"`
	DSN        string `yaml:"dsn" env:"DB_DSN"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type AuthConfig struct {
	// Vacío = modo dev (header X-Debug-User-ID).
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTIssuer string `yaml:"jwt_issuer" env:"JWT_ISSUER"`
}

type NotifyConfig struct {
	WebhookURL  string `yaml:"webhook_url" env:"NOTIFY_WEBHOOK_URL"`
	Workers     int    `yaml:"workers" env:"NOTIFY_WORKERS"`
	QueueSize   int    `yaml:"queue_size" env:"NOTIFY_QUEUE_SIZE"`
	MaxAttempts int    `yaml:"max_attempts" env:"NOTIFY_MAX_ATTEMPTS"`
}

type OTelConfig struct {
	Endpoint string `yaml:"endpoint" env:"OTEL_ENDPOINT"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load resuelve la configuración. path vacío cae en $PETWORLD_CONFIG; sin ninguno
// se usan solo defaults + entorno. Un .env en el directorio actual es opcional.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	return load(path, []string{".env"}, os.Environ())
}

func load(path string, envFiles []string, environ []string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// solo pisa los campos presentes en el archivo
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	vars, err := readEnvFiles(envFiles)
	if err != nil {
		return nil, err
	}
	// el entorno real gana sobre el .env
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	vars := map[string]string{}
	for _, f := range files {
		m, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		for k, v := range m {
			vars[k] = v
		}
	}
	return vars, nil
}

func (c *Config) Validate() error {
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.DB.DSN) == "" {
			return errors.New("config: DB_DSN is required for postgres")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.DB.SQLitePath) == "" {
			return errors.New("config: SQLITE_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DB.Driver)
	}

	if strings.TrimSpace(c.HTTP.Port) == "" {
		return errors.New("config: PORT is required")
	}
	if c.Notify.Workers <= 0 || c.Notify.QueueSize <= 0 || c.Notify.MaxAttempts <= 0 {
		return errors.New("config: notify workers, queue size and max attempts must be positive")
	}
	return nil
}

// Addr es la dirección de escucha del servidor HTTP.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.HTTP.Port, ":")
}
