package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("", nil, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB.Driver != DriverMemory || cfg.HTTP.Port != "8080" || cfg.Addr() != ":8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.HTTP.ReadTimeout != 10*time.Second || cfg.Notify.Workers != 2 || cfg.Notify.QueueSize != 10 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_LayersOverride(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "petworld.yaml")
	if err := os.WriteFile(yamlPath, []byte("db:\n  driver: sqlite\n  sqlite_path: /tmp/a.db\nlog:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("LOG_LEVEL=warn\nNOTIFY_WORKERS=4\nPORT=9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(yamlPath, []string{envPath}, []string{"PORT=9100", "HTTP_READ_TIMEOUT=3s"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DB.Driver != DriverSQLite || cfg.DB.SQLitePath != "/tmp/a.db" {
		t.Fatalf("yaml layer not applied: %+v", cfg.DB)
	}
	if cfg.Log.Level != "warn" || cfg.Notify.Workers != 4 {
		t.Fatalf(".env layer not applied: %+v %+v", cfg.Log, cfg.Notify)
	}
	if cfg.HTTP.Port != "9100" || cfg.HTTP.ReadTimeout != 3*time.Second {
		t.Fatalf("environment layer not applied: %+v", cfg.HTTP)
	}
	// no tocado por ninguna capa
	if cfg.Log.Format != "text" {
		t.Fatalf("expected default format, got %q", cfg.Log.Format)
	}
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	if _, err := load("", []string{filepath.Join(t.TempDir(), "nope.env")}, nil); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string][]string{
		"unknown driver":    {"DB_DRIVER=mysql"},
		"postgres sin dsn":  {"DB_DRIVER=postgres"},
		"workers no válido": {"NOTIFY_WORKERS=0"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := load("", nil, environ); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg, err := load("", nil, []string{"DB_DRIVER=Postgres", "DB_DSN=postgres://x"})
	if err != nil || cfg.DB.Driver != DriverPostgres {
		t.Fatalf("expected normalized postgres driver, got %+v err=%v", cfg, err)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	if _, err := load(filepath.Join(t.TempDir(), "missing.yaml"), nil, nil); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
