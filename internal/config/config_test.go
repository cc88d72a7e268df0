package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 3000

database:
  host: localhost
  port: 5432
  user: neonfood
  password: "secret"
  database: neonfood

rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Database.Password != "secret" {
		t.Errorf("database.password = %q, want quotes stripped", cfg.Database.Password)
	}
	if cfg.RabbitMQ.Port != 5672 {
		t.Errorf("rabbitmq.port = %d, want 5672", cfg.RabbitMQ.Port)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: neonfood
  password: file-password
  database: neonfood
`)

	t.Setenv("NEONFOOD_DB_PASSWORD", "env-password")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Password != "env-password" {
		t.Errorf("database.password = %q, want env override", cfg.Database.Password)
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "neonfood",
	}}
	want := "postgres://u:p@db:5432/neonfood"
	if got := cfg.DatabaseURL(); got != want {
		t.Errorf("DatabaseURL() = %q, want %q", got, want)
	}
}
