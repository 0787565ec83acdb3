package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: postgres
  host: db.local
  port: 5432
  user: callsight
  password: filepass
  name: callsight
openai:
  model: gpt-4o-mini
minio:
  endpoint: minio.local:9000
  bucketName: transcripts
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("driver = %s", cfg.Database.Driver)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("model = %s", cfg.OpenAI.Model)
	}
	if cfg.Minio.BucketName != "transcripts" {
		t.Fatalf("bucket = %s", cfg.Minio.BucketName)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("DB_PASSWORD", "envpass")

	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: mysql
  password: filepass
openai:
  apiKey: sk-file
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-env" {
		t.Fatalf("APIKey = %s, env must win", cfg.OpenAI.APIKey)
	}
	if cfg.Database.Password != "envpass" {
		t.Fatalf("Password = %s, env must win", cfg.Database.Password)
	}
}

func TestLoadDefaultDriver(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "mysql" {
		t.Fatalf("driver = %s, want mysql default", cfg.Database.Driver)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("Load of missing file succeeded")
	}
}

func TestDSNs(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db.local"
	cfg.Database.Port = 3306
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Name = "callsight"

	want := "u:p@tcp(db.local:3306)/callsight?parseTime=true&charset=utf8mb4&loc=UTC"
	if got := cfg.MySQLDSN(); got != want {
		t.Fatalf("MySQLDSN = %q, want %q", got, want)
	}

	cfg.Database.Port = 5432
	wantPG := "host=db.local port=5432 user=u password=p dbname=callsight sslmode=disable"
	if got := cfg.PostgresDSN(); got != wantPG {
		t.Fatalf("PostgresDSN = %q, want %q", got, wantPG)
	}
}
