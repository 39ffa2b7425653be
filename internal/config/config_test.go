package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != 8090 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:8000/api" {
		t.Errorf("backend url = %s", cfg.BackendURL)
	}
	if cfg.DBPath != "/data/engine.db" {
		t.Errorf("db path = %s", cfg.DBPath)
	}
	if cfg.JWTSecret == "" {
		t.Error("jwt secret not generated")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_PATH", "/var/engine")
	t.Setenv("BACKEND_URL", "https://api.example.com")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()
	if cfg.Port != 9000 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.DataPath != "/var/engine" {
		t.Errorf("data path = %s", cfg.DataPath)
	}
	if cfg.DBPath != "/var/engine/engine.db" {
		t.Errorf("db path = %s", cfg.DBPath)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Errorf("backend url = %s", cfg.BackendURL)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	content := `
port: 7070
media_path: /mnt/media
dict_path: /mnt/jmdict.json
backend_url: http://backend:8000/api
jwt_secret: from-file
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENGINE_CONFIG", path)

	cfg := Load()
	if cfg.Port != 7070 || cfg.MediaPath != "/mnt/media" || cfg.DictPath != "/mnt/jmdict.json" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.JWTSecret != "from-file" {
		t.Errorf("jwt secret = %s", cfg.JWTSecret)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("port: 7070\nbackend_url: http://file:8000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENGINE_CONFIG", path)
	t.Setenv("BACKEND_URL", "http://env:8000")

	cfg := Load()
	if cfg.BackendURL != "http://env:8000" {
		t.Errorf("backend url = %s, env should win", cfg.BackendURL)
	}
	if cfg.Port != 7070 {
		t.Errorf("port = %d, file value should survive without env override", cfg.Port)
	}
}
