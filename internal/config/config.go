package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          int      `yaml:"port"`
	DataPath      string   `yaml:"data_path"`
	DBPath        string   `yaml:"db_path"`
	MediaPath     string   `yaml:"media_path"`
	DictPath      string   `yaml:"dict_path"`
	BackendURL    string   `yaml:"backend_url"`
	JWTSecret     string   `yaml:"jwt_secret"`
	AdminUsername string   `yaml:"admin_username"`
	AdminPassword string   `yaml:"admin_password"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

// Load builds the configuration from defaults, an optional YAML file
// (ENGINE_CONFIG), and environment variables, in increasing precedence.
func Load() *Config {
	cfg := &Config{
		Port:          8090,
		DataPath:      "/data",
		MediaPath:     "/media",
		DictPath:      "/data/jmdict.json",
		BackendURL:    "http://localhost:8000/api",
		AdminUsername: "admin",
		AdminPassword: "admin",
		CORSOrigins:   []string{"*"},
	}

	if path := os.Getenv("ENGINE_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			log.Fatalf("Failed to load config file %s: %v", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	cfg.DataPath = getEnv("DATA_PATH", cfg.DataPath)
	cfg.MediaPath = getEnv("MEDIA_PATH", cfg.MediaPath)
	cfg.DictPath = getEnv("DICT_PATH", cfg.DictPath)
	cfg.BackendURL = getEnv("BACKEND_URL", cfg.BackendURL)
	cfg.AdminUsername = getEnv("ADMIN_USERNAME", cfg.AdminUsername)
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.AdminPassword)
	if cfg.DBPath == "" {
		cfg.DBPath = cfg.DataPath + "/engine.db"
	}
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)

	// JWT secret: require explicit setting or generate random
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("Failed to generate random JWT secret: %v", err)
		}
		cfg.JWTSecret = hex.EncodeToString(b)
		log.Println("WARNING: JWT_SECRET not set, using random secret. Sessions will not survive restarts. Set JWT_SECRET env var for persistent sessions.")
	}

	// CORS origins: comma-separated list or "*" (default)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		cfg.CORSOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
