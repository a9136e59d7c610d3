// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	SandboxURL  string
	DatabaseURL string
	JWTSecret   string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSecure    bool

	// SelfURL enables the keep-alive self-ping when set.
	SelfURL string
}

// Load reads the environment. Missing required settings are a startup-time
// error, never deferred to request handling.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		SandboxURL:     os.Getenv("SANDBOX_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "runyard-files"),
		MinioSecure:    getEnv("MINIO_SECURE", "true") == "true",
		SelfURL:        os.Getenv("SELF_URL"),
	}

	for name, v := range map[string]string{
		"SANDBOX_URL":      cfg.SandboxURL,
		"DATABASE_URL":     cfg.DatabaseURL,
		"JWT_SECRET":       cfg.JWTSecret,
		"MINIO_ENDPOINT":   cfg.MinioEndpoint,
		"MINIO_ACCESS_KEY": cfg.MinioAccessKey,
		"MINIO_SECRET_KEY": cfg.MinioSecretKey,
	} {
		if v == "" {
			return Config{}, fmt.Errorf("%s is required", name)
		}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
