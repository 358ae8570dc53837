package config_test

import (
	"os"
	"testing"

	"todo-api/backend/internal/config"
)

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	if _, err := config.LoadConfig(); err == nil {
		t.Error("Expected error when JWT_SECRET is unset")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.GetServerAddr() != "0.0.0.0:8080" {
		t.Errorf("Unexpected server addr: %s", cfg.GetServerAddr())
	}
	if cfg.GetRedisAddr() != "localhost:6379" {
		t.Errorf("Unexpected redis addr: %s", cfg.GetRedisAddr())
	}
	if cfg.IsProduction() {
		t.Error("Expected development environment by default")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_CORSOriginList(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("CORS_ORIGINS", " http://a.example , http://b.example ,")
	defer os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("CORS_ORIGINS")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("Expected 2 origins, got %v", cfg.CORSOrigins)
	}
	if cfg.CORSOrigins[0] != "http://a.example" || cfg.CORSOrigins[1] != "http://b.example" {
		t.Errorf("Origins not trimmed: %v", cfg.CORSOrigins)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_NAME", "todos")
	defer func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_NAME")
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	expected := "host=db.internal port=5432 user=todo password= dbname=todos sslmode=disable"
	if dsn != expected {
		t.Errorf("Expected DSN %q, got %q", expected, dsn)
	}
}
