package database

import (
	"testing"
	"time"

	"github.com/Alijeyrad/halisaha_backend/config"
)

func TestFromCentralConfig(t *testing.T) {
	cfg := FromCentralConfig(config.DatabaseConfig{
		User:   "halisaha",
		DBName: "halisaha",
	})

	if cfg.Host != "localhost" || cfg.Port != 5432 || cfg.SSLMode != "disable" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	want := "host=localhost port=5432 user=halisaha password= dbname=halisaha sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if cfg.ConnMaxLifetime() != 5*time.Minute {
		t.Errorf("ConnMaxLifetime() = %v", cfg.ConnMaxLifetime())
	}
}
