package config

import (
	"testing"
	"time"
)

func TestS3ConfigIsConfigured(t *testing.T) {
	t.Run("empty config is not configured", func(t *testing.T) {
		cfg := S3Config{}
		if cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=false for empty config")
		}
	})

	t.Run("required fields set is configured", func(t *testing.T) {
		cfg := S3Config{
			Endpoint:        "https://storage.yandexcloud.net",
			Region:          "ru-central1",
			Bucket:          "bucket",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}
		if !cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=true when all required fields are set")
		}
	})
}

func TestS3ConfigMissingRequired(t *testing.T) {
	cfg := S3Config{
		Endpoint: "https://storage.yandexcloud.net",
		Bucket:   "bucket",
	}
	missing := cfg.MissingRequired()

	want := []string{"S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY"}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %d (%v)", len(want), len(missing), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected missing[%d]=%s, got %s", i, want[i], missing[i])
		}
	}
}

func TestS3ConfigDiagnostics(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		level, code, _ := (S3Config{}).Diagnostics()
		if level != "INFO" || code != "s3_not_configured" {
			t.Fatalf("expected INFO/s3_not_configured, got %s/%s", level, code)
		}
	})

	t.Run("partial config", func(t *testing.T) {
		level, code, _ := (S3Config{Endpoint: "https://storage.yandexcloud.net"}).Diagnostics()
		if level != "WARN" || code != "s3_partial_config" {
			t.Fatalf("expected WARN/s3_partial_config, got %s/%s", level, code)
		}
	})

	t.Run("ready", func(t *testing.T) {
		level, code, _ := (S3Config{
			Endpoint:        "https://storage.yandexcloud.net",
			Region:          "ru-central1",
			Bucket:          "bucket",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}).Diagnostics()
		if level != "INFO" || code != "s3_ready" {
			t.Fatalf("expected INFO/s3_ready, got %s/%s", level, code)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "ENV", "PORT", "LOG_FORMAT", "BLOB_MODE", "BLOB_LOCAL_DIR", "AUTH_MODE", "AUTH_REQUIRED",
		"CATALOG_SNAPSHOT_KEY", "CATALOG_LOAD_TIMEOUT_SECONDS", "CATALOG_WRITE_SNAPSHOT",
		"RECOMMENDER_MEAT_BOOST", "RECOMMENDER_MEAT_RATIO", "RECOMMENDER_NEIGHBORS", "METRICS_ENABLED",
		"DATABASE_URL", "DATABASE_URL_POOLED", "DATABASE_URL_DIRECT", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Env != "local" || cfg.Port != 8080 || cfg.LogFormat != "console" {
		t.Errorf("unexpected base config: env=%s port=%d format=%s", cfg.Env, cfg.Port, cfg.LogFormat)
	}
	if cfg.Blob.Mode != BlobModeLocal || cfg.Blob.LocalDir != "data" {
		t.Errorf("unexpected blob config: %+v", cfg.Blob)
	}
	if cfg.Catalog.SnapshotKey != "models/meal_recommender.json" || cfg.Catalog.LoadTimeout != time.Minute || !cfg.Catalog.WriteSnapshots {
		t.Errorf("unexpected catalog config: %+v", cfg.Catalog)
	}
	if cfg.Recommender.MeatBoost != 1.2 || cfg.Recommender.MeatRatio != 0.65 || cfg.Recommender.Neighbors != 10 {
		t.Errorf("unexpected recommender config: %+v", cfg.Recommender)
	}
	if cfg.AuthMode != AuthModeNone || cfg.AuthRequired {
		t.Errorf("unexpected auth config: mode=%s required=%v", cfg.AuthMode, cfg.AuthRequired)
	}
	if !cfg.MetricsEnabled {
		t.Error("metrics should be enabled by default")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		t.Error("expected localhost CORS origins in local env")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("DATABASE_URL", "postgres://app@db/bioboard")
	t.Setenv("DATABASE_URL_POOLED", "postgres://app@pooler/bioboard")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("RECOMMENDER_MEAT_RATIO", "1.5")
	t.Setenv("RECOMMENDER_MEAT_BOOST", "1.3")
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("METRICS_ENABLED", "0")
	t.Setenv("BLOB_MODE", "carrier-pigeon")

	cfg := Load()

	if cfg.LogFormat != "json" {
		t.Errorf("expected json log format outside local, got %s", cfg.LogFormat)
	}
	if cfg.DatabaseURL != "postgres://app@pooler/bioboard" {
		t.Errorf("expected pooled URL to win, got %s", cfg.DatabaseURL)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Errorf("expected no CORS origins in prod, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Recommender.MeatRatio != 0.65 {
		t.Errorf("expected invalid meat ratio to reset, got %v", cfg.Recommender.MeatRatio)
	}
	if cfg.Recommender.MeatBoost != 1.3 {
		t.Errorf("expected meat boost 1.3, got %v", cfg.Recommender.MeatBoost)
	}
	if cfg.AuthMode != AuthModeDev || !cfg.AuthRequired {
		t.Errorf("unexpected auth config: mode=%s required=%v", cfg.AuthMode, cfg.AuthRequired)
	}
	if cfg.MetricsEnabled {
		t.Error("expected metrics disabled")
	}
	if cfg.Blob.Mode != BlobModeLocal {
		t.Errorf("expected unknown blob mode to fall back to local, got %s", cfg.Blob.Mode)
	}
}
