package dbmigrate

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/fdg312/bioboard/internal/config"
)

func TestSelectDatabaseURL(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.Config
		requireDirect bool
		wantURL       string
		wantSource    string
		wantWarning   bool
		wantErr       bool
	}{
		{
			name:       "direct wins",
			cfg:        config.Config{DatabaseURLDirect: "postgres://direct", DatabaseURLRaw: "postgres://url", DatabaseURLPooled: "postgres://pooled"},
			wantURL:    "postgres://direct",
			wantSource: "DATABASE_URL_DIRECT",
		},
		{
			name:       "database url before pooled",
			cfg:        config.Config{DatabaseURLRaw: "postgres://url", DatabaseURLPooled: "postgres://pooled"},
			wantURL:    "postgres://url",
			wantSource: "DATABASE_URL",
		},
		{
			name:        "pooled warns",
			cfg:         config.Config{DatabaseURLPooled: "postgres://pooled"},
			wantURL:     "postgres://pooled",
			wantSource:  "DATABASE_URL_POOLED",
			wantWarning: true,
		},
		{
			name:          "require direct missing",
			cfg:           config.Config{DatabaseURLRaw: "postgres://url", DatabaseURLPooled: "postgres://pooled"},
			requireDirect: true,
			wantErr:       true,
		},
		{
			name:          "require direct present",
			cfg:           config.Config{DatabaseURLDirect: "postgres://direct"},
			requireDirect: true,
			wantURL:       "postgres://direct",
			wantSource:    "DATABASE_URL_DIRECT",
		},
		{
			name:    "nothing configured",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbURL, source, warning, err := SelectDatabaseURL(&tt.cfg, tt.requireDirect)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dbURL != tt.wantURL || source != tt.wantSource {
				t.Fatalf("got dbURL=%q source=%q, want %q %q", dbURL, source, tt.wantURL, tt.wantSource)
			}
			if (warning != "") != tt.wantWarning {
				t.Errorf("warning = %q, wantWarning %v", warning, tt.wantWarning)
			}
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected embedded migrations")
	}

	data, err := fs.ReadFile(Migrations(), "00001_create_meals.sql")
	if err != nil {
		t.Fatalf("read meals migration: %v", err)
	}
	for _, marker := range []string{"-- +goose Up", "-- +goose Down", "CREATE TABLE IF NOT EXISTS meals"} {
		if !strings.Contains(string(data), marker) {
			t.Errorf("meals migration missing %q", marker)
		}
	}
}

func TestRunRejectsEmptyURL(t *testing.T) {
	if err := Run(context.Background(), "up", ""); err == nil {
		t.Fatal("expected error for empty database URL")
	}
}
