package blob

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	appcfg "github.com/fdg312/bioboard/internal/config"
)

func bufferLogger(buf *bytes.Buffer) *zerolog.Logger {
	l := zerolog.New(buf)
	return &l
}

func TestNewBlobStore(t *testing.T) {
	configuredS3 := appcfg.S3Config{
		Endpoint:        "https://storage.yandexcloud.net",
		Region:          "ru-central1",
		Bucket:          "bioboard",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	}

	tests := []struct {
		name     string
		cfg      appcfg.BlobConfig
		wantMode string
		wantErr  string
		wantLog  []string
	}{
		{
			name:     "local forced",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeLocal},
			wantMode: appcfg.BlobModeLocal,
			wantLog:  []string{"blob store (forced)", `"mode":"local"`},
		},
		{
			name:     "empty mode defaults to local",
			cfg:      appcfg.BlobConfig{},
			wantMode: appcfg.BlobModeLocal,
		},
		{
			name:     "auto without s3 falls back",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeAuto},
			wantMode: appcfg.BlobModeLocal,
			wantLog:  []string{"s3_not_configured", "auto, S3 not configured"},
		},
		{
			name:     "auto with s3",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeAuto, S3: configuredS3},
			wantMode: appcfg.BlobModeS3,
		},
		{
			name:    "s3 missing config",
			cfg:     appcfg.BlobConfig{Mode: appcfg.BlobModeS3, S3: appcfg.S3Config{Endpoint: "https://storage.yandexcloud.net"}},
			wantErr: "missing required config",
			wantLog: []string{"s3_config_incomplete", "S3_BUCKET"},
		},
		{
			name:     "s3 configured",
			cfg:      appcfg.BlobConfig{Mode: appcfg.BlobModeS3, S3: configuredS3},
			wantMode: appcfg.BlobModeS3,
		},
		{
			name:    "unknown mode",
			cfg:     appcfg.BlobConfig{Mode: "ftp"},
			wantErr: "unsupported blob mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.cfg.LocalDir = t.TempDir()

			store, mode, err := NewBlobStore(context.Background(), tt.cfg, bufferLogger(&buf))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				if store != nil || mode != "" {
					t.Fatalf("expected nil store and empty mode, got %T %q", store, mode)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if mode != tt.wantMode {
					t.Fatalf("expected mode=%s, got %s", tt.wantMode, mode)
				}
				switch mode {
				case appcfg.BlobModeLocal:
					local, ok := store.(*LocalStore)
					if !ok || local.Root() != tt.cfg.LocalDir {
						t.Fatalf("expected local store at %s, got %T", tt.cfg.LocalDir, store)
					}
				case appcfg.BlobModeS3:
					if _, ok := store.(*S3Store); !ok {
						t.Fatalf("expected *S3Store, got %T", store)
					}
				}
			}

			for _, want := range tt.wantLog {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected log to contain %q, got: %s", want, buf.String())
				}
			}
		})
	}
}

func TestNewBlobStoreNilLogger(t *testing.T) {
	if _, _, err := NewBlobStore(context.Background(), appcfg.BlobConfig{LocalDir: t.TempDir()}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
