package blob

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appcfg "github.com/fdg312/bioboard/internal/config"
)

// NewBlobStore picks a store for BLOB_MODE local|s3|auto and reports the
// effective mode. auto falls back to local when S3 is absent or broken; s3
// fails hard instead. A nil logger disables diagnostics.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger *zerolog.Logger) (Store, string, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		logger.Info().Str("mode", "local").Str("dir", cfg.LocalDir).Msg("blob store (forced)")
		return newLocal(cfg)

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			_, code, msg := cfg.S3.Diagnostics()
			logger.Info().Str("code", code).Str("s3", cfg.S3.DiagnosticsSummary()).Msg(msg)
			logger.Info().Str("mode", "local").Msg("blob store (auto, S3 not configured)")
			return newLocal(cfg)
		}
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			logger.Warn().Err(err).Str("fallback", "local").Msg("blob s3 init failed")
			return newLocal(cfg)
		}
		logger.Info().Str("mode", "s3").Str("s3", cfg.S3.DiagnosticsSummary()).Msg("blob store (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if missing := cfg.S3.MissingRequired(); len(missing) > 0 {
			logger.Error().Strs("missing", missing).Str("code", "s3_config_incomplete").Msg("blob s3")
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}
		logger.Info().Str("mode", "s3").Str("s3", cfg.S3.DiagnosticsSummary()).Msg("blob store (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func newLocal(cfg appcfg.BlobConfig) (Store, string, error) {
	dir := strings.TrimSpace(cfg.LocalDir)
	if dir == "" {
		dir = "data"
	}
	store, err := NewLocalStore(dir)
	if err != nil {
		return nil, "", err
	}
	return store, appcfg.BlobModeLocal, nil
}
