package dbmigrate

import (
	"errors"
	"fmt"

	"github.com/fdg312/bioboard/internal/config"
)

const pooledDDLWarning = "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT"

// SelectDatabaseURL выбирает URL для миграций.
// Порядок: DATABASE_URL_DIRECT > DATABASE_URL > DATABASE_URL_POOLED (с предупреждением).
// При requireDirect принимается только DATABASE_URL_DIRECT.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (dbURL, source, warning string, err error) {
	candidates := []struct {
		env, url, warning string
	}{
		{"DATABASE_URL_DIRECT", cfg.DatabaseURLDirect, ""},
		{"DATABASE_URL", cfg.DatabaseURLRaw, ""},
		{"DATABASE_URL_POOLED", cfg.DatabaseURLPooled, pooledDDLWarning},
	}
	if requireDirect {
		candidates = candidates[:1]
	}

	for _, c := range candidates {
		if c.url != "" {
			return c.url, c.env, c.warning, nil
		}
	}

	if requireDirect {
		return "", "", "", errors.New("DATABASE_URL_DIRECT is required for DDL/migrations")
	}
	return "", "", "", fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}
