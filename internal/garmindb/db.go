package garmindb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Open opens the garmin activities sqlite db read only and pings it.
// This tool never writes to the store GarminDB owns.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open garmin db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping garmin db: %w", err)
	}

	log.Debugf("garmin activities db opened: %s", path)
	return db, nil
}

// readOnlyDSN builds a sqlite URI, file:///abs/path?mode=ro. The path is
// escaped so '?', '#' and '%' in file names don't end up in the query.
func readOnlyDSN(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("garmin db path %s: %w", path, err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(absPath),
		RawQuery: "mode=ro",
	}
	return u.String(), nil
}
