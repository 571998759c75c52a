package garmindb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/garminstats/pkg"
)

const (
	DBTypeSQLite = "sqlite"

	defaultBaseDir        = "HealthData"
	dbsDirName            = "DBs"
	activitiesDBFileName  = "garmin_activities.db"
	connectConfigDir      = ".GarminDb"
	connectConfigFileName = "GarminConnectConfig.json"
)

var (
	ErrUnsupportedDBType = errors.New("unsupported garmin db type")
	ErrDBNotFound        = errors.New("garmin activities db not found")
)

// ConnectConfig is the part of GarminDB's GarminConnectConfig.json
// needed to locate the activities database.
type ConnectConfig struct {
	DB struct {
		Type string `json:"type"`
	} `json:"db"`
	Directories struct {
		RelativeToHome *bool  `json:"relative_to_home"`
		BaseDir        string `json:"base_dir"`
	} `json:"directories"`
}

type DBParams struct {
	Type string
	Path string
}

// DefaultConnectConfigPath is where GarminDB keeps its config.
func DefaultConnectConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("user home dir: %w", err)
	}
	return filepath.Join(home, connectConfigDir, connectConfigFileName), nil
}

func LoadConnectConfig(path string) (*ConnectConfig, error) {
	if path == "" {
		defaultPath, err := DefaultConnectConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read garmin connect config: %w", err)
	}

	cfg := &ConnectConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal garmin connect config %s: %w", path, err)
	}

	return cfg, nil
}

// DBParams resolves the activities db location the same way GarminDB does:
// <base_dir>/DBs/garmin_activities.db, base_dir being relative to home
// unless relative_to_home is false.
func (c *ConnectConfig) DBParams(homeDir string) (DBParams, error) {
	dbType := strings.ToLower(c.DB.Type)
	if dbType == "" {
		dbType = DBTypeSQLite
	}
	if dbType != DBTypeSQLite {
		return DBParams{}, fmt.Errorf("%w: %s", ErrUnsupportedDBType, c.DB.Type)
	}

	baseDir := c.Directories.BaseDir
	if baseDir == "" {
		baseDir = defaultBaseDir
	}
	relativeToHome := c.Directories.RelativeToHome == nil || *c.Directories.RelativeToHome
	if relativeToHome && !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(homeDir, baseDir)
	}

	return DBParams{
		Type: dbType,
		Path: filepath.Join(baseDir, dbsDirName, activitiesDBFileName),
	}, nil
}

// ResolveActivitiesDBPath returns dbPathOverride when set, otherwise the
// path derived from the GarminDB connect config. The db file must exist.
func ResolveActivitiesDBPath(dbPathOverride, connectConfigPath string) (string, error) {
	dbPath := dbPathOverride
	if dbPath == "" {
		connectCfg, err := LoadConnectConfig(connectConfigPath)
		if err != nil {
			return "", err
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("user home dir: %w", err)
		}
		params, err := connectCfg.DBParams(home)
		if err != nil {
			return "", err
		}
		dbPath = params.Path
	}

	exists, err := pkg.PathExists(dbPath, false)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrDBNotFound, dbPath)
	}

	return dbPath, nil
}
