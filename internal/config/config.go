package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no config path is supplied.
const DefaultConfigPath = "config.yaml"

// Config holds the application configuration loaded from YAML and
// environment overrides.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen-addr"`
	// DatabaseDSN selects the database (postgres URL/kv or sqlite path).
	DatabaseDSN string `yaml:"database-dsn"`
	// UploadRoot is the directory document file paths resolve against.
	UploadRoot string `yaml:"upload-root"`
	// DatePartitionedStorage enables YYYY/MM subdirectories under the upload root.
	DatePartitionedStorage bool `yaml:"date-partitioned-storage"`
	// Production disables diagnostic authentication logging.
	Production bool `yaml:"production"`
	// RedisAddr enables the credential cache when non-empty.
	RedisAddr string `yaml:"redis-addr"`
	// LogFile writes rotated logs to a file when non-empty.
	LogFile string `yaml:"log-file"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		ListenAddr:  ":8317",
		DatabaseDSN: "file:sgvr.db",
		UploadRoot:  "uploads",
	}
}

// Load reads the YAML config at path, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	resolved := ResolveConfigPath(path)
	data, errRead := os.ReadFile(resolved)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", resolved, errUnmarshal)
		}
	case os.IsNotExist(errRead):
		// Defaults plus environment overrides only.
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", resolved, errRead)
	}

	applyEnvOverrides(&cfg)

	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return Config{}, fmt.Errorf("config: empty database-dsn")
	}
	if strings.TrimSpace(cfg.UploadRoot) == "" {
		return Config{}, fmt.Errorf("config: empty upload-root")
	}
	cfg.UploadRoot = filepath.Clean(cfg.UploadRoot)
	return cfg, nil
}

// ResolveConfigPath returns the effective config path, honoring the
// SGVR_CONFIG environment variable when no explicit path is given.
func ResolveConfigPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed != "" {
		return trimmed
	}
	if env := strings.TrimSpace(os.Getenv("SGVR_CONFIG")); env != "" {
		return env
	}
	return DefaultConfigPath
}

// applyEnvOverrides overlays SGVR_* environment variables onto the config.
func applyEnvOverrides(cfg *Config) {
	if v, ok := lookupEnv("SGVR_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := lookupEnv("SGVR_DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookupEnv("SGVR_UPLOAD_ROOT"); ok {
		cfg.UploadRoot = v
	}
	if v, ok := lookupEnv("SGVR_REDIS_ADDR"); ok {
		cfg.RedisAddr = v
	}
	if v, ok := lookupEnv("SGVR_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := lookupEnv("SGVR_DATE_PARTITIONED_STORAGE"); ok {
		if parsed, errParse := strconv.ParseBool(v); errParse == nil {
			cfg.DatePartitionedStorage = parsed
		}
	}
	if v, ok := lookupEnv("SGVR_PRODUCTION"); ok {
		if parsed, errParse := strconv.ParseBool(v); errParse == nil {
			cfg.Production = parsed
		}
	}
}

// lookupEnv returns a trimmed environment value and whether it is non-empty.
func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}
