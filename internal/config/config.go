package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Backend selects where the document lives.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Config holds the resolved runtime settings.
type Config struct {
	DataDir       string
	Backend       Backend
	DocumentFile  string
	BlobFile      string
	RedisAddr     string
	RedisPassword string
	RedisPrefix   string
	LogFile       string
	LogMode       string
	DownloadTick  time.Duration
}

const (
	defaultConfigPath   = "~/.config/studydesk/config.toml"
	defaultDataDir      = "~/.local/share/studydesk"
	defaultRedisPrefix  = "studydesk"
	defaultLogMode      = "development"
	defaultDownloadTick = 400 * time.Millisecond
	defaultDotEnv       = ".env"
)

// Environment overrides, applied after the file.
const (
	EnvBackend       = "STUDYDESK_BACKEND"
	EnvDataDir       = "STUDYDESK_DATA_DIR"
	EnvRedisAddr     = "STUDYDESK_REDIS_ADDR"
	EnvRedisPassword = "STUDYDESK_REDIS_PASSWORD"
)

type rawConfig struct {
	DataDir       string `toml:"data_dir"`
	Backend       string `toml:"backend"`
	DocumentFile  string `toml:"document_file"`
	BlobFile      string `toml:"blob_file"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisPrefix   string `toml:"redis_prefix"`
	LogFile       string `toml:"log_file"`
	LogMode       string `toml:"log_mode"`
	DownloadTick  string `toml:"download_tick"`
}

// Load locates and parses the config file, falling back to defaults when
// missing. A .env file in the working directory is loaded first so its
// values reach the environment overrides.
func Load(path string) (Config, error) {
	if err := loadDotEnv(defaultDotEnv); err != nil {
		return Config{}, err
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	overrideFromEnv(&raw)
	return resolve(raw)
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	// godotenv.Load never overrides variables already set.
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func overrideFromEnv(raw *rawConfig) {
	for env, dst := range map[string]*string{
		EnvBackend:       &raw.Backend,
		EnvDataDir:       &raw.DataDir,
		EnvRedisAddr:     &raw.RedisAddr,
		EnvRedisPassword: &raw.RedisPassword,
	} {
		if v, ok := os.LookupEnv(env); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
}

func resolve(raw rawConfig) (Config, error) {
	cfg := Config{
		RedisAddr:     strings.TrimSpace(raw.RedisAddr),
		RedisPassword: raw.RedisPassword,
		RedisPrefix:   orDefault(raw.RedisPrefix, defaultRedisPrefix),
		LogMode:       strings.ToLower(orDefault(raw.LogMode, defaultLogMode)),
		DownloadTick:  defaultDownloadTick,
	}

	dataDir, err := expandPath(orDefault(raw.DataDir, defaultDataDir))
	if err != nil {
		return Config{}, fmt.Errorf("data_dir: %w", err)
	}
	cfg.DataDir = dataDir

	switch b := Backend(strings.ToLower(orDefault(raw.Backend, string(BackendFile)))); b {
	case BackendFile, BackendRedis, BackendMemory:
		cfg.Backend = b
	default:
		return Config{}, fmt.Errorf("unknown backend %q (want file, redis or memory)", raw.Backend)
	}
	if cfg.Backend == BackendRedis && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("backend redis requires redis_addr")
	}

	if cfg.DocumentFile, err = pathIn(dataDir, raw.DocumentFile, "document.json"); err != nil {
		return Config{}, fmt.Errorf("document_file: %w", err)
	}
	if cfg.BlobFile, err = pathIn(dataDir, raw.BlobFile, "blobs.db"); err != nil {
		return Config{}, fmt.Errorf("blob_file: %w", err)
	}
	if cfg.LogFile, err = pathIn(dataDir, raw.LogFile, "studydesk.log"); err != nil {
		return Config{}, fmt.Errorf("log_file: %w", err)
	}

	if tick := strings.TrimSpace(raw.DownloadTick); tick != "" {
		d, err := time.ParseDuration(tick)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("download_tick %q: want a positive duration", tick)
		}
		cfg.DownloadTick = d
	}

	return cfg, nil
}

// pathIn resolves value, or name inside dir when value is empty.
func pathIn(dir, value, name string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return filepath.Join(dir, name), nil
	}
	return expandPath(value)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
