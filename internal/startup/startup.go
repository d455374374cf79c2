package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"thumbnail-service/internal/logging"
	"thumbnail-service/internal/pathing"

	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Backend selects the storage implementation.
type Backend string

const (
	// BackendLocal stores thumbnails on the local filesystem.
	BackendLocal Backend = "local"
	// BackendS3 stores thumbnails in an S3-compatible bucket.
	BackendS3 Backend = "s3"
)

// Config holds all application configuration
type Config struct {
	Port            string
	MetricsEnabled  bool
	LogHealthChecks bool

	// Storage
	Backend          Backend
	LocalStorageRoot string
	S3Endpoint       string
	S3Region         string
	S3AccessKeyID    string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool
	S3URLExpiry      time.Duration

	// PathPrefix namespaces every thumbnail key; must start and end
	// with '/'.
	PathPrefix string
	// FilesRoot is the namespace the host stores original files under.
	FilesRoot string

	MaxFileSize int64

	// Hook feature flags
	EnableItemsHooks bool
	EnableAppsHooks  bool
	AppsTemplateRoot string
}

// LoadConfig loads and validates configuration from the environment.
// Anything malformed fails here, before the service accepts traffic.
func LoadConfig() (*Config, error) {
	// Optional .env for local development; absence is fine.
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file loaded: %v", err)
	}

	env := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	envBool := func(key string, fallback bool) bool {
		v := os.Getenv(key)
		if v == "" {
			return fallback
		}
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
		logging.Warn("  Invalid boolean for %s: %q, using %v", key, v, fallback)
		return fallback
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	config := &Config{
		Port:             env("PORT", "8080"),
		MetricsEnabled:   envBool("METRICS_ENABLED", true),
		LogHealthChecks:  envBool("LOG_HEALTH_CHECKS", true),
		Backend:          Backend(strings.ToLower(env("STORAGE_BACKEND", "local"))),
		LocalStorageRoot: env("LOCAL_STORAGE_ROOT", "/storage"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3Region:         os.Getenv("S3_REGION"),
		S3AccessKeyID:    os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:      os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3UseSSL:         envBool("S3_USE_SSL", true),
		PathPrefix:       env("PATH_PREFIX", "/thumbnails/"),
		FilesRoot:        env("FILES_ROOT", "/files/"),
		EnableItemsHooks: envBool("ENABLE_ITEMS_HOOKS", true),
		EnableAppsHooks:  envBool("ENABLE_APPS_HOOKS", false),
		AppsTemplateRoot: env("APPS_TEMPLATE_ROOT", "apps/template"),
	}

	urlExpiryStr := env("S3_URL_EXPIRY", "15m")
	urlExpiry, err := time.ParseDuration(urlExpiryStr)
	if err != nil {
		logging.Warn("  Invalid S3_URL_EXPIRY, using default: 15m")
		urlExpiry = 15 * time.Minute
	}
	config.S3URLExpiry = urlExpiry

	maxFileSizeStr := env("MAX_FILE_SIZE", "5242880")
	maxFileSize, err := strconv.ParseInt(maxFileSizeStr, 10, 64)
	if err != nil || maxFileSize <= 0 {
		logging.Warn("  Invalid MAX_FILE_SIZE, using default: 5242880")
		maxFileSize = 5 * 1024 * 1024
	}
	config.MaxFileSize = maxFileSize

	logging.Info("  PORT:                %s", config.Port)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", config.LogHealthChecks)
	logging.Info("  STORAGE_BACKEND:     %s", config.Backend)
	logging.Info("  PATH_PREFIX:         %s", config.PathPrefix)
	logging.Info("  FILES_ROOT:          %s", config.FilesRoot)
	logging.Info("  MAX_FILE_SIZE:       %d", config.MaxFileSize)
	logging.Info("  ENABLE_ITEMS_HOOKS:  %v", config.EnableItemsHooks)
	logging.Info("  ENABLE_APPS_HOOKS:   %v", config.EnableAppsHooks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	if err := validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validate(config *Config) error {
	if err := pathing.ValidatePrefix(config.PathPrefix); err != nil {
		return fmt.Errorf("PATH_PREFIX: %w", err)
	}

	switch config.Backend {
	case BackendLocal:
		abs, err := filepath.Abs(config.LocalStorageRoot)
		if err != nil {
			return fmt.Errorf("LOCAL_STORAGE_ROOT: %w", err)
		}
		config.LocalStorageRoot = abs
		logging.Info("  LOCAL_STORAGE_ROOT:  %s", abs)
	case BackendS3:
		if config.S3Endpoint == "" || config.S3Bucket == "" {
			return fmt.Errorf("s3 backend requires S3_ENDPOINT and S3_BUCKET")
		}
		if config.S3AccessKeyID == "" || config.S3SecretKey == "" {
			return fmt.Errorf("s3 backend requires S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY")
		}
		logging.Info("  S3_ENDPOINT:         %s", config.S3Endpoint)
		logging.Info("  S3_BUCKET:           %s", config.S3Bucket)
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)", config.Backend, BackendLocal, BackendS3)
	}

	if config.EnableAppsHooks && config.AppsTemplateRoot == "" {
		return fmt.Errorf("ENABLE_APPS_HOOKS requires APPS_TEMPLATE_ROOT")
	}
	return nil
}
