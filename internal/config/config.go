// Package config loads service settings from the environment and wires the
// logger.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxUploadMB  int
	CatalogDir   string
}

// Load reads the environment with sane defaults; every knob is optional.
func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8084"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "64"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/crossref-service.log"),
		MaxUploadMB:  mb,
		CatalogDir:   getenv("CATALOG_DIR", "catalog"),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// MaxUploadBytes is the request body cap for sheet uploads.
func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) * 1024 * 1024 }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
