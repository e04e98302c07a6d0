// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultDocumentPath is the document read when an update request does not
// upload one.
const DefaultDocumentPath = "path_to_your_doc_file.docx"

// Config holds configuration knobs for the HTTP server and the update flow.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	DocumentPath    string
	OutputDir       string
	UnitsFile       string
	KnownUnits      []string
	MaxUploadBytes  int64
	LogLevel        string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func listenv(key string) []string {
	var out []string
	for _, part := range strings.Split(getenv(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		DocumentPath:    getenv("DOCUMENT_PATH", DefaultDocumentPath),
		OutputDir:       getenv("OUTPUT_DIR", "."),
		UnitsFile:       getenv("UNITS_FILE", ""),
		KnownUnits:      listenv("KNOWN_UNITS"),
		MaxUploadBytes:  int64(atoienv("MAX_UPLOAD_BYTES", 10<<20)),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}
}
