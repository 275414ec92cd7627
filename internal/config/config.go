package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/me/taskpanel/internal/logging"
)

// ServerConfig holds configuration for the panel server.
type ServerConfig struct {
	Addr      string // Listen address (default ":8080")
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: text, json
	DBPath    string // SQLite database path (default ~/.taskpanel/taskpanel.db, ":memory:" for testing)
	SeedPath  string // Optional snapshot (YAML or JSON) loaded into the store at startup
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Validate rejects settings the server cannot start with.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if _, ok := logging.LookupLevel(c.LogLevel); !ok {
		return fmt.Errorf("unsupported log level %q (want debug, info, warn or error)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// ServerEnv is the environment variable the CLI reads its server URL from.
const ServerEnv = "TASKPANEL_SERVER"

// DefaultServerURL returns the CLI's server URL, checking TASKPANEL_SERVER first.
func DefaultServerURL() string {
	if s := os.Getenv(ServerEnv); s != "" {
		return s
	}
	return "http://localhost:8080"
}
