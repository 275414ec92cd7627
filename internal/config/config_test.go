package config

import "testing"

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{"json format", func(c *ServerConfig) { c.LogFormat = "JSON" }, false},
		{"bad format", func(c *ServerConfig) { c.LogFormat = "xml" }, true},
		{"debug level", func(c *ServerConfig) { c.LogLevel = "DEBUG" }, false},
		{"bad level", func(c *ServerConfig) { c.LogLevel = "verbose" }, true},
		{"no addr", func(c *ServerConfig) { c.Addr = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultServerURL(t *testing.T) {
	t.Setenv(ServerEnv, "")
	if got := DefaultServerURL(); got != "http://localhost:8080" {
		t.Errorf("DefaultServerURL() = %q", got)
	}
	t.Setenv(ServerEnv, "http://panel:9000")
	if got := DefaultServerURL(); got != "http://panel:9000" {
		t.Errorf("DefaultServerURL() = %q", got)
	}
}
