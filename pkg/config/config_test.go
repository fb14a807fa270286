package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "aai-key")
	t.Setenv("LLM_API_KEY", "llm-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Fatalf("shutdown timeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Pipeline.UploadConcurrency != 10 {
		t.Fatalf("upload concurrency = %d, want 10", cfg.Pipeline.UploadConcurrency)
	}
	if cfg.Media.MaxUploadBytes != 1<<30 {
		t.Fatalf("max upload = %d, want 1GiB", cfg.Media.MaxUploadBytes)
	}
	if cfg.LLM.Model != "o3-mini" {
		t.Fatalf("model = %q", cfg.LLM.Model)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "aai-key")
	t.Setenv("LLM_API_KEY", "llm-key")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "shorts")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("STORAGE_ENDPOINT", "s3.local:9000")
	t.Setenv("LLM_BASE_URL", "https://api.groq.com/openai/v1")
	t.Setenv("PIPELINE_RETRY_MAX_ELAPSED", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if !strings.Contains(cfg.GetDatabaseDSN(), "dbname=shorts") {
		t.Fatalf("dsn = %q", cfg.GetDatabaseDSN())
	}
	if got := cfg.GetStoragePublicURL(); got != "https://s3.local:9000" {
		t.Fatalf("public url = %q", got)
	}
	if cfg.LLM.BaseURL != "https://api.groq.com/openai/v1" {
		t.Fatalf("base url = %q", cfg.LLM.BaseURL)
	}
	if cfg.Pipeline.RetryMaxElapsed != 5*time.Second {
		t.Fatalf("retry = %v", cfg.Pipeline.RetryMaxElapsed)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"missing assemblyai key", func(c *Config) { c.AssemblyAI.APIKey = "" }, "ASSEMBLYAI_API_KEY"},
		{"missing llm key", func(c *Config) { c.LLM.APIKey = "" }, "LLM_API_KEY"},
		{"too many uploads", func(c *Config) { c.Pipeline.UploadConcurrency = 11 }, "UPLOAD_CONCURRENCY"},
		{"zero credits", func(c *Config) { c.Pipeline.CreditsPerProject = 0 }, "CREDITS_PER_PROJECT"},
		{"ok", func(c *Config) {}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				AssemblyAI: AssemblyAIConfig{APIKey: "a"},
				LLM:        LLMConfig{APIKey: "b"},
				Media:      MediaConfig{MaxUploadBytes: 1},
				Pipeline:   PipelineConfig{UploadConcurrency: 10, CreditsPerProject: 1},
			}
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
