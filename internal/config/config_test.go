package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/foundry/internal/config"
	"github.com/JaimeStill/foundry/pkg/queue"
)

const baseConfig = `shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "foundry"
user = "foundry"
password = "foundry"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "projects"
connection_string = "DefaultEndpointsProtocol=http;AccountName=foundrystore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/foundrystore;"

[queue]
kind = "memory"
name = "foundry:generations"

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50

[agent]
name = "test-agent"

[agent.provider]
name = "ollama"

[agent.model]
name = "llama3.1:8b"
`

const overlayConfig = `[server]
port = 9090

[database]
host = "prodhost"
`

// minimalConfig provides the minimum fields required
// for validation to pass (db name, db user, storage connection string).
// Agent defaults fill in from go-agents DefaultAgentConfig().
const minimalConfig = `shutdown_timeout = "30s"

[server]
port = 8080

[database]
name = "foundry"
user = "foundry"

[storage]
connection_string = "conn"

[api]
base_path = "/api"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Database.AppName != "foundry" {
		t.Errorf("db app_name: got %s, want foundry", cfg.Database.AppName)
	}
	if cfg.Storage.ContainerName != "projects" {
		t.Errorf("storage container: got %s, want projects", cfg.Storage.ContainerName)
	}
	if cfg.Queue.Kind != queue.KindMemory {
		t.Errorf("queue kind: got %s, want memory", cfg.Queue.Kind)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_VERSION", "2.0.0")
	t.Setenv("FOUNDRY_SERVER_PORT", "3000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("FOUNDRY_DB_NAME", "testdb")
	t.Setenv("FOUNDRY_DB_USER", "testuser")
	t.Setenv("FOUNDRY_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.ConnectionString != "conn" {
		t.Errorf("storage conn from env: got %s, want conn", cfg.Storage.ConnectionString)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `shutdown_timeout = `)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestEnvFromEnvVar(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_ENV", "production")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestServerAddr(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestPaginationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
}

func TestPaginationEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_PAGINATION_DEFAULT_PAGE_SIZE", "10")
	t.Setenv("FOUNDRY_PAGINATION_MAX_PAGE_SIZE", "200")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 10 {
		t.Errorf("pagination default_page_size: got %d, want 10", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 200 {
		t.Errorf("pagination max_page_size: got %d, want 200", cfg.API.Pagination.MaxPageSize)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 10MB", "10MB", 10 * 1024 * 1024},
		{"valid 1GB", "1GB", 1024 * 1024 * 1024},
		{"invalid falls back to 50MB", "bad", 50 * 1024 * 1024},
		{"empty falls back to 50MB", "", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			got := cfg.MaxUploadSizeBytes()
			if got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxUploadSizeDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := int64(50 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestMaxUploadSizeEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_API_MAX_UPLOAD_SIZE", "100MB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := int64(100 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestServerValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name: "invalid port",
			config: `shutdown_timeout = "30s"

[server]
port = 99999

[database]
name = "foundry"
user = "foundry"

[storage]
connection_string = "conn"
`,
			wantErr: "invalid port",
		},
		{
			name: "invalid read_timeout",
			config: `shutdown_timeout = "30s"

[server]
read_timeout = "bad"

[database]
name = "foundry"
user = "foundry"

[storage]
connection_string = "conn"
`,
			wantErr: "invalid read_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestQueueDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Queue.Kind != queue.KindMemory {
		t.Errorf("queue kind: got %s, want memory", cfg.Queue.Kind)
	}
	if cfg.Queue.Name != "foundry:generations" {
		t.Errorf("queue name: got %s, want foundry:generations", cfg.Queue.Name)
	}
	if cfg.Queue.Workers != 2 {
		t.Errorf("queue workers: got %d, want 2", cfg.Queue.Workers)
	}
	if cfg.Queue.BufferSize != 64 {
		t.Errorf("queue buffer_size: got %d, want 64", cfg.Queue.BufferSize)
	}
}

func TestQueueEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_QUEUE_KIND", "redis")
	t.Setenv("FOUNDRY_QUEUE_ADDRESS", "localhost:6379")
	t.Setenv("FOUNDRY_QUEUE_WORKERS", "4")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Queue.Kind != queue.KindRedis {
		t.Errorf("queue kind: got %s, want redis", cfg.Queue.Kind)
	}
	if cfg.Queue.Address != "localhost:6379" {
		t.Errorf("queue address: got %s, want localhost:6379", cfg.Queue.Address)
	}
	if cfg.Queue.Workers != 4 {
		t.Errorf("queue workers: got %d, want 4", cfg.Queue.Workers)
	}
}

func TestQueueValidation(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `shutdown_timeout = "30s"

[database]
name = "foundry"
user = "foundry"

[storage]
connection_string = "conn"

[queue]
kind = "redis"
`)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for redis queue without address")
	}
	if !strings.Contains(err.Error(), "address required") {
		t.Errorf("error %q does not mention address", err.Error())
	}
}

func TestEmbeddingsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Embeddings.Model != "gemini-embedding-001" {
		t.Errorf("embeddings model: got %s, want gemini-embedding-001", cfg.Embeddings.Model)
	}
	if cfg.Embeddings.Dimensions != 768 {
		t.Errorf("embeddings dimensions: got %d, want 768", cfg.Embeddings.Dimensions)
	}
}

func TestEmbeddingsEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_EMBEDDINGS_API_KEY", "env-key")
	t.Setenv("FOUNDRY_EMBEDDINGS_MODEL", "text-embedding-004")
	t.Setenv("FOUNDRY_EMBEDDINGS_DIMENSIONS", "1536")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Embeddings.APIKey != "env-key" {
		t.Errorf("embeddings api_key: got %s, want env-key", cfg.Embeddings.APIKey)
	}
	if cfg.Embeddings.Model != "text-embedding-004" {
		t.Errorf("embeddings model: got %s, want text-embedding-004", cfg.Embeddings.Model)
	}
	if cfg.Embeddings.Dimensions != 1536 {
		t.Errorf("embeddings dimensions: got %d, want 1536", cfg.Embeddings.Dimensions)
	}
}

func TestEmbeddingsGeminiFallback(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Embeddings.APIKey != "gemini-key" {
		t.Errorf("embeddings api_key: got %s, want gemini-key", cfg.Embeddings.APIKey)
	}
}

func TestEmbeddingsKeyPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_EMBEDDINGS_API_KEY", "primary")
	t.Setenv("GEMINI_API_KEY", "fallback")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Embeddings.APIKey != "primary" {
		t.Errorf("embeddings api_key: got %s, want primary", cfg.Embeddings.APIKey)
	}
}

func TestOpenAPIDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.OpenAPI.Title != "Foundry API" {
		t.Errorf("openapi title: got %s, want Foundry API", cfg.API.OpenAPI.Title)
	}
	if cfg.API.OpenAPI.Description == "" {
		t.Error("openapi description should have a default")
	}
}

func TestOpenAPIEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_OPENAPI_TITLE", "Custom API")
	t.Setenv("FOUNDRY_OPENAPI_DESCRIPTION", "Custom description.")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.OpenAPI.Title != "Custom API" {
		t.Errorf("openapi title: got %s, want Custom API", cfg.API.OpenAPI.Title)
	}
	if cfg.API.OpenAPI.Description != "Custom description." {
		t.Errorf("openapi description: got %s, want Custom description.", cfg.API.OpenAPI.Description)
	}
}

func TestAgentConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Agent.Name != "test-agent" {
		t.Errorf("agent name: got %s, want test-agent", cfg.Agent.Name)
	}
	if cfg.Agent.Provider == nil {
		t.Fatal("agent provider is nil")
	}
	if cfg.Agent.Provider.Name != "ollama" {
		t.Errorf("provider name: got %s, want ollama", cfg.Agent.Provider.Name)
	}
	if cfg.Agent.Model == nil {
		t.Fatal("agent model is nil")
	}
	if cfg.Agent.Model.Name != "llama3.1:8b" {
		t.Errorf("model name: got %s, want llama3.1:8b", cfg.Agent.Model.Name)
	}
}

func TestAgentDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Agent.Name != "default-agent" {
		t.Errorf("agent name: got %s, want default-agent", cfg.Agent.Name)
	}
	if cfg.Agent.Provider == nil {
		t.Fatal("agent provider is nil")
	}
	if cfg.Agent.Provider.Name != "ollama" {
		t.Errorf("provider name: got %s, want ollama", cfg.Agent.Provider.Name)
	}
	if cfg.Agent.Provider.BaseURL != "http://localhost:11434" {
		t.Errorf("provider base_url: got %s, want http://localhost:11434", cfg.Agent.Provider.BaseURL)
	}
}

func TestAgentEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("FOUNDRY_AGENT_PROVIDER_NAME", "azure")
	t.Setenv("FOUNDRY_AGENT_BASE_URL", "https://myendpoint.openai.azure.com")
	t.Setenv("FOUNDRY_AGENT_MODEL_NAME", "gpt-5-mini")
	t.Setenv("FOUNDRY_AGENT_TOKEN", "test-token")
	t.Setenv("FOUNDRY_AGENT_DEPLOYMENT", "gpt-5-mini")
	t.Setenv("FOUNDRY_AGENT_API_VERSION", "2024-12-01-preview")
	t.Setenv("FOUNDRY_AGENT_AUTH_TYPE", "api_key")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Agent.Provider.Name != "azure" {
		t.Errorf("provider name: got %s, want azure", cfg.Agent.Provider.Name)
	}
	if cfg.Agent.Provider.BaseURL != "https://myendpoint.openai.azure.com" {
		t.Errorf("provider base_url: got %s, want https://myendpoint.openai.azure.com", cfg.Agent.Provider.BaseURL)
	}
	if cfg.Agent.Model.Name != "gpt-5-mini" {
		t.Errorf("model name: got %s, want gpt-5-mini", cfg.Agent.Model.Name)
	}

	opts := cfg.Agent.Provider.Options
	if opts["token"] != "test-token" {
		t.Errorf("token: got %v, want test-token", opts["token"])
	}
	if opts["deployment"] != "gpt-5-mini" {
		t.Errorf("deployment: got %v, want gpt-5-mini", opts["deployment"])
	}
	if opts["api_version"] != "2024-12-01-preview" {
		t.Errorf("api_version: got %v, want 2024-12-01-preview", opts["api_version"])
	}
	if opts["auth_type"] != "api_key" {
		t.Errorf("auth_type: got %v, want api_key", opts["auth_type"])
	}
}

func TestAgentOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", `[agent]
name = "staging-agent"

[agent.provider]
name = "azure"

[agent.model]
name = "gpt-5-mini"
`)
	chdir(t, dir)

	t.Setenv("FOUNDRY_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Agent.Name != "staging-agent" {
		t.Errorf("agent name: got %s, want staging-agent", cfg.Agent.Name)
	}
	if cfg.Agent.Provider.Name != "azure" {
		t.Errorf("provider name: got %s, want azure", cfg.Agent.Provider.Name)
	}
	if cfg.Agent.Model.Name != "gpt-5-mini" {
		t.Errorf("model name: got %s, want gpt-5-mini", cfg.Agent.Model.Name)
	}
	// Base config values should be preserved for non-agent fields
	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080 (from base)", cfg.Server.Port)
	}
}

func TestAgentTokenNotRequired(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	// No FOUNDRY_AGENT_TOKEN set; should succeed for ollama provider
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if _, ok := cfg.Agent.Provider.Options["token"]; ok {
		t.Error("token should not be set when env var is absent")
	}
}
