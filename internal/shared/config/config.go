package config

import (
	"os"
	"strings"

	"tender-backend/internal/shared/telemetry"
)

const (
	DefaultTenderID       = "default_tender"
	DefaultOrganizationID = "demo_org"
)

// Config holds application configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	ObjectStoreType  string
	LocalStoreDir    string
	PublicBaseURL    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	SSEKMSKeyID      string
	GCSBucket        string
	GCSPrefix        string
	LLMProvider      string
	LLMModel         string
	GeminiAPIKey     string
	OpenAIAPIKey     string
	EventsQueueURL   string
	IntegrationsMode string
	CapabilitiesFile string
	DefaultTenderID  string
	OrganizationID   string
	DatabaseURL      string
	Env              string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		ObjectStoreType:  normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./data"),
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
		GCSBucket:        getEnv("GCS_BUCKET", ""),
		GCSPrefix:        getEnv("GCS_PREFIX", ""),
		LLMProvider:      normalizeProvider(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:         getEnv("LLM_MODEL", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		EventsQueueURL:   getEnv("EVENTS_SQS_QUEUE_URL", ""),
		IntegrationsMode: normalizeIntegrationsMode(getEnv("INTEGRATIONS_MODE", "demo")),
		CapabilitiesFile: getEnv("CAPABILITIES_FILE", ""),
		DefaultTenderID:  getEnv("DEFAULT_TENDER_ID", DefaultTenderID),
		OrganizationID:   getEnv("DEMO_ORGANIZATION_ID", DefaultOrganizationID),
		DatabaseURL:      dbURL,
		Env:              env,
	}
}

// IsDevLike reports whether the environment tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "gcs":
		return "gcs"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	case "openai":
		return "openai"
	default:
		return "none"
	}
}

func normalizeIntegrationsMode(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "live") {
		return "live"
	}
	return "demo"
}
