package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	DatabaseURL     string
	RedisURL        string

	GitHubAPIURL    string
	VercelAPIURL    string
	VercelTeamID    string
	VercelToken     string
	ProviderTimeout time.Duration

	DeployPerMinute   int
	GeneratePerMinute int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is not set; portfolio and deployment history will not survive restarts")
	}

	return Config{
		Port:            getEnv("PORT", "8000"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:     dbURL,
		RedisURL:        getEnv("REDIS_URL", ""),

		GitHubAPIURL:    strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
		VercelAPIURL:    strings.TrimRight(getEnv("VERCEL_API_URL", "https://api.vercel.com"), "/"),
		VercelTeamID:    getEnv("VERCEL_TEAM_ID", ""),
		VercelToken:     getEnv("VERCEL_TOKEN", ""),
		ProviderTimeout: time.Duration(getInt("PROVIDER_TIMEOUT_SECONDS", 30)) * time.Second,

		DeployPerMinute:   getInt("RATE_LIMIT_DEPLOY_PER_MIN", 5),
		GeneratePerMinute: getInt("RATE_LIMIT_GENERATE_PER_MIN", 30),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
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
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "memory":
		return "memory"
	default:
		return "local"
	}
}
