package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	CORSAllowOrigin    []string
	ObjectStoreType    string
	LocalStoreDir      string
	PublicBaseURL      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	DatabaseURL        string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	AdminEmails        []string
	OrgEmails          []string
	InferenceProvider  string
	HuggingFaceToken   string
	HuggingFaceModel   string
	RateLimitRPS       float64
	RateLimitBurst     int
	MaxUploadBytes     int64

	// Pool overrides; zero keeps the db package defaults.
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
	DBPingTimeout     time.Duration
}

// Load reads configuration from environment variables, falling back to a
// local .env file and then to defaults.
func Load() Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err == nil {
			log.Printf("config: loaded %s", path)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("INFERENCE_PROVIDER", "huggingface")
	v.SetDefault("HUGGINGFACE_MODEL_URL", "https://api-inference.huggingface.co/models/google/gemma-3-4b-it")
	v.SetDefault("RATE_LIMIT_RPS", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
}

func fromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:               v.GetString("PORT"),
		Env:                env,
		CORSAllowOrigin:    splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		ObjectStoreType:    normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:      v.GetString("LOCAL_STORE_DIR"),
		PublicBaseURL:      strings.TrimRight(strings.TrimSpace(v.GetString("PUBLIC_BASE_URL")), "/"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Prefix:           v.GetString("S3_PREFIX"),
		SSEKMSKeyID:        v.GetString("SSE_KMS_KEY_ID"),
		DatabaseURL:        dbURL,
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),
		AdminEmails:        lowerAll(splitAndTrim(v.GetString("ADMIN_EMAILS"))),
		OrgEmails:          lowerAll(splitAndTrim(v.GetString("ORG_EMAILS"))),
		InferenceProvider:  normalizeInferenceProvider(v.GetString("INFERENCE_PROVIDER")),
		HuggingFaceToken:   strings.TrimSpace(v.GetString("HUGGINGFACE_API_TOKEN")),
		HuggingFaceModel:   strings.TrimSpace(v.GetString("HUGGINGFACE_MODEL_URL")),
		RateLimitRPS:       v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
		DBMaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime:  v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime:  v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		DBPingTimeout:      v.GetDuration("DB_PING_TIMEOUT"),
	}
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

func lowerAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
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
	default:
		return "local"
	}
}

func normalizeInferenceProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "none", "off", "disabled":
		return "none"
	default:
		return "huggingface"
	}
}
