package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string
	JWTTTL    time.Duration

	// Payment gateway (Iamport-compatible). Empty key disables the verify endpoint.
	IamportBaseURL   string
	IamportAPIKey    string
	IamportAPISecret string

	// Optional webhook notified on new feedback.
	FeedbackWebhookURL string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	ttl, err := time.ParseDuration(getenv("JWT_TTL", "168h"))
	if err != nil {
		panic("bad JWT_TTL: " + err.Error())
	}
	cfg.JWTTTL = ttl

	cfg.IamportBaseURL = getenv("IAMPORT_BASE_URL", "https://api.iamport.kr")
	cfg.IamportAPIKey = getenv("IAMPORT_API_KEY", "")
	cfg.IamportAPISecret = getenv("IAMPORT_API_SECRET", "")

	cfg.FeedbackWebhookURL = getenv("FEEDBACK_WEBHOOK_URL", "")

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
