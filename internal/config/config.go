package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	DBUrl           string
	DBReplicaURLs   []string
	JWTSecret       string
	TokenTTL        time.Duration
	LogLevel        string
	AuthRateLimit   int
	CORSOrigins     []string
	Google          GoogleConfig
	RedisAddr       string
	KafkaBrokers    []string
	KafkaTopic      string
	S3              S3Config
	OTLPEndpoint    string
	OTELServiceName string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled is false when the Google OAuth routes should not be mounted.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("KAFKA_TOPIC", "socialfeed.events")
	v.SetDefault("AWS_REGION", "eu-west-3")
	v.SetDefault("OTEL_SERVICE_NAME", "socialfeed-back")
	v.SetDefault("GOOGLE_CALLBACK_URL", "http://localhost:8080/api/auth/google/callback")

	return &Config{
		Port:          v.GetString("PORT"),
		DBUrl:         v.GetString("DATABASE_URL"),
		DBReplicaURLs: splitList(v.GetString("DATABASE_REPLICA_URLS")),
		JWTSecret:     v.GetString("JWT_SECRET"),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		AuthRateLimit: v.GetInt("AUTH_RATE_LIMIT"),
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		Google: GoogleConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			CallbackURL:  v.GetString("GOOGLE_CALLBACK_URL"),
		},
		RedisAddr:    v.GetString("REDIS_ADDR"),
		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:   v.GetString("KAFKA_TOPIC"),
		S3: S3Config{
			Region:          v.GetString("AWS_REGION"),
			Bucket:          v.GetString("AWS_BUCKET_NAME"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			Endpoint:        v.GetString("AWS_ENDPOINT"),
		},
		OTLPEndpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTELServiceName: v.GetString("OTEL_SERVICE_NAME"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
