package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var AppEnv Config

type Config struct {
	MongoURI          string
	DBName            string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RazorpayKeyID     string
	RazorpayKeySecret string
	CORSOrigins       []string
	Port              string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		logrus.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnvOrDefault("DB_NAME", "marketplace"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),
		// Demo keys let the mocked gateway run without a real account.
		RazorpayKeyID:     getEnvOrDefault("RAZORPAY_KEY_ID", "rzp_test_demo123456789"),
		RazorpayKeySecret: getEnvOrDefault("RAZORPAY_KEY_SECRET", "demo_secret_key_12345678"),
		CORSOrigins:       getListEnv("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		Port:              getEnvOrDefault("PORT", "8080"),
	}
	if err := AppEnv.validate(); err != nil {
		logrus.Fatal(err)
	}
}

// validate rejects configurations that would be silently unsafe to run with.
// An empty JWT secret would sign every token with an empty HMAC key.
func (c Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
