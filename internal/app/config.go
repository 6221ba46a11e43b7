package app

import (
	"os"
	"strconv"
)

type Config struct {
	Env                string
	Port               string
	DSN                string
	PublicBaseURL      string
	PaymentAPIBase     string
	PaymentAPIKey      string
	OperatorEmail      string
	InventoryThreshold int64
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func LoadConfig() Config {
	threshold, err := strconv.ParseInt(getEnv("INVENTORY_THRESHOLD", "50"), 10, 64)
	if err != nil {
		threshold = 50
	}
	return Config{
		Env:                getEnv("APP_ENV", "dev"),
		Port:               getEnv("APP_PORT", "8080"),
		DSN:                os.Getenv("DB_DSN"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		PaymentAPIBase:     getEnv("PAYMENT_API_BASE", "https://api.mollie.com"),
		PaymentAPIKey:      os.Getenv("PAYMENT_API_KEY"),
		OperatorEmail:      os.Getenv("OPERATOR_EMAIL"),
		InventoryThreshold: threshold,
	}
}
