package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	// CartAPIURL is the base URL of the remote cart API.
	CartAPIURL string
	// CartToken is the bearer credential for bound sessions; empty means
	// anonymous.
	CartToken string
	// GuestCartPath is where the anonymous cart is persisted on disk.
	GuestCartPath string

	HTTPTimeoutSeconds int
}

func Load() Config {
	return Config{
		AppEnv:             getEnv("APP_ENV", "dev"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HTTPPort:           getEnvInt("HTTP_PORT", 8080),
		CartAPIURL:         getEnv("CART_API_URL", "http://localhost:8080"),
		CartToken:          getEnv("CART_TOKEN", ""),
		GuestCartPath:      getEnv("GUEST_CART_PATH", ".klozet/guest-cart.json"),
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 15),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
