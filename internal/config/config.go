package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries every gateway setting. It is loaded once at startup and
// passed explicitly to each component; nothing reads the environment after
// Load returns.
type Config struct {
	Port    string
	BaseURL string
	DBPath  string

	Enabled      bool
	Sandbox      bool
	Email        string
	SharedSecret string
	VerifyIPN    bool

	Title        string
	Description  string
	Instructions string

	IPNLogPath      string
	IPNLogRetention int
}

// Load reads the configuration from the environment, applying the same
// defaults the admin form ships with.
func Load() (*Config, error) {
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		DBPath:  getEnv("DB_PATH", "paxum.db"),

		Enabled:      getEnvBool("PAXUM_ENABLED", true),
		Sandbox:      getEnvBool("PAXUM_SANDBOX", false),
		Email:        getEnv("PAXUM_EMAIL", ""),
		SharedSecret: os.Getenv("PAXUM_SHARED_SECRET"),

		Title:        getEnv("PAXUM_TITLE", "Paxum"),
		Description:  getEnv("PAXUM_DESCRIPTION", "You will be forwarded to PAXUM site."),
		Instructions: getEnv("PAXUM_INSTRUCTIONS", "Your payment with PAXUM has been completed."),

		IPNLogPath:      getEnv("IPN_LOG_PATH", "logs/paxum_ipn_log.txt"),
		IPNLogRetention: getEnvInt("IPN_LOG_RETENTION", 30),
	}

	// Signature verification only makes sense with a secret configured.
	cfg.VerifyIPN = getEnvBool("PAXUM_VERIFY_IPN", cfg.SharedSecret != "")
	if cfg.VerifyIPN && cfg.SharedSecret == "" {
		return nil, fmt.Errorf("PAXUM_VERIFY_IPN is on but PAXUM_SHARED_SECRET is empty")
	}

	if cfg.IPNLogRetention < 1 {
		return nil, fmt.Errorf("IPN_LOG_RETENTION must be >= 1, got %d", cfg.IPNLogRetention)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
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
