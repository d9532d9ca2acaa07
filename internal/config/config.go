package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          int
	DataPath      string
	DBPath        string
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	APIBearer     string // static token for the public translate endpoint; empty disables the check
	OpenAIKey     string
	OpenAIBaseURL string
	Model         string
	Wrap          int
	BatchSize     int
	TargetLangs   []string // overrides the built-in default language set when non-empty
	CORSOrigins   []string
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "/data")
	wrap, _ := strconv.Atoi(getEnv("WRAP_WIDTH", "42"))
	batchSize, _ := strconv.Atoi(getEnv("BATCH_SIZE", "50"))

	// JWT secret: require explicit setting or generate random
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("Failed to generate random JWT secret: %v", err)
		}
		jwtSecret = hex.EncodeToString(b)
		log.Println("WARNING: JWT_SECRET not set, using random secret. Sessions will not survive restarts. Set JWT_SECRET env var for persistent sessions.")
	}

	if os.Getenv("API_BEARER") == "" {
		log.Println("WARNING: API_BEARER not set, the translate endpoint accepts unauthenticated requests.")
	}

	return &Config{
		Port:          port,
		DataPath:      dataPath,
		DBPath:        getEnv("DB_PATH", dataPath+"/vttrelay.db"),
		JWTSecret:     jwtSecret,
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),
		APIBearer:     os.Getenv("API_BEARER"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Wrap:          wrap,
		BatchSize:     batchSize,
		TargetLangs:   splitList(os.Getenv("TARGET_LANGS")),
		CORSOrigins:   corsOrigins(),
	}
}

// corsOrigins parses CORS_ORIGINS as a comma-separated list, defaulting to "*".
func corsOrigins() []string {
	v := os.Getenv("CORS_ORIGINS")
	if v == "" {
		return []string{"*"}
	}
	return splitList(strings.ReplaceAll(v, ",", " "))
}

// splitList splits a whitespace-separated env value, dropping empty fields.
func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return strings.Fields(v)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
