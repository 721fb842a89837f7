package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendREST = "rest"
	BackendSDK  = "sdk"

	DefaultCSVHeader = "名前, 電話番号, 要約"
)

type Config struct {
	Port           string
	GeminiBaseURL  string
	GeminiModel    string
	Backend        string
	HTTPTimeout    time.Duration
	MaxUploadBytes int64
	SessionTTL     time.Duration
	CSVHeader      string
	UseMockLLM     bool
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) Config {
	or := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}
	backend := strings.ToLower(or("EXTRACTOR_BACKEND", BackendREST))
	if backend != BackendSDK {
		backend = BackendREST
	}
	return Config{
		Port:           or("PORT", "8080"),
		GeminiBaseURL:  strings.TrimRight(or("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"), "/"),
		GeminiModel:    or("GEMINI_MODEL", "gemini-3-flash-preview"),
		Backend:        backend,
		HTTPTimeout:    time.Duration(intOr(getenv("HTTP_TIMEOUT_SEC"), 120)) * time.Second,
		MaxUploadBytes: int64(intOr(getenv("MAX_UPLOAD_MB"), 25)) << 20,
		SessionTTL:     time.Duration(intOr(getenv("SESSION_TTL_MIN"), 60)) * time.Minute,
		CSVHeader:      or("CSV_HEADER_TEMPLATE", DefaultCSVHeader),
		UseMockLLM:     getenv("USE_MOCK_LLM") == "true",
	}
}

func intOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
