package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv(envMap(nil))
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.GeminiBaseURL)
	require.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	require.Equal(t, BackendREST, cfg.Backend)
	require.Equal(t, 120*time.Second, cfg.HTTPTimeout)
	require.Equal(t, int64(25<<20), cfg.MaxUploadBytes)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, DefaultCSVHeader, cfg.CSVHeader)
	require.False(t, cfg.UseMockLLM)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg := FromEnv(envMap(map[string]string{
		"PORT":                "9000",
		"GEMINI_BASE_URL":     "http://localhost:1234/v1beta/",
		"EXTRACTOR_BACKEND":   "SDK",
		"HTTP_TIMEOUT_SEC":    "5",
		"MAX_UPLOAD_MB":       "bad",
		"SESSION_TTL_MIN":     "-3",
		"CSV_HEADER_TEMPLATE": "name, phone, summary",
		"USE_MOCK_LLM":        "true",
	}))
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "http://localhost:1234/v1beta", cfg.GeminiBaseURL)
	require.Equal(t, BackendSDK, cfg.Backend)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.Equal(t, int64(25<<20), cfg.MaxUploadBytes)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, "name, phone, summary", cfg.CSVHeader)
	require.True(t, cfg.UseMockLLM)
}

func TestFromEnvUnknownBackend(t *testing.T) {
	cfg := FromEnv(envMap(map[string]string{"EXTRACTOR_BACKEND": "grpc"}))
	require.Equal(t, BackendREST, cfg.Backend)
}
