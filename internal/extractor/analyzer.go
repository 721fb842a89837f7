package extractor

import (
	"context"
	"encoding/base64"

	"github.com/sirupsen/logrus"

	"audio-insight-go/internal/config"
	"audio-insight-go/internal/types"
)

const defaultMimeType = "audio/wav"

// Analyzer performs exactly one schema-constrained model call per invocation.
// Failures are *AdapterError.
type Analyzer interface {
	Analyze(ctx context.Context, credential string, req types.AnalysisRequest) (types.ExtractionResult, error)
}

// NewRequest encodes the selected audio into a fresh request.
func NewRequest(sel types.AudioSelection) types.AnalysisRequest {
	mime := sel.MimeType
	if mime == "" {
		mime = defaultMimeType
	}
	return types.AnalysisRequest{
		Data:        base64.StdEncoding.EncodeToString(sel.Data),
		MimeType:    mime,
		Instruction: Instruction,
	}
}

// New picks the analyzer backend from configuration.
func New(cfg config.Config, log *logrus.Entry) Analyzer {
	switch {
	case cfg.UseMockLLM:
		log.Info("mock LLM mode ON - returning deterministic extraction")
		return MockAnalyzer{}
	case cfg.Backend == config.BackendSDK:
		return NewSDKClient(cfg.GeminiModel, log)
	default:
		return NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, log, WithTimeout(cfg.HTTPTimeout))
	}
}
