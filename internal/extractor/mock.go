package extractor

import (
	"context"

	"audio-insight-go/internal/types"
)

// MockAnalyzer returns a fixed result without touching the network.
type MockAnalyzer struct{}

func (MockAnalyzer) Analyze(_ context.Context, _ string, _ types.AnalysisRequest) (types.ExtractionResult, error) {
	return types.ExtractionResult{
		Transcription: "MOCK TRANSCRIPT: 山田です。折り返しお電話をお願いします。番号は09012345678です。",
		Name:          "山田",
		PhoneNumber:   "09012345678",
		Gender:        types.GenderMale,
		Confidence:    0.9,
		Summary:       "折り返しの電話を希望",
	}, nil
}
