package types

import (
	"fmt"
	"math"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Genders is the closed set the model is allowed to answer with.
var Genders = []Gender{GenderMale, GenderFemale, GenderUnknown}

func (g Gender) Valid() bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}

// Label is the display text shown on the result card.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "男性"
	case GenderFemale:
		return "女性"
	default:
		return "不明"
	}
}

// AudioSelection is the uploaded recording held in memory until it is
// replaced or the session is reset.
type AudioSelection struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     []byte `json:"-"`
}

// AnalysisRequest is built fresh for every call to the model.
type AnalysisRequest struct {
	Data        string // base64
	MimeType    string
	Instruction string
}

type ExtractionResult struct {
	Transcription string  `json:"transcription"`
	Name          string  `json:"name"`
	PhoneNumber   string  `json:"phoneNumber"`
	Gender        Gender  `json:"gender"`
	Confidence    float64 `json:"confidence"`
	Summary       string  `json:"summary"`
}

// ConfidencePercent rounds the confidence to a whole percentage, e.g. 0.873 -> "87%".
func (r ExtractionResult) ConfidencePercent() string {
	return fmt.Sprintf("%d%%", int(math.Round(r.Confidence*100)))
}
