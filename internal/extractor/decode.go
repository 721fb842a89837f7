package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"audio-insight-go/internal/types"
)

// rawResult uses pointers so an omitted field can be told apart from an empty one.
type rawResult struct {
	Transcription *string  `json:"transcription"`
	Name          *string  `json:"name"`
	PhoneNumber   *string  `json:"phoneNumber"`
	Gender        *string  `json:"gender"`
	Confidence    *float64 `json:"confidence"`
	Summary       *string  `json:"summary"`
}

// Decode parses the model's text output into an ExtractionResult. It never
// returns a partially populated result.
func Decode(text string) (types.ExtractionResult, error) {
	var empty types.ExtractionResult
	text = stripFences(text)
	if text == "" {
		return empty, newError(KindEmpty, errors.New("no response from model"))
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return empty, newError(KindDecode, errors.Wrap(err, "parse model output"))
	}

	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check(FieldTranscription, raw.Transcription != nil)
	check(FieldName, raw.Name != nil)
	check(FieldPhoneNumber, raw.PhoneNumber != nil)
	check(FieldGender, raw.Gender != nil)
	check(FieldConfidence, raw.Confidence != nil)
	check(FieldSummary, raw.Summary != nil)
	if len(missing) > 0 {
		return empty, newError(KindSchema, fmt.Errorf("missing fields: %s", strings.Join(missing, ", ")))
	}

	gender := types.Gender(*raw.Gender)
	if !gender.Valid() {
		return empty, newError(KindSchema, fmt.Errorf("gender %q not in enum", *raw.Gender))
	}
	if c := *raw.Confidence; c < 0 || c > 1 {
		return empty, newError(KindSchema, fmt.Errorf("confidence %v outside [0,1]", c))
	}

	return types.ExtractionResult{
		Transcription: *raw.Transcription,
		Name:          *raw.Name,
		PhoneNumber:   *raw.PhoneNumber,
		Gender:        gender,
		Confidence:    *raw.Confidence,
		Summary:       *raw.Summary,
	}, nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
