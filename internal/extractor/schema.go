package extractor

import "audio-insight-go/internal/types"

// Instruction is sent alongside the audio on every request.
const Instruction = "この音声ファイルを解析し、以下の情報を抽出してください。音声は電話の録音や留守番電話の可能性があります。\n" +
	"1. 全文書き起こし\n" +
	"2. 相手の氏名（不明な場合は空文字）\n" +
	"3. 折り返しの電話番号（不明な場合は空文字）\n" +
	"4. 推定される性別（male, female, unknownのいずれか）\n" +
	"5. 抽出の信頼度(0-1)\n" +
	"6. 会話の短い要約\n" +
	"結果は必ず指定されたJSON形式で返してください。"

const (
	FieldTranscription = "transcription"
	FieldName          = "name"
	FieldPhoneNumber   = "phoneNumber"
	FieldGender        = "gender"
	FieldConfidence    = "confidence"
	FieldSummary       = "summary"
)

// RequiredFields lists every property of the response; the model must return all of them.
var RequiredFields = []string{
	FieldTranscription,
	FieldName,
	FieldPhoneNumber,
	FieldGender,
	FieldConfidence,
	FieldSummary,
}

// Schema mirrors the Gemini REST responseSchema object.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

const (
	schemaObject = "OBJECT"
	schemaString = "STRING"
	schemaNumber = "NUMBER"
)

func genderValues() []string {
	out := make([]string, 0, len(types.Genders))
	for _, g := range types.Genders {
		out = append(out, string(g))
	}
	return out
}

// ResponseSchema is the contract that keeps the model output machine-parseable.
func ResponseSchema() *Schema {
	return &Schema{
		Type: schemaObject,
		Properties: map[string]*Schema{
			FieldTranscription: {Type: schemaString},
			FieldName:          {Type: schemaString},
			FieldPhoneNumber:   {Type: schemaString},
			FieldGender:        {Type: schemaString, Enum: genderValues()},
			FieldConfidence:    {Type: schemaNumber},
			FieldSummary:       {Type: schemaString},
		},
		Required: append([]string(nil), RequiredFields...),
	}
}
