package session

import (
	"path/filepath"
	"strings"

	"audio-insight-go/internal/types"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseReady      Phase = "ready"
	PhaseProcessing Phase = "processing"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// Messages shown to the user. Analysis failures never expose the cause.
const (
	MsgInvalidFile       = "WAVファイルのみ対応しています。"
	MsgCredentialMissing = "Gemini APIキーを入力してください。"
	MsgAnalysisFailed    = "音声の解析中にエラーが発生しました。APIキーが正しいか、ファイル形式が適切か確認してください。"
)

// State is one immutable snapshot of a session. Result and Error are never
// set together; Processing is true only while a call is in flight.
type State struct {
	Phase      Phase                   `json:"phase"`
	File       *types.AudioSelection   `json:"file,omitempty"`
	Credential string                  `json:"-"`
	Template   string                  `json:"csv_header"`
	Processing bool                    `json:"is_processing"`
	Result     *types.ExtractionResult `json:"result,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

func Initial(template string) State {
	return State{Phase: PhaseIdle, Template: template}
}

// CanAnalyze reports whether a dispatch is allowed. A failed state that still
// holds a file is a user re-attempt.
func (s State) CanAnalyze() bool {
	if s.Processing || s.File == nil {
		return false
	}
	return s.Phase == PhaseReady || s.Phase == PhaseFailed
}

func (s State) HasCredential() bool {
	return strings.TrimSpace(s.Credential) != ""
}

var wavMimeTypes = map[string]bool{
	"audio/wav":      true,
	"audio/x-wav":    true,
	"audio/wave":     true,
	"audio/vnd.wave": true,
}

// IsWAVMimeType reports whether mimeType, parameters ignored, is a WAV media type.
func IsWAVMimeType(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return wavMimeTypes[mt]
}

// IsWAV checks the declared media type or the file extension. The content is
// never sniffed.
func IsWAV(name, mimeType string) bool {
	return IsWAVMimeType(mimeType) || strings.EqualFold(filepath.Ext(name), ".wav")
}
