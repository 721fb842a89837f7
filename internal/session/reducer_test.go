package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"audio-insight-go/internal/types"
)

var wav = types.AudioSelection{Name: "call.wav", MimeType: "audio/wav", Size: 4, Data: []byte("RIFF")}

func ready() State {
	return Reduce(Initial("h"), FileSelected{File: wav})
}

func requireConsistent(t *testing.T, s State) {
	t.Helper()
	require.False(t, s.Result != nil && s.Error != "", "result and error both set: %+v", s)
	require.Equal(t, s.Phase == PhaseProcessing, s.Processing)
}

func TestReduceFileSelected(t *testing.T) {
	s := ready()
	requireConsistent(t, s)
	require.Equal(t, PhaseReady, s.Phase)
	require.Equal(t, "call.wav", s.File.Name)

	done := Reduce(Reduce(s, AnalysisStarted{}), AnalysisSucceeded{Result: types.ExtractionResult{Name: "a"}})
	again := Reduce(done, FileSelected{File: types.AudioSelection{Name: "b.wav"}})
	require.Equal(t, PhaseReady, again.Phase)
	require.Nil(t, again.Result)
	require.Equal(t, "b.wav", again.File.Name)
	require.Equal(t, "call.wav", s.File.Name, "previous state must not change")
}

func TestReduceFileRejected(t *testing.T) {
	s := Reduce(ready(), FileRejected{Message: MsgInvalidFile})
	requireConsistent(t, s)
	require.Equal(t, PhaseFailed, s.Phase)
	require.Nil(t, s.File)
	require.Equal(t, MsgInvalidFile, s.Error)
	require.False(t, s.CanAnalyze())
}

func TestReduceIgnoresFileChangesWhileProcessing(t *testing.T) {
	p := Reduce(ready(), AnalysisStarted{})
	require.Equal(t, p, Reduce(p, FileSelected{File: types.AudioSelection{Name: "x.wav"}}))
	require.Equal(t, p, Reduce(p, FileRejected{Message: "x"}))
	require.Equal(t, p, Reduce(p, ResetRequested{}))
	require.Equal(t, p, Reduce(p, AnalysisStarted{}))
}

func TestReduceAnalysisLifecycle(t *testing.T) {
	s := Reduce(ready(), AnalysisStarted{})
	requireConsistent(t, s)
	require.True(t, s.Processing)
	require.Equal(t, PhaseProcessing, s.Phase)

	ok := Reduce(s, AnalysisSucceeded{Result: types.ExtractionResult{Name: "Taro"}})
	requireConsistent(t, ok)
	require.Equal(t, PhaseCompleted, ok.Phase)
	require.Equal(t, "Taro", ok.Result.Name)
	require.Empty(t, ok.Error)

	failed := Reduce(s, AnalysisFailed{Message: MsgAnalysisFailed})
	requireConsistent(t, failed)
	require.Equal(t, PhaseFailed, failed.Phase)
	require.Nil(t, failed.Result)
	require.Equal(t, MsgAnalysisFailed, failed.Error)
	require.True(t, failed.CanAnalyze(), "failed analysis with a file can be re-attempted")

	retry := Reduce(failed, AnalysisStarted{})
	require.Empty(t, retry.Error)
	require.True(t, retry.Processing)
}

func TestReduceResolutionOnlyWhileProcessing(t *testing.T) {
	s := ready()
	require.Equal(t, s, Reduce(s, AnalysisSucceeded{Result: types.ExtractionResult{Name: "x"}}))
	require.Equal(t, s, Reduce(s, AnalysisFailed{Message: "x"}))
}

func TestReduceStartRequiresFile(t *testing.T) {
	idle := Initial("h")
	require.Equal(t, idle, Reduce(idle, AnalysisStarted{}))
	require.Equal(t, idle, Reduce(idle, CredentialMissing{}))

	done := Reduce(Reduce(ready(), AnalysisStarted{}), AnalysisSucceeded{})
	require.Equal(t, done, Reduce(done, AnalysisStarted{}))
}

func TestReduceCredentialMissing(t *testing.T) {
	s := Reduce(ready(), CredentialMissing{})
	requireConsistent(t, s)
	require.Equal(t, PhaseFailed, s.Phase)
	require.Equal(t, MsgCredentialMissing, s.Error)
	require.NotNil(t, s.File)

	// typing a key clears the message
	s = Reduce(s, CredentialChanged{Value: "k"})
	require.Equal(t, PhaseReady, s.Phase)
	require.Empty(t, s.Error)
	require.Equal(t, "k", s.Credential)
}

func TestReduceCredentialChangedKeepsOtherPhases(t *testing.T) {
	idle := Reduce(Initial("h"), CredentialChanged{Value: "k"})
	require.Equal(t, PhaseIdle, idle.Phase)

	rejected := Reduce(Initial("h"), FileRejected{Message: MsgInvalidFile})
	require.Equal(t, PhaseIdle, Reduce(rejected, CredentialChanged{Value: "k"}).Phase)

	p := Reduce(ready(), AnalysisStarted{})
	p2 := Reduce(p, CredentialChanged{Value: "other"})
	require.Equal(t, PhaseProcessing, p2.Phase)
	require.Equal(t, "other", p2.Credential)
}

func TestReduceTemplate(t *testing.T) {
	s := Reduce(ready(), TemplateChanged{Value: "a, b, c"})
	require.Equal(t, "a, b, c", s.Template)
	require.Equal(t, PhaseReady, s.Phase)
}

func TestReduceReset(t *testing.T) {
	s := Reduce(Reduce(ready(), CredentialChanged{Value: "k"}), FileRejected{Message: MsgInvalidFile})
	r := Reduce(s, ResetRequested{})
	require.Equal(t, PhaseIdle, r.Phase)
	require.Nil(t, r.File)
	require.Empty(t, r.Error)
	require.Equal(t, "k", r.Credential)
	require.Equal(t, "h", r.Template)

	idle := Initial("h")
	require.Equal(t, idle, Reduce(Reduce(idle, ResetRequested{}), ResetRequested{}))
}

func TestIsWAV(t *testing.T) {
	accept := []struct{ name, mime string }{
		{"call.wav", ""},
		{"CALL.WAV", "application/octet-stream"},
		{"noext", "audio/wav"},
		{"noext", "audio/x-wav"},
		{"noext", "Audio/Wave; codecs=1"},
		{"x.mp3", "audio/vnd.wave"},
	}
	for _, c := range accept {
		require.True(t, IsWAV(c.name, c.mime), "%+v", c)
	}
	reject := []struct{ name, mime string }{
		{"call.mp3", "audio/mpeg"},
		{"call.wav.txt", "text/plain"},
		{"wav", ""},
		{"", ""},
		{"call.ogg", "audio/ogg"},
	}
	for _, c := range reject {
		require.False(t, IsWAV(c.name, c.mime), "%+v", c)
	}
}

func TestIsWAVMimeType(t *testing.T) {
	require.True(t, IsWAVMimeType("audio/wav"))
	require.True(t, IsWAVMimeType(" AUDIO/X-WAV ; rate=8000"))
	require.False(t, IsWAVMimeType("text/html"))
	require.False(t, IsWAVMimeType(""))
}
