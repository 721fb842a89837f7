package session

import "audio-insight-go/internal/types"

type Event interface {
	event()
}

type (
	FileSelected      struct{ File types.AudioSelection }
	FileRejected      struct{ Message string }
	CredentialChanged struct{ Value string }
	TemplateChanged   struct{ Value string }
	CredentialMissing struct{}
	AnalysisStarted   struct{}
	AnalysisSucceeded struct{ Result types.ExtractionResult }
	AnalysisFailed    struct{ Message string }
	ResetRequested    struct{}
)

func (FileSelected) event()      {}
func (FileRejected) event()      {}
func (CredentialChanged) event() {}
func (TemplateChanged) event()   {}
func (CredentialMissing) event() {}
func (AnalysisStarted) event()   {}
func (AnalysisSucceeded) event() {}
func (AnalysisFailed) event()    {}
func (ResetRequested) event()    {}

// Reduce returns the state that follows s after e. It never mutates s and
// returns s unchanged for events that are illegal in the current phase.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case FileSelected:
		if s.Processing {
			return s
		}
		file := ev.File
		s.File = &file
		s.Result = nil
		s.Error = ""
		s.Phase = PhaseReady

	case FileRejected:
		if s.Processing {
			return s
		}
		s.File = nil
		s.Result = nil
		s.Error = ev.Message
		s.Phase = PhaseFailed

	case CredentialChanged:
		s.Credential = ev.Value
		if s.Phase == PhaseFailed {
			s.Error = ""
			s.Phase = restingPhase(s)
		}

	case TemplateChanged:
		s.Template = ev.Value

	case CredentialMissing:
		if !s.CanAnalyze() {
			return s
		}
		s.Result = nil
		s.Error = MsgCredentialMissing
		s.Phase = PhaseFailed

	case AnalysisStarted:
		if !s.CanAnalyze() {
			return s
		}
		s.Processing = true
		s.Result = nil
		s.Error = ""
		s.Phase = PhaseProcessing

	case AnalysisSucceeded:
		if !s.Processing {
			return s
		}
		res := ev.Result
		s.Processing = false
		s.Result = &res
		s.Error = ""
		s.Phase = PhaseCompleted

	case AnalysisFailed:
		if !s.Processing {
			return s
		}
		s.Processing = false
		s.Result = nil
		s.Error = ev.Message
		s.Phase = PhaseFailed

	case ResetRequested:
		if s.Processing {
			return s
		}
		s.File = nil
		s.Result = nil
		s.Error = ""
		s.Phase = PhaseIdle
	}
	return s
}

func restingPhase(s State) Phase {
	switch {
	case s.Result != nil:
		return PhaseCompleted
	case s.File != nil:
		return PhaseReady
	default:
		return PhaseIdle
	}
}
