package web

import (
	"github.com/dustin/go-humanize"

	"audio-insight-go/internal/session"
	"audio-insight-go/internal/types"
)

const unknownLabel = "不明"

type resultView struct {
	Name            string
	NameKnown       bool
	Phone           string
	PhoneKnown      bool
	Gender          string
	Confidence      string
	ConfidenceWidth float64
	Summary         string
	Transcription   string
}

type pageData struct {
	State      session.State
	FileSize   string
	CanAnalyze bool
	Result     *resultView
}

func newResultView(r types.ExtractionResult) *resultView {
	v := &resultView{
		Name:            r.Name,
		NameKnown:       r.Name != "",
		Phone:           r.PhoneNumber,
		PhoneKnown:      r.PhoneNumber != "",
		Gender:          r.Gender.Label(),
		Confidence:      r.ConfidencePercent(),
		ConfidenceWidth: r.Confidence * 100,
		Summary:         r.Summary,
		Transcription:   r.Transcription,
	}
	if !v.NameKnown {
		v.Name = unknownLabel
	}
	if !v.PhoneKnown {
		v.Phone = unknownLabel
	}
	if v.Transcription == "" {
		v.Transcription = "（文字起こし内容がありません）"
	}
	return v
}

func newPageData(st session.State) pageData {
	d := pageData{
		State:      st,
		CanAnalyze: st.CanAnalyze() && st.Result == nil,
	}
	if st.File != nil {
		d.FileSize = humanize.Bytes(uint64(st.File.Size))
	}
	if st.Result != nil {
		d.Result = newResultView(*st.Result)
	}
	return d
}
