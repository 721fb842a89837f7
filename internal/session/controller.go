package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"audio-insight-go/internal/export"
	"audio-insight-go/internal/extractor"
	"audio-insight-go/internal/processor"
	"audio-insight-go/internal/types"
)

// Controller owns one session's State. Every change goes through Reduce; the
// mutex is never held across the model call.
type Controller struct {
	mu       sync.Mutex
	state    State
	inflight sync.WaitGroup

	analyzer extractor.Analyzer
	log      *logrus.Entry
	now      func() time.Time
}

type ControllerOption func(*Controller)

// WithClock overrides the time source used for export file names.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func NewController(an extractor.Analyzer, template string, log *logrus.Entry, opts ...ControllerOption) *Controller {
	c := &Controller{
		state:    Initial(template),
		analyzer: an,
		log:      log.WithField("component", "session"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) dispatch(e Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, e)
	return c.state
}

// SelectFile accepts WAV uploads only. A rejected file leaves no file selected.
func (c *Controller) SelectFile(sel types.AudioSelection) State {
	if !IsWAV(sel.Name, sel.MimeType) {
		c.log.WithFields(logrus.Fields{"file_name": sel.Name, "mime_type": sel.MimeType}).Info("rejected non-wav upload")
		return c.dispatch(FileRejected{Message: MsgInvalidFile})
	}
	return c.dispatch(FileSelected{File: sel})
}

func (c *Controller) SetCredential(v string) State {
	return c.dispatch(CredentialChanged{Value: v})
}

func (c *Controller) SetTemplate(v string) State {
	return c.dispatch(TemplateChanged{Value: v})
}

func (c *Controller) Reset() State {
	return c.dispatch(ResetRequested{})
}

// begin applies the pre-dispatch transition. ok is false when no call must be made.
func (c *Controller) begin() (sel types.AudioSelection, credential string, st State, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.CanAnalyze() {
		return sel, "", c.state, false
	}
	if !c.state.HasCredential() {
		c.state = Reduce(c.state, CredentialMissing{})
		return sel, "", c.state, false
	}
	c.state = Reduce(c.state, AnalysisStarted{})
	c.inflight.Add(1)
	return *c.state.File, strings.TrimSpace(c.state.Credential), c.state, true
}

func (c *Controller) run(ctx context.Context, sel types.AudioSelection, credential string) State {
	defer c.inflight.Done()
	res, err := processor.ProcessSelection(ctx, c.analyzer, credential, sel, c.log)
	if err != nil {
		return c.dispatch(AnalysisFailed{Message: MsgAnalysisFailed})
	}
	return c.dispatch(AnalysisSucceeded{Result: res})
}

// BeginAnalysis runs one analysis to completion and returns the final state.
// It is a no-op unless the session is ready and nothing is in flight. The call
// is detached from ctx cancellation.
func (c *Controller) BeginAnalysis(ctx context.Context) State {
	sel, credential, st, ok := c.begin()
	if !ok {
		return st
	}
	return c.run(context.WithoutCancel(ctx), sel, credential)
}

// BeginAnalysisAsync dispatches the call in the background and returns the
// state right after dispatch.
func (c *Controller) BeginAnalysisAsync(ctx context.Context) State {
	sel, credential, st, ok := c.begin()
	if !ok {
		return st
	}
	go c.run(context.WithoutCancel(ctx), sel, credential)
	return st
}

// Wait blocks until no analysis is in flight.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// ExportCSV returns false when there is no result yet.
func (c *Controller) ExportCSV() (export.Artifact, bool) {
	st := c.Snapshot()
	if st.Result == nil {
		return export.Artifact{}, false
	}
	return export.CSV(st.Template, *st.Result, c.now()), true
}

func (c *Controller) ExportXLSX() (export.Artifact, bool, error) {
	st := c.Snapshot()
	if st.Result == nil {
		return export.Artifact{}, false, nil
	}
	art, err := export.XLSX(st.Template, *st.Result, c.now())
	if err != nil {
		return export.Artifact{}, true, err
	}
	return art, true, nil
}
