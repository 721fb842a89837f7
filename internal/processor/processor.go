package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"audio-insight-go/internal/extractor"
	"audio-insight-go/internal/types"
)

// ProcessSelection encodes the selected audio, runs one analysis and logs the
// outcome. Every failure comes back as an *extractor.AdapterError, including
// plain errors and panics from the analyzer.
func ProcessSelection(ctx context.Context, an extractor.Analyzer, credential string, sel types.AudioSelection, log *logrus.Entry) (res types.ExtractionResult, err error) {
	log = log.WithFields(logrus.Fields{
		"component": "processor",
		"file_name": sel.Name,
		"file_size": sel.Size,
		"mime_type": sel.MimeType,
	})
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = types.ExtractionResult{}
			err = &extractor.AdapterError{Kind: extractor.KindTransport, Err: fmt.Errorf("analyzer panic: %v", r)}
		}
		log = log.WithField("duration_ms", time.Since(start).Milliseconds())
		if err != nil {
			kind := extractor.Kind("unknown")
			if ae, ok := extractor.AsAdapterError(err); ok {
				kind = ae.Kind
			}
			log.WithField("kind", kind).WithField("error", err.Error()).Warn("analysis failed")
			return
		}
		log.WithField("confidence", res.Confidence).Info("analysis finished")
	}()

	req := extractor.NewRequest(sel)
	res, err = an.Analyze(ctx, credential, req)
	if err != nil {
		if _, ok := extractor.AsAdapterError(err); !ok {
			err = &extractor.AdapterError{Kind: extractor.KindTransport, Err: errors.Wrap(err, "analyze")}
		}
		return types.ExtractionResult{}, err
	}
	return res, nil
}
