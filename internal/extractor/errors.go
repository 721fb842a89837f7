package extractor

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why a model call failed. Users only ever see one generic
// message; the kind exists for logs.
type Kind string

const (
	KindRequest   Kind = "request"
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindEmpty     Kind = "empty"
	KindDecode    Kind = "decode"
	KindSchema    Kind = "schema"
)

type AdapterError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *AdapterError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("extractor %s (http %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("extractor %s: %v", e.Kind, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// Cause lets errors.Cause walk through the adapter error.
func (e *AdapterError) Cause() error { return e.Err }

func newError(kind Kind, err error) *AdapterError {
	return &AdapterError{Kind: kind, Err: err}
}

// AsAdapterError reports whether err is, or wraps, an AdapterError.
func AsAdapterError(err error) (*AdapterError, bool) {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
