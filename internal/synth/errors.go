package synth

import (
	"errors"
	"fmt"
)

// ErrImageSynthesis matches every *ImageSynthesisError via errors.Is.
var ErrImageSynthesis = errors.New("image synthesis failed")

// Kind classifies an image synthesis failure.
type Kind string

const (
	KindUnconfigured Kind = "unconfigured"
	KindTransport    Kind = "transport"
	KindStatus       Kind = "status"
	KindEmpty        Kind = "empty"
	KindDecode       Kind = "decode"
)

// ImageSynthesisError is the terminal error of a poster render. It is never
// recovered locally.
type ImageSynthesisError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *ImageSynthesisError) Error() string {
	msg := fmt.Sprintf("image synthesis (%s)", e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" [%d]", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImageSynthesisError) Unwrap() error { return e.Err }

func (e *ImageSynthesisError) Is(target error) bool { return target == ErrImageSynthesis }
