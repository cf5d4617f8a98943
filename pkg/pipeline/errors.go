package pipeline

import (
	"errors"
	"fmt"

	"github.com/abworrall/fisheye-hdr/pkg/exposure"
	"github.com/abworrall/fisheye-hdr/pkg/tool"
)

// Kind says what sort of thing went wrong, so callers can branch on it.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindFilesystem
	KindToolInvocation
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindFilesystem:
		return "filesystem"
	case KindToolInvocation:
		return "tool invocation"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Error is what Run (and everything under it) returns when it fails. Every
// error is terminal; nothing after it is processed.
type Error struct {
	Kind Kind
	Op   string // what we were doing, e.g. "crop" or "scene 'north'"
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf digs through err's chain for something it can classify.
func KindOf(err error) Kind {
	var pe *Error
	var te *tool.Error
	var de *exposure.DecodeError

	switch {
	case errors.As(err, &pe):
		return pe.Kind
	case errors.As(err, &te):
		return KindToolInvocation
	case errors.As(err, &de):
		return KindDecode
	}
	return KindUnknown
}

func validationf(op, format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

func filesystemErr(op string, err error) error {
	return &Error{Kind: KindFilesystem, Op: op, Err: err}
}

// wrap tags err with op, classifying it by whatever is underneath. An error
// that is already a *Error is passed through untouched.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Kind: KindOf(err), Op: op, Err: err}
}
