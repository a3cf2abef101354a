// Package errors provides error wrapping with slog annotations and source
// locations. It re-exports the stdlib helpers so callers only need one import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// annotatedError carries a message, optional wrapped error, slog attributes,
// and the program counter of the call site that created it.
type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	pc    uintptr
}

// NewSentinel creates a new sentinel error suitable for errors.Is comparisons.
func NewSentinel(msg string) error {
	return &annotatedError{
		msg:   msg,
		err:   nil,
		attrs: nil,
		pc:    caller(2), //nolint:mnd // skip runtime.Callers and NewSentinel.
	}
}

// Wrap annotates err with a message and optional slog attributes.
//
// The resulting error message is "msg: err". Wrapping nil is tolerated and
// yields an error with just the message so that logging code never panics.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:   msg,
		err:   err,
		attrs: attrs,
		pc:    caller(2), //nolint:mnd // skip runtime.Callers and Wrap.
	}
}

// DecoratePanic converts a recovered panic value into an annotated error.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &annotatedError{
		msg:   fmt.Sprintf("panic: %v", recovered),
		err:   nil,
		attrs: nil,
		pc:    panicCaller(),
	}
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	wrapped := e.err.Error()
	if wrapped == "" {
		return e.msg
	}
	return e.msg + ": " + wrapped
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// SlogError renders err as a structured "error" attribute containing the
// message, the source location of the outermost annotation, and all
// annotations collected from the wrapped chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	groupAttrs := []any{slog.String("message", err.Error())}

	var annotated *annotatedError
	if errors.As(err, &annotated) {
		if source := annotated.source(); source != "" {
			groupAttrs = append(groupAttrs, slog.String("source", source))
		}
	}

	if attrs := collectAttrs(err); len(attrs) > 0 {
		annotationArgs := make([]any, 0, len(attrs))
		for _, attr := range attrs {
			annotationArgs = append(annotationArgs, attr)
		}
		groupAttrs = append(groupAttrs, slog.Group("annotations", annotationArgs...))
	}

	return slog.Group("error", groupAttrs...)
}

// collectAttrs walks the error chain and gathers annotation attributes from
// outermost to innermost. Joined errors contribute all their branches.
func collectAttrs(err error) []slog.Attr {
	var attrs []slog.Attr
	for err != nil {
		var annotated *annotatedError
		if errors.As(err, &annotated) {
			attrs = append(attrs, annotated.attrs...)
			err = annotated.err
			continue
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, branch := range joined.Unwrap() {
				attrs = append(attrs, collectAttrs(branch)...)
			}
			return attrs
		}
		err = errors.Unwrap(err)
	}
	return attrs
}

// source formats the call site as "file.go:123" with the package path trimmed.
func (e *annotatedError) source() string {
	if e.pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{e.pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	file := frame.File
	if idx := strings.LastIndexByte(file, '/'); idx != -1 {
		file = file[idx+1:]
	}
	return fmt.Sprintf("%s:%d", file, frame.Line)
}

// caller returns the program counter skip frames above this function.
func caller(skip int) uintptr {
	var pcs [1]uintptr
	if n := runtime.Callers(skip+1, pcs[:]); n == 0 {
		return 0
	}
	return pcs[0]
}

// panicCaller walks the stack past the runtime panic machinery to find the
// frame that actually panicked.
func panicCaller() uintptr {
	var pcs [16]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and DecoratePanic.
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		skippable := strings.HasPrefix(frame.Function, "runtime.") ||
			strings.Contains(frame.Function, "internal/errors.")
		if !skippable {
			return frame.PC
		}
		if !more {
			return 0
		}
	}
}

// New re-exports [errors.New].
func New(msg string) error { return errors.New(msg) }

// Is re-exports [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// As re-exports [errors.As].
func As(err error, target any) bool { return errors.As(err, target) }

// Unwrap re-exports [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join re-exports [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
