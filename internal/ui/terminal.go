package ui

import (
	"io"

	"golang.org/x/term"
)

type fileDescriptor interface {
	Fd() uintptr
}

type wrappedStream interface {
	Unwrap() io.Writer
}

// IsTerminal reports whether the stream, or the stream it wraps, is attached to an interactive terminal.
func IsTerminal(stream any) bool {
	for stream != nil {
		if descriptor, ok := stream.(fileDescriptor); ok {
			return term.IsTerminal(int(descriptor.Fd()))
		}
		wrapper, ok := stream.(wrappedStream)
		if !ok {
			return false
		}
		inner := wrapper.Unwrap()
		if inner == nil {
			return false
		}
		stream = inner
	}
	return false
}
