package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// ConsoleWriter serializes writes from concurrent producers sharing one output stream and
// flushes buffered targets after every write so that progress lines appear immediately.
type ConsoleWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewConsoleWriter wraps writer. Wrapping a ConsoleWriter returns it unchanged.
func NewConsoleWriter(writer io.Writer) *ConsoleWriter {
	if existing, alreadyWrapped := writer.(*ConsoleWriter); alreadyWrapped {
		return existing
	}
	if writer == nil {
		writer = io.Discard
	}
	return &ConsoleWriter{writer: writer}
}

// Write delegates to the underlying writer and flushes it when possible.
func (consoleWriter *ConsoleWriter) Write(data []byte) (int, error) {
	if consoleWriter == nil {
		return len(data), nil
	}

	consoleWriter.mutex.Lock()
	defer consoleWriter.mutex.Unlock()

	bytesWritten, writeError := consoleWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableWriter, implementsFlush := consoleWriter.writer.(flusher); implementsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}

// Unwrap exposes the wrapped stream, letting callers inspect it for terminal capabilities.
func (consoleWriter *ConsoleWriter) Unwrap() io.Writer {
	if consoleWriter == nil {
		return nil
	}
	return consoleWriter.writer
}
