// Package telemetry builds the session logger. The interactive screens
// own stdout, so structured logs go to a file or nowhere at all.
package telemetry

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger returns a JSON logger appending to path, or a discarding
// logger when path is empty. The caller closes the returned Closer
// when the session ends.
func NewLogger(path string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return log.NewWithOptions(io.Discard, log.Options{}), nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Formatter:       log.JSONFormatter,
		Prefix:          "agentschool",
	})
	return logger, f, nil
}
