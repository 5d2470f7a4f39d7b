// Package console is the terminal backend of the logger facade.
package console

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Params configures a console logger.
type Params struct {
	Debug bool

	// Output defaults to stderr. Stdout is reserved for command output and
	// the MCP transport.
	Output io.Writer
}

// Logger writes structured key/value lines with charmbracelet/log.
type Logger struct {
	logger *log.Logger
}

// New creates a console logger.
func New(params Params) *Logger {
	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	out := params.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		logger: log.NewWithOptions(out, log.Options{
			ReportTimestamp: true,
			Level:           level,
			Prefix:          "sdapps",
		}),
	}
}

// Debug implements logger.Instance.
func (c *Logger) Debug(message string, keyvals ...any) { c.logger.Debug(message, keyvals...) }

// Info implements logger.Instance.
func (c *Logger) Info(message string, keyvals ...any) { c.logger.Info(message, keyvals...) }

// Warn implements logger.Instance.
func (c *Logger) Warn(message string, keyvals ...any) { c.logger.Warn(message, keyvals...) }

// Error implements logger.Instance.
func (c *Logger) Error(message string, keyvals ...any) { c.logger.Error(message, keyvals...) }

// Fatal implements logger.Instance.
func (c *Logger) Fatal(message string, keyvals ...any) { c.logger.Fatal(message, keyvals...) }
