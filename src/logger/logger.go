// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/H0llyW00dzZ/secrets-cli/src/internal/helper/gc"
)

// Logger defines the interface for logging operations.
//
// This interface supports both CLI and [MCP] server modes, allowing seamless
// switching between human-readable output and structured logging.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// Debugf prints a message only when debug output is enabled.
	Debugf(format string, v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
type CLILogger struct {
	logger *log.Logger
	debug  atomic.Bool
}

// NewCLILogger creates a new CLI logger writing to stderr with timestamps disabled.
// Stdout is left to command results so they can be piped.
func NewCLILogger() *CLILogger {
	return &CLILogger{logger: log.New(os.Stderr, "", 0)}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// Debugf prints a "debug: " prefixed message when debug output is enabled.
func (c *CLILogger) Debugf(format string, v ...any) {
	if !c.debug.Load() {
		return
	}
	c.logger.Printf("debug: "+format, v...)
}

// SetDebug toggles debug output.
func (c *CLILogger) SetDebug(enabled bool) { c.debug.Store(enabled) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// MCPLogger implements Logger for [MCP] server mode.
// It suppresses output by default since MCP communication happens over stdio,
// but can be configured to write JSON lines to a separate destination.
//
// MCPLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type MCPLogger struct {
	mu     sync.Mutex
	writer io.Writer
	silent bool
	debug  bool
}

// NewMCPLogger creates a new [MCP] logger.
// A nil writer discards output.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func NewMCPLogger(writer io.Writer, silent bool) *MCPLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &MCPLogger{
		writer: writer,
		silent: silent,
	}
}

// Printf logs an info entry.
func (m *MCPLogger) Printf(format string, v ...any) { m.write("info", fmt.Sprintf(format, v...)) }

// Println logs an info entry.
func (m *MCPLogger) Println(v ...any) { m.write("info", fmt.Sprint(v...)) }

// Debugf logs a debug entry when debug output is enabled.
func (m *MCPLogger) Debugf(format string, v ...any) {
	m.mu.Lock()
	enabled := m.debug
	m.mu.Unlock()

	if enabled {
		m.write("debug", fmt.Sprintf(format, v...))
	}
}

// SetDebug toggles debug entries.
func (m *MCPLogger) SetDebug(enabled bool) {
	m.mu.Lock()
	m.debug = enabled
	m.mu.Unlock()
}

// SetOutput sets the output destination for the MCP logger.
// A nil writer discards output.
func (m *MCPLogger) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w == nil {
		m.writer = io.Discard
	} else {
		m.writer = w
	}
}

func (m *MCPLogger) write(level, msg string) {
	if m.silent {
		return
	}

	buf := gc.Default.Get()
	defer gc.Default.Put(buf)

	// Encoding a map of two strings cannot fail.
	_ = json.NewEncoder(buf).Encode(map[string]string{
		"level":   level,
		"message": msg,
	})

	m.mu.Lock()
	_, _ = m.writer.Write(buf.Bytes())
	m.mu.Unlock()
}
