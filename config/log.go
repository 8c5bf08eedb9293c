package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DebugLog is shared by every package. It discards output until InitDebugLog enables it,
// so callers never need a nil check.
var DebugLog = log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})

var debugFile *os.File

func CheckDebug() bool {
	debug := os.Getenv("QACHAT_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog routes DebugLog to <dir>/debug.log when force is set or QACHAT_DEBUG is on.
// The TUI owns the terminal, so logs never go to stderr while it runs.
func InitDebugLog(dir string, force bool) error {
	if !force && !CheckDebug() {
		return nil
	}

	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(dir, "debug.log")
	// 0600: the log contains questions and answers
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("could not open debug log at %s: %w", logPath, err)
	}

	// Goroutines may hold DebugLog, so it is reconfigured in place rather than replaced.
	debugFile = f
	DebugLog.SetOutput(f)
	DebugLog.SetReportTimestamp(true)
	DebugLog.SetReportCaller(true)
	DebugLog.SetPrefix("qachat")
	DebugLog.Info("debug logging started", "path", logPath)
	return nil
}

// CloseDebugLog detaches DebugLog from the log file before closing it. A request
// goroutine still running after the TUI exits logs into io.Discard.
func CloseDebugLog() error {
	if debugFile == nil {
		return nil
	}
	DebugLog.SetOutput(io.Discard)
	err := debugFile.Close()
	debugFile = nil
	return err
}
