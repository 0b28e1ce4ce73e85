// Package logger provides leveled logging to stderr, a bounded in-memory
// buffer, and an optional JSON-line log file.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogEntry represents a single log record.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Level ordering for filtering. Unknown levels are treated as INFO.
var levelRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

var (
	mu          sync.RWMutex
	logEntries  []LogEntry
	maxEntries  = 1000
	maxFileSize = int64(5 * 1024 * 1024)
	minLevel    = levelRank["INFO"]
	logFilePath string
	logFile     *os.File
	logChan     = make(chan LogEntry, 100)
	done        chan struct{}
	workerDone  chan struct{}
)

// Init opens the log file under appDir/logs and starts the file worker.
// Logging works without Init; entries then go only to stderr and memory.
func Init(appDir string) error {
	mu.Lock()
	defer mu.Unlock()

	logDir := filepath.Join(appDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := fmt.Sprintf("xcmcp-%s.log", time.Now().Format("20060102"))
	logFilePath = filepath.Join(logDir, logFileName)

	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	done = make(chan struct{})
	workerDone = make(chan struct{})
	go logWorker()

	return nil
}

// SetLevel sets the minimum level that is recorded ("debug", "info",
// "warn", "error"). Unknown values reset to info.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()

	rank, ok := levelRank[normalizeLevel(level)]
	if !ok {
		rank = levelRank["INFO"]
	}
	minLevel = rank
}

func normalizeLevel(level string) string {
	switch level {
	case "debug", "DEBUG":
		return "DEBUG"
	case "warn", "WARN", "warning":
		return "WARN"
	case "error", "ERROR":
		return "ERROR"
	default:
		return "INFO"
	}
}

// AddLog records a log entry at the given level.
func AddLog(level, message string) {
	level = normalizeLevel(level)

	mu.Lock()
	if levelRank[level] < minLevel {
		mu.Unlock()
		return
	}
	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}
	logEntries = append(logEntries, entry)
	if len(logEntries) > maxEntries {
		logEntries = logEntries[len(logEntries)-maxEntries:]
	}
	mu.Unlock()

	// Stderr, never stdout: stdout carries the MCP protocol stream.
	fmt.Fprintf(os.Stderr, "[%s] [%s] %s\n", entry.Timestamp, level, message)

	select {
	case logChan <- entry:
	default:
		// Drop if the file worker is behind rather than block a tool call.
	}
}

func Debugf(format string, args ...interface{}) { AddLog("DEBUG", fmt.Sprintf(format, args...)) }
func Infof(format string, args ...interface{})  { AddLog("INFO", fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...interface{})  { AddLog("WARN", fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...interface{}) { AddLog("ERROR", fmt.Sprintf(format, args...)) }

// GetLogs returns a copy of the in-memory log buffer.
func GetLogs() []LogEntry {
	mu.RLock()
	defer mu.RUnlock()

	res := make([]LogEntry, len(logEntries))
	copy(res, logEntries)
	return res
}

// Tail returns the most recent n entries, oldest first.
func Tail(n int) []LogEntry {
	mu.RLock()
	defer mu.RUnlock()

	if n > len(logEntries) {
		n = len(logEntries)
	}
	res := make([]LogEntry, n)
	copy(res, logEntries[len(logEntries)-n:])
	return res
}

// GetLogFilePath returns the path to the log file, empty before Init.
func GetLogFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFilePath
}

// Close flushes pending entries and closes the log file.
func Close() {
	if done != nil {
		close(done)
		if workerDone != nil {
			<-workerDone
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	done = nil
	workerDone = nil
}

func logWorker() {
	defer close(workerDone)
	for {
		select {
		case entry := <-logChan:
			writeEntry(entry)
		case <-done:
			for {
				select {
				case entry := <-logChan:
					writeEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func writeEntry(entry LogEntry) {
	mu.Lock()
	defer mu.Unlock()

	f := logFile
	if f == nil {
		return
	}

	// Simple circular strategy: truncate once the file passes the size cap.
	if info, err := f.Stat(); err == nil && info.Size() > maxFileSize {
		f.Close()
		f, err = os.OpenFile(logFilePath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			logFile = nil
			return
		}
		logFile = f
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	f.Write(data)
	f.Write([]byte("\n"))
}
