package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
)

// Status values written to a ledger.
const (
	StatusStarted   = "STARTED"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// LogEntry is one line of a JSON ledger.
type LogEntry struct {
	Timestamp string `json:"time"`
	Level     string `json:"level"`
	Tool      string `json:"msg"`
	Program   string `json:"PROGRAM"`
	Sample    string `json:"SAMPLE"`
	Status    string `json:"STATUS"`
	Cmd       string `json:"CMD"`
}

// Ledger records the progress of a run as JSON lines, so a rerun can skip
// what already completed. Every record is echoed to stderr as text.
type Ledger struct {
	Path   string
	Tool   string
	file   *os.File
	logger *slog.Logger
	done   []LogEntry
}

// OpenLedger appends to the ledger at path, reading what it holds already.
func OpenLedger(path, tool string) (*Ledger, error) {
	done := ParseLogFile(path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	handler := slogmulti.Fanout(
		slog.NewJSONHandler(f, nil),
		slog.NewTextHandler(os.Stderr, nil),
	)
	return &Ledger{Path: path, Tool: tool, file: f, logger: slog.New(handler), done: done}, nil
}

// Record appends one status line for program and sample.
func (l *Ledger) Record(program, sample, status, cmd string) {
	if status == StatusFailed {
		l.logger.Error(l.Tool, "PROGRAM", program, "SAMPLE", sample, "STATUS", status, "CMD", cmd)
		return
	}
	l.logger.Info(l.Tool, "PROGRAM", program, "SAMPLE", sample, "STATUS", status, "CMD", cmd)
}

// Completed reports whether program finished for sample in an earlier run.
func (l *Ledger) Completed(program, sample string) bool {
	return StageHasCompleted(l.done, program, sample)
}

func (l *Ledger) Close() error {
	return l.file.Close()
}

// ParseLogFile reads the entries of a JSON ledger. A missing file or lines
// that are not JSON give no entries.
func ParseLogFile(path string) []LogEntry {
	var entries []LogEntry
	f, err := os.Open(path)
	if err != nil {
		return entries
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// StageHasCompleted reports whether the last status logged for program and
// sample is COMPLETED.
func StageHasCompleted(entries []LogEntry, program, sample string) bool {
	completed := false
	for _, e := range entries {
		if e.Program == program && e.Sample == sample {
			completed = e.Status == StatusCompleted
		}
	}
	return completed
}

var warnColor = color.New(color.FgYellow, color.Bold)

// Warn prints a highlighted warning line for the user.
func Warn(format string, args ...interface{}) {
	warnColor.Fprintf(os.Stderr, "# WARNING: "+format+"\n", args...)
}
