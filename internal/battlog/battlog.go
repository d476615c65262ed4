// Package battlog appends battery readings to per-device log files and
// parses them back. A log file is an append-only sequence of records, one
// per line, oldest first:
//
//	<unix-millis>,<status>,<capacity>
//
// The file is named <manufacturer>_<model_name>_<serial_number>.log inside
// the log directory. This path and format are the stable contract consumed
// by the history graph and by anything else tailing the logs.
package battlog

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/padiauj/battmon/internal/collector"
)

// DefaultDir is where readings are logged unless configured otherwise.
const DefaultDir = "/var/log/battmon"

// Record is one battery reading. Once appended to a log file it is never
// modified or deleted.
type Record struct {
	TimestampMS int64  `json:"timestamp_ms"`
	Status      string `json:"status"`
	Capacity    int    `json:"capacity"`
}

func (r Record) line() string {
	return fmt.Sprintf("%d,%s,%d", r.TimestampMS, r.Status, r.Capacity)
}

// Time returns the record timestamp as a time.Time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.TimestampMS)
}

// ParseRecord parses one log line.
func ParseRecord(line string) (Record, error) {
	tsField, rest, ok := strings.Cut(line, ",")
	if !ok {
		return Record{}, fmt.Errorf("malformed record %q", line)
	}
	statusField, capField, ok := strings.Cut(rest, ",")
	if !ok {
		return Record{}, fmt.Errorf("malformed record %q", line)
	}

	ts, err := strconv.ParseInt(tsField, 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("parse timestamp %q: %w", tsField, err)
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(capField))
	if err != nil {
		return Record{}, fmt.Errorf("parse capacity %q: %w", capField, err)
	}

	return Record{TimestampMS: ts, Status: statusField, Capacity: capacity}, nil
}

// FilePath returns the log file path for a battery identity inside dir.
func FilePath(dir, batteryID string) string {
	return filepath.Join(dir, batteryID+".log")
}

// Logger appends one record per battery per run. Each run is one-shot and
// stateless; periodicity belongs to the external scheduler (cron).
type Logger struct {
	dir string
	log *slog.Logger

	// clock is overridable in tests; defaults to time.Now.
	clock func() time.Time
}

// NewLogger creates a Logger writing under dir. An empty dir means DefaultDir.
func NewLogger(dir string, logger *slog.Logger) *Logger {
	if dir == "" {
		dir = DefaultDir
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{dir: dir, log: logger, clock: time.Now}
}

// Dir returns the log directory.
func (l *Logger) Dir() string {
	return l.dir
}

// LogAll appends one record for every battery, all stamped with the same
// wall-clock time. The log directory is created if absent. Failure to create
// the directory is fatal; failure to append one device's file is logged and
// that device is skipped, since each device's file is independent. Returns
// the number of records written.
func (l *Logger) LogAll(batteries []collector.PowerSupply) (int, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return 0, fmt.Errorf("create log directory %s: %w", l.dir, err)
	}

	now := l.clock().UnixMilli()
	written := 0
	for _, b := range batteries {
		if !b.IsBattery() {
			continue
		}
		rec := Record{TimestampMS: now, Status: b.Status, Capacity: b.Capacity}
		if err := l.appendRecord(b.BatteryID(), rec); err != nil {
			l.log.Warn("append reading", "battery", b.BatteryID(), "err", err)
			continue
		}
		written++
	}
	return written, nil
}

// appendRecord opens the device's log in append mode, writes one line, and
// closes before returning, so a crash mid-run leaves at most one incomplete
// trailing line and never touches earlier records.
func (l *Logger) appendRecord(batteryID string, rec Record) error {
	f, err := os.OpenFile(FilePath(l.dir, batteryID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, rec.line()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadDevice parses the log file for one battery identity. A missing file
// yields no records and no error (the device simply has no history yet).
func (l *Logger) ReadDevice(batteryID string) ([]Record, error) {
	return ReadFile(l.log, FilePath(l.dir, batteryID))
}

// ReadFile parses a log file into records, oldest first. Malformed lines
// are skipped with a warning so one torn write cannot hide the rest of the
// history. A missing file is not an error.
func ReadFile(logger *slog.Logger, path string) ([]Record, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			logger.Warn("skip malformed line", "file", filepath.Base(path), "err", err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log %s: %w", path, err)
	}
	return records, nil
}

// Devices lists the battery identities that have a log file under dir.
// A missing log directory yields an empty list (nothing logged yet).
func Devices(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory %s: %w", dir, err)
	}
	var ids []string
	for _, de := range dirents {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".log") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".log"))
	}
	return ids, nil
}
