// Package devtools records the Redis traffic of the sample store so it can
// be inspected after a render or summarised in the terminal UI.
package devtools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLogLimit = 500

type originKey struct{}

// EntryKind describes the type of a tracked entry.
type EntryKind int

const (
	// EntryCommand is a single Redis command.
	EntryCommand EntryKind = iota
	// EntryPipelineBegin marks the start of a pipeline or transaction.
	EntryPipelineBegin
	// EntryPipelineExec marks the execution of a pipeline or transaction.
	EntryPipelineExec
)

// Entry captures a single tracked command.
type Entry struct {
	Kind     EntryKind
	Command  string
	Duration time.Duration
	// Err is the command error, if any. A missing key is not an error.
	Err string
}

// LogEntry is an Entry with its position in the log.
type LogEntry struct {
	Seq    uint64
	Time   time.Time
	Origin string
	Entry  Entry
}

// Stats summarises the tracked log.
type Stats struct {
	Commands  int
	Errors    int
	LastError string
	Total     time.Duration
}

// Tracker keeps the most recent Redis commands in a ring buffer.
type Tracker struct {
	logLimit int
	logMu    sync.RWMutex
	log      []LogEntry
	logHead  int
	logFull  bool
	logSeq   uint64

	now func() time.Time
}

// NewTracker creates a tracker keeping the default number of entries.
func NewTracker() *Tracker {
	return NewTrackerWithLimit(defaultLogLimit)
}

// NewTrackerWithLimit creates a tracker keeping at most limit entries. A
// limit of zero disables tracking.
func NewTrackerWithLimit(limit int) *Tracker {
	return &Tracker{
		logLimit: max(limit, 0),
		now:      time.Now,
	}
}

// WithOrigin returns a context carrying the origin label.
func WithOrigin(ctx context.Context, origin string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFromContext extracts the origin label from context.
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if origin, ok := ctx.Value(originKey{}).(string); ok {
		return origin
	}
	return ""
}

// LogEntries returns the tracked entries in chronological order.
func (t *Tracker) LogEntries() []LogEntry {
	if t == nil {
		return nil
	}
	t.logMu.RLock()
	defer t.logMu.RUnlock()
	if len(t.log) == 0 {
		return nil
	}
	if !t.logFull {
		return append([]LogEntry(nil), t.log...)
	}
	result := make([]LogEntry, 0, len(t.log))
	result = append(result, t.log[t.logHead:]...)
	result = append(result, t.log[:t.logHead]...)
	return result
}

// AppendLog appends an entry to the ring buffer, overwriting the oldest one
// when full.
func (t *Tracker) AppendLog(entry LogEntry) {
	if t == nil || t.logLimit == 0 {
		return
	}

	t.logMu.Lock()
	defer t.logMu.Unlock()
	entry.Seq = t.logSeq
	t.logSeq++
	if len(t.log) < t.logLimit {
		t.log = append(t.log, entry)
		t.logFull = len(t.log) == t.logLimit
		return
	}
	t.log[t.logHead] = entry
	t.logHead = (t.logHead + 1) % t.logLimit
}

// Stats summarises the commands currently in the log.
func (t *Tracker) Stats() Stats {
	var s Stats
	for _, e := range t.LogEntries() {
		if e.Entry.Kind != EntryCommand {
			continue
		}
		s.Commands++
		s.Total += e.Entry.Duration
		if e.Entry.Err != "" {
			s.Errors++
			s.LastError = e.Entry.Err
		}
	}
	return s
}

// WriteTo prints the log, one command per line, as
// "<seq> <origin> <duration> <command>".
func (t *Tracker) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, e := range t.LogEntries() {
		var line string
		switch e.Entry.Kind {
		case EntryPipelineBegin:
			line = fmt.Sprintf("%4d %s MULTI\n", e.Seq, e.Origin)
		case EntryPipelineExec:
			line = fmt.Sprintf("%4d %s EXEC %s\n", e.Seq, e.Origin, FormatDuration(e.Entry.Duration))
		default:
			line = fmt.Sprintf("%4d %s %s %s", e.Seq, e.Origin, FormatDuration(e.Entry.Duration), e.Entry.Command)
			if e.Entry.Err != "" {
				line += " ! " + e.Entry.Err
			}
			line += "\n"
		}
		n, err := io.WriteString(w, line)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write trace: %w", err)
		}
	}
	return written, nil
}

// Hook returns a Redis hook recording every command into the tracker.
func (t *Tracker) Hook() redis.Hook {
	return hook{tracker: t}
}

// FormatDuration renders a compact duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}

type hook struct {
	tracker *Tracker
}

func (h hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(ctx, cmd, time.Since(start), err)
		return err
	}
}

func (h hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if len(cmds) == 0 {
			return next(ctx, cmds)
		}
		h.recordMarker(ctx, EntryPipelineBegin, 0)
		start := time.Now()
		err := next(ctx, cmds)
		for _, cmd := range cmds {
			h.record(ctx, cmd, 0, cmd.Err())
		}
		h.recordMarker(ctx, EntryPipelineExec, time.Since(start))
		return err
	}
}

func (h hook) record(ctx context.Context, cmd redis.Cmder, duration time.Duration, err error) {
	entry := Entry{
		Kind:     EntryCommand,
		Command:  formatCommand(cmd),
		Duration: duration,
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		entry.Err = err.Error()
	}
	h.tracker.appendLogEntry(ctx, entry)
}

func (h hook) recordMarker(ctx context.Context, kind EntryKind, duration time.Duration) {
	h.tracker.appendLogEntry(ctx, Entry{Kind: kind, Duration: duration})
}

func (t *Tracker) appendLogEntry(ctx context.Context, entry Entry) {
	if t == nil {
		return
	}
	origin := OriginFromContext(ctx)
	if origin == "" {
		origin = originFromCallers()
	}
	if origin == "" {
		origin = "unknown"
	}
	t.AppendLog(LogEntry{
		Time:   t.now(),
		Origin: origin,
		Entry:  entry,
	})
}

// originFromCallers names the first UI or command frame on the stack, or
// failing that the store method that issued the command.
func originFromCallers() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(4, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var storeFallback string
	for {
		frame, more := frames.Next()
		fn := frame.Function
		switch {
		case fn == "":
		case inPackage(fn, "ui") || inPackage(fn, "cmd"):
			return shortFuncName(fn)
		case storeFallback == "" && inPackage(fn, "store"):
			storeFallback = shortFuncName(fn)
		}
		if !more {
			break
		}
	}
	return storeFallback
}

func inPackage(fn, pkg string) bool {
	return strings.Contains(fn, "/internal/"+pkg+"/") || strings.Contains(fn, "/internal/"+pkg+".")
}

func shortFuncName(fn string) string {
	if idx := strings.LastIndex(fn, "/"); idx >= 0 {
		fn = fn[idx+1:]
	}
	fn = strings.TrimSuffix(fn, ".func1")
	fn = strings.ReplaceAll(fn, "(*", "")
	fn = strings.ReplaceAll(fn, ")", "")
	return fn
}

func formatCommand(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) == 0 {
		return cmd.Name()
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, " ")
}
