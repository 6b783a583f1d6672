package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"randoexport/internal/export"
)

// JSONLZstdWriter appends JSON lines to hourly zstd files.
type JSONLZstdWriter struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
		now:     time.Now,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.appendLocked(w.hour(), v); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll appends every value to the file of the current hour and flushes
// once. A batch never spans two files.
func (w *JSONLZstdWriter) WriteAll(vs []any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	hour := w.hour()
	for _, v := range vs {
		if err := w.appendLocked(hour, v); err != nil {
			return err
		}
	}
	if w.w == nil {
		return nil
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) hour() string { return w.now().UTC().Format("2006-01-02-15") }

func (w *JSONLZstdWriter) appendLocked(hour string, v any) error {
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.PathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return err1
}

func (w *JSONLZstdWriter) PathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// TrackerEntry records where one item was placed.
type TrackerEntry struct {
	ExportID string `json:"export_id"`
	Index    int    `json:"index"`
	Item     string `json:"item"`
	Location string `json:"location"`
	Cost     string `json:"cost,omitempty"`
}

// TrackerLogger writes one entry per placed item, in input order.
type TrackerLogger struct{ w *JSONLZstdWriter }

func NewTrackerLogger(dir string) *TrackerLogger {
	return &TrackerLogger{w: NewJSONLZstdWriter(filepath.Join(dir, "tracker"), "tracker")}
}

func (l *TrackerLogger) WriteProfile(p *export.Profile) error {
	entries := TrackerEntries(p)
	vs := make([]any, len(entries))
	for i := range entries {
		vs[i] = entries[i]
	}
	return l.w.WriteAll(vs)
}

func (l *TrackerLogger) Close() error { return l.w.Close() }

// TrackerEntries flattens p into entries ordered by input index.
func TrackerEntries(p *export.Profile) []TrackerEntry {
	var out []TrackerEntry
	for _, a := range p.Placements {
		for _, it := range a.Items {
			e := TrackerEntry{
				ExportID: p.ID,
				Index:    it.Tag,
				Item:     it.Name,
				Location: a.Name,
			}
			if c := a.ItemCost(it); !c.IsFree() {
				e.Cost = c.String()
			}
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
