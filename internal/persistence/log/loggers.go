package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"gridvale.ai/internal/sim/behavior"
)

// JSONLZstdWriter appends JSON lines to zstd-compressed segment files.
// Segments rotate on tick boundaries so a run's output can be replayed
// range by range.
type JSONLZstdWriter struct {
	baseDir     string
	prefix      string
	rotateEvery uint64

	mu     sync.Mutex
	curSeg uint64
	opened bool
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string, rotateEvery uint64) *JSONLZstdWriter {
	if rotateEvery == 0 {
		rotateEvery = 1000
	}
	return &JSONLZstdWriter{
		baseDir:     baseDir,
		prefix:      prefix,
		rotateEvery: rotateEvery,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(tick uint64, v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	seg := tick / w.rotateEvery
	if !w.opened || seg != w.curSeg {
		if err := w.rotateLocked(seg); err != nil {
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
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(seg uint64) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	path := w.pathForSegment(seg)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
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
	w.curSeg = seg
	w.opened = true
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
	w.opened = false
	return err1
}

func (w *JSONLZstdWriter) pathForSegment(seg uint64) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%08d.jsonl.zst", w.prefix, seg))
}

// FiringLogger writes one JSONL entry per handler/event firing (compressed).
type FiringLogger struct{ w *JSONLZstdWriter }

func NewFiringLogger(dataDir string, rotateEvery uint64) *FiringLogger {
	return &FiringLogger{w: NewJSONLZstdWriter(filepath.Join(dataDir, "firings"), "firings", rotateEvery)}
}

func (l *FiringLogger) WriteFiring(v behavior.FiringRecord) error { return l.w.Write(v.Tick, v) }
func (l *FiringLogger) Close() error                              { return l.w.Close() }

// AuditLogger writes audit JSONL entries (compressed).
type AuditLogger struct{ w *JSONLZstdWriter }

func NewAuditLogger(dataDir string, rotateEvery uint64) *AuditLogger {
	return &AuditLogger{w: NewJSONLZstdWriter(filepath.Join(dataDir, "audit"), "audit", rotateEvery)}
}

func (l *AuditLogger) WriteAudit(v behavior.AuditRecord) error { return l.w.Write(v.Tick, v) }
func (l *AuditLogger) Close() error                            { return l.w.Close() }
