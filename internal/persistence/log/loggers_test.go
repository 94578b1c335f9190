package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"gridvale.ai/internal/sim/behavior"
)

func readSegment(t *testing.T, path string) []behavior.FiringRecord {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer dec.Close()
	var out []behavior.FiringRecord
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var rec behavior.FiringRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("%+v", err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("%+v", err)
	}
	return out
}

func TestFiringLoggerRotatesByTick(t *testing.T) {
	dir := t.TempDir()
	l := NewFiringLogger(dir, 10)

	ticks := []uint64{1, 5, 9, 10, 25}
	for i, tick := range ticks {
		rec := behavior.FiringRecord{Tick: tick, Kind: "handler", Name: "trade", Affected: i}
		if err := l.WriteFiring(rec); err != nil {
			t.Fatalf("%+v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("%+v", err)
	}

	seg0 := readSegment(t, filepath.Join(dir, "firings", "firings-00000000.jsonl.zst"))
	if len(seg0) != 3 {
		t.Fatalf("segment 0 has %d records", len(seg0))
	}
	seg1 := readSegment(t, filepath.Join(dir, "firings", "firings-00000001.jsonl.zst"))
	if len(seg1) != 1 || seg1[0].Tick != 10 {
		t.Fatalf("segment 1: %+v", seg1)
	}
	seg2 := readSegment(t, filepath.Join(dir, "firings", "firings-00000002.jsonl.zst"))
	if len(seg2) != 1 || seg2[0].Tick != 25 {
		t.Fatalf("segment 2: %+v", seg2)
	}
}

func TestAuditLoggerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewAuditLogger(dir, 0)
	if err := l.WriteAudit(behavior.AuditRecord{Tick: 3, Op: "catalog_digest", Detail: "abc"}); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("%+v", err)
	}
	path := filepath.Join(dir, "audit", "audit-00000000.jsonl.zst")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("%+v", err)
	}
}
