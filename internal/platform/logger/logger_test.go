package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedNow = func() time.Time { return time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC) }

func TestLogger_TextFormat_SortedKeys(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatText, App: "petworld", Out: &buf, Now: fixedNow})

	l.With(map[string]any{"pet_id": "p1"}).Info("pet reconciled", map[string]any{"hours": 3})

	got := strings.TrimSpace(buf.String())
	want := "app=petworld hours=3 level=info msg=pet reconciled pet_id=p1 ts=2025-12-22T10:00:00Z"
	if got != want {
		t.Fatalf("unexpected line:\n got: %s\nwant: %s", got, want)
	}
}

func TestLogger_JSONFormat_ErrorsAsStrings(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatJSON, Out: &buf, Now: fixedNow})

	l.Error("persist failed", map[string]any{"err": errors.New("boom")})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, buf.String())
	}
	if entry["err"] != "boom" || entry["level"] != "error" {
		t.Fatalf("unexpected entry %#v", entry)
	}
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Out: &buf, Now: fixedNow})

	l.Info("hidden", nil)
	l.Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	l.Warn("shown", nil)
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Out: &buf, Now: fixedNow})

	ctx := IntoContext(context.Background(), l.With(map[string]any{"request_id": "r1"}))
	FromContext(ctx, Nop()).Info("hello", nil)
	if !strings.Contains(buf.String(), "request_id=r1") {
		t.Fatalf("expected request-scoped field, got %q", buf.String())
	}

	if _, ok := FromContext(context.Background(), nil).(nopLogger); !ok {
		t.Fatalf("expected nop fallback")
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if ParseLevel("WARNING") != Warn || ParseLevel("nope") != Info {
		t.Fatalf("unexpected level parsing")
	}
	if ParseFormat(" JSON ") != FormatJSON || ParseFormat("") != FormatText {
		t.Fatalf("unexpected format parsing")
	}
}
