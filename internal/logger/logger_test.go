package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		opts    Options
		wantErr bool
	}{
		{name: "local", env: "local"},
		{name: "docker", env: "docker"},
		{name: "test", env: "test"},
		{name: "prod", env: "prod"},
		{name: "prod console", env: "prod", opts: Options{Format: FormatConsole}},
		{name: "local json warn", env: "local", opts: Options{Level: "warn", Format: FormatJSON}},
		{name: "unknown env", env: "staging", wantErr: true},
		{name: "bad level", env: "local", opts: Options{Level: "loud"}, wantErr: true},
		{name: "bad format", env: "local", opts: Options{Format: "xml"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLogger(tc.env, tc.opts)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewLogger(%q, %+v) error = %v, wantErr %v", tc.env, tc.opts, err, tc.wantErr)
			}
		})
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", Options{Level: "error"})
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be disabled at error level")
	}
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	FromContext(context.Background()).Info("background job")
	if logs.Len() != 1 {
		t.Errorf("expected the global logger to receive the entry, got %d", logs.Len())
	}
}

func TestWith_AddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = With(ctx, UserID(7), GigID(12))
	FromContext(ctx).Info("gig viewed")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields[KeyUserID] != uint64(7) || fields[KeyGigID] != uint64(12) {
		t.Errorf("fields = %v", fields)
	}
}

func TestForRequest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core)

	ctx, l := ForRequest(context.Background(), base, "req-42")
	l.Info("direct")
	FromContext(ctx).Info("from context")

	for _, e := range logs.All() {
		if e.ContextMap()[KeyRequestID] != "req-42" {
			t.Errorf("%q: missing request id: %v", e.Message, e.ContextMap())
		}
	}

	_, l = ForRequest(context.Background(), base, "")
	l.Info("anonymous")
	last := logs.All()[logs.Len()-1]
	if _, ok := last.ContextMap()[KeyRequestID]; ok {
		t.Error("empty request id should not be logged")
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup(context.Background()); ok {
		t.Error("empty context should have no logger")
	}
	l := zap.NewNop()
	if got, ok := Lookup(ContextWithLogger(context.Background(), l)); !ok || got != l {
		t.Error("expected the stored logger")
	}
}
