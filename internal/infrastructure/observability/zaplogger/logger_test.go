package zaplogger

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/minishop-menu/internal/observability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerForwardsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core), observability.F("service", "storefront"))

	l.With(observability.F("component", "cart_store")).Warn("cart_persist_failed",
		observability.F("backend", "file"),
		observability.F("error", errors.New("disk full")),
	)

	entries := logs.FilterMessage("cart_persist_failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["service"] != "storefront" || fields["component"] != "cart_store" || fields["backend"] != "file" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if fields["error"] != "disk full" {
		t.Fatalf("expected error text, got %v", fields["error"])
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %s", entries[0].Level)
	}
}
