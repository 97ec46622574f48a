package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/confcache"
)

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Warn("fetch failed", confcache.Fields{"namespace": "common", "err": errors.New("boom")})
	l.Debug("quiet", nil)

	all := logs.All()
	if len(all) != 2 {
		t.Fatalf("got %d entries", len(all))
	}
	e := all[0]
	if e.Level != zapcore.WarnLevel || e.Message != "fetch failed" || e.LoggerName != "confcache" {
		t.Fatalf("unexpected entry %+v", e.Entry)
	}
	ctx := e.ContextMap()
	if ctx["namespace"] != "common" || ctx["error"] != "boom" {
		t.Fatalf("fields = %v", ctx)
	}
	if len(all[1].Context) != 0 {
		t.Fatalf("nil fields should add nothing")
	}
}
