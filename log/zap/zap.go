// Package zap adapts a *zap.Logger to confcache.Logger.
package zap

import (
	"go.uber.org/zap"

	"github.com/unkn0wn-root/confcache"
	"github.com/unkn0wn-root/confcache/internal/fields"
)

var _ confcache.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New names the logger "confcache" so its lines are easy to filter.
func New(l *zap.Logger) Logger { return Logger{L: l.Named("confcache")} }

func (z Logger) Debug(msg string, f confcache.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f confcache.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f confcache.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f confcache.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f confcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for _, k := range fields.Sorted(f) {
		if err, ok := f[k].(error); ok && k == fields.ErrKey {
			out = append(out, zap.Error(err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
