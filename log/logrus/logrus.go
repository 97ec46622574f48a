// Package logrus adapts a *logrus.Entry to confcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/confcache"
	"github.com/unkn0wn-root/confcache/internal/fields"
)

var _ confcache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

func New(l *logrus.Logger) Logger { return Logger{E: logrus.NewEntry(l).WithField("component", "confcache")} }

func (l Logger) Debug(msg string, f confcache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f confcache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f confcache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f confcache.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f confcache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	lf := make(logrus.Fields, len(f))
	for k, v := range f {
		if k == fields.ErrKey {
			k = logrus.ErrorKey
		}
		lf[k] = v
	}
	return l.E.WithFields(lf)
}
