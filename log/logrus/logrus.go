package logrus

import (
	"github.com/sirupsen/logrus"

	httpdata "github.com/championswimmer/wp-calypso"
)

// Logger adapts a *logrus.Entry to the httpdata.Logger interface.
type Logger struct{ E *logrus.Entry }

var _ httpdata.Logger = Logger{}

func (l Logger) Debug(msg string, f httpdata.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l Logger) Info(msg string, f httpdata.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l Logger) Warn(msg string, f httpdata.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l Logger) Error(msg string, f httpdata.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
