package zerolog

import (
	"github.com/rs/zerolog"

	httpdata "github.com/championswimmer/wp-calypso"
)

// Logger adapts a zerolog.Logger to the httpdata.Logger interface.
type Logger struct{ L zerolog.Logger }

var _ httpdata.Logger = Logger{}

func (z Logger) Debug(msg string, f httpdata.Fields) { emit(z.L.Debug(), msg, f) }
func (z Logger) Info(msg string, f httpdata.Fields)  { emit(z.L.Info(), msg, f) }
func (z Logger) Warn(msg string, f httpdata.Fields)  { emit(z.L.Warn(), msg, f) }
func (z Logger) Error(msg string, f httpdata.Fields) { emit(z.L.Error(), msg, f) }

func emit(e *zerolog.Event, msg string, f httpdata.Fields) {
	if len(f) > 0 {
		e = e.Fields(map[string]any(f))
	}
	e.Msg(msg)
}
