package service

import "github.com/ndewijer/Investment-Allocation-Backend/internal/model"

// Recorder receives counts of degraded operations.
// *metrics.Registry implements it; a nil Recorder is replaced by a no-op.
type Recorder interface {
	TransportFailure(source string)
	SchemaMismatch(source, role string)
	FXFallback(pair string)
	CacheCleared()
}

type nopRecorder struct{}

func (nopRecorder) TransportFailure(string)       {}
func (nopRecorder) SchemaMismatch(string, string) {}
func (nopRecorder) FXFallback(string)             {}
func (nopRecorder) CacheCleared()                 {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

func warn(kind model.WarningKind, sourceID, message string) model.Warning {
	return model.Warning{Kind: kind, SourceID: sourceID, Message: message}
}
