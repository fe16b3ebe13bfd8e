package model

// WarningKind classifies a recoverable problem surfaced alongside a result.
type WarningKind string

const (
	WarningTransportUnavailable WarningKind = "transport_unavailable"
	WarningSchemaMismatch       WarningKind = "schema_mismatch"
	WarningConfiguration        WarningKind = "configuration_error"
	WarningFXFallback           WarningKind = "fx_fallback"
	WarningUnclassified         WarningKind = "unclassified"
)

// Warning is a non-fatal problem. Reports are still produced from whatever data was usable.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	SourceID string      `json:"sourceId,omitempty"`
	Message  string      `json:"message"`
}
