package model

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion        string          `json:"app_version"`
	ReportingCurrency string          `json:"reporting_currency"`
	Sources           int             `json:"sources"`
	Features          map[string]bool `json:"features"`
}
