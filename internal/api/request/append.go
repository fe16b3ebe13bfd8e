package request

// AppendRowsRequest is the request body for appending rows to a source document.
type AppendRowsRequest struct {
	Sheet string  `json:"sheet,omitempty"` // Sheet overrides the worksheet of the source range.
	Rows  [][]any `json:"rows"`            // Rows are written in order; numbers stay numeric.
}
