package entity

import "time"

// ProcessingEntry is the audit row for one extraction attempt on one file.
// Re-attempting the same hash overwrites the previous entry, so the table
// always holds the latest outcome per file.
type ProcessingEntry struct {
	FileHash       string     `json:"file_hash"`
	SourceFilename string     `json:"source_filename"`
	AttemptedAt    time.Time  `json:"attempted_at"`
	Succeeded      bool       `json:"succeeded"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	CreatedAt      *time.Time `json:"-"`
}

// RunStats summarizes one batch run over a folder.
type RunStats struct {
	TotalFiles int `json:"total_files"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// StoreStats summarizes the cumulative contents of the store.
type StoreStats struct {
	TotalProcessed int `json:"total_processed"`
	Succeeded      int `json:"succeeded"`
	Failed         int `json:"failed"`
	TotalResults   int `json:"total_results"`
}
