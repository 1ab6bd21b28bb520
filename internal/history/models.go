package history

import "time"

// Status records whether a conversion succeeded.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Entry is one recorded conversion attempt.
type Entry struct {
	ID          string
	Kind        string
	SourcePath  string
	OutputPath  string
	OutputBytes int64
	Passes      int
	Elapsed     time.Duration
	Status      Status
	Error       string
	CreatedAt   time.Time
}
