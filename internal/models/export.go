package models

import "time"

// ExportStatus tracks a background export job through its lifecycle.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "queued"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusFinished   ExportStatus = "finished"
	ExportStatusFailed     ExportStatus = "failed"
)

// ExportJob is a queued term-plan export. Jobs are held in memory; restarting
// the process discards unfinished jobs and clients simply resubmit.
type ExportJob struct {
	ID         string       `json:"id"`
	StudentID  string       `json:"student_id"`
	Format     string       `json:"format"`
	Status     ExportStatus `json:"status"`
	ResultURL  string       `json:"result_url,omitempty"`
	Error      string       `json:"error,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}
