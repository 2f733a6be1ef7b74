package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Submission represents one end-to-end user request: a set of uploaded
// input blobs and, eventually, one rendered report.
type Submission struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	InputKeys json.RawMessage `db:"input_keys" json:"input_keys"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Inputs decodes the slot-name → storage-key map recorded at intake.
func (s *Submission) Inputs() (map[string]string, error) {
	keys := map[string]string{}
	if len(s.InputKeys) == 0 {
		return keys, nil
	}
	if err := json.Unmarshal(s.InputKeys, &keys); err != nil {
		return nil, fmt.Errorf("decoding submission input keys: %w", err)
	}
	return keys, nil
}

// SetInputs encodes the slot-name → storage-key map.
func (s *Submission) SetInputs(keys map[string]string) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("encoding submission input keys: %w", err)
	}
	s.InputKeys = data
	return nil
}

// OutputKey returns the storage key of the rendered report for this submission.
func (s *Submission) OutputKey() string {
	return fmt.Sprintf("%s/%s", s.ID, OutputFileName)
}

// ReportJob represents one background report generation run for a submission.
type ReportJob struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	SubmissionID uuid.UUID  `db:"submission_id" json:"submission_id"`
	Status       JobStatus  `db:"status" json:"status"`
	Error        string     `db:"error" json:"error,omitempty"`
	OutputKey    string     `db:"output_key" json:"output_key,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	StartedAt    *time.Time `db:"started_at" json:"started_at,omitempty"`
	FinishedAt   *time.Time `db:"finished_at" json:"finished_at,omitempty"`
}

// AssembledReport is the full ordered text of a generated report before
// rendering: a static cover block, a static table-of-contents block, and
// the body built from all section groups in order.
type AssembledReport struct {
	Cover    string
	TOC      string
	Body     string
	Sections []SectionResult
}

// SectionResult holds the generated text of one section group.
type SectionResult struct {
	ID   string
	Text string
}
