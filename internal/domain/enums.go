package domain

// JobStatus represents the lifecycle of a report generation job.
type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusSuccess JobStatus = "success"
	JobStatusFailure JobStatus = "failure"
)

// Terminal reports whether the status is a final state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailure
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
}

// RequiredInputSlots lists the nine named input documents every submission
// must have. Slots the user does not supply are filled with zero-length
// placeholder blobs before the job is enqueued.
var RequiredInputSlots = []string{
	"Transcript.pdf",
	"IntakeForm_Results.pdf",
	"CATQ_Results.pdf",
	"GAD_Results.pdf",
	"GARS_Results.pdf",
	"KBIT_Results.pdf",
	"RAADSR_Results.pdf",
	"SRS2_Results.pdf",
	"Vineland_Results.pdf",
}

// TestResultSlots lists the eight "_Results" inputs, in the order their
// texts are presented to the section generator.
var TestResultSlots = []string{
	"IntakeForm_Results.pdf",
	"CATQ_Results.pdf",
	"GAD_Results.pdf",
	"GARS_Results.pdf",
	"KBIT_Results.pdf",
	"RAADSR_Results.pdf",
	"SRS2_Results.pdf",
	"Vineland_Results.pdf",
}

// OutputFileName is the name of the rendered report artifact within a
// submission's key prefix.
const OutputFileName = "generated_par.pdf"
