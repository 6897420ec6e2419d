package domain

// EventType names a message on the grading event stream.
type EventType string

const (
	// EventProgress carries one human-readable line.
	EventProgress EventType = "progress"
	// EventUnitFinished carries the finalized report of one unit.
	EventUnitFinished EventType = "unit.finished"
	// EventBatchCompleted is the last event of every batch.
	EventBatchCompleted EventType = "batch.completed"
)

// Event is an immutable snapshot sent from the pipeline to a ReportSink.
type Event struct {
	Type    EventType    `json:"type"`
	BatchID string       `json:"batch_id"`
	Unit    string       `json:"unit,omitempty"`
	Line    string       `json:"line"`
	Report  *GradeReport `json:"report,omitempty"`
}

// ReportSink consumes grading events in the order they were generated.
type ReportSink interface {
	Publish(ev Event) error
}
