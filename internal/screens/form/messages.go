package form

import (
	"time"

	"github.com/abhisek/scholarnav/internal/scholarship"
)

// analysisDoneMsg carries the outcome of one submitted analysis. Seq
// matches the submission it answers; stale replies are dropped.
type analysisDoneMsg struct {
	Seq     int
	Profile scholarship.StudentProfile
	Result  *scholarship.AnalysisResult
	Err     error
}

// spinnerTickMsg animates the loading indicator.
type spinnerTickMsg time.Time
