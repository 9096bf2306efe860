package journal

import (
	"time"

	"github.com/google/uuid"

	"github.com/footprint-tools/dispatch"
)

// OutcomeOK marks a dispatch whose deferred resolved without error. Failed
// dispatches record the dispatcher's error kind name instead.
const OutcomeOK = "ok"

// Entry is one recorded invocation.
type Entry struct {
	ID         int64
	Invocation uuid.UUID
	Sender     string
	Input      string
	Path       string
	Outcome    string
	ErrorText  string
	StartedAt  time.Time
	Duration   time.Duration
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Outcome    string
	PathPrefix string
	Since      *time.Time
	Limit      int
}

// Classify maps a resolved dispatch error to an outcome column value and
// error text. A nil error is OutcomeOK.
func Classify(err error) (outcome, errorText string) {
	if err == nil {
		return OutcomeOK, ""
	}
	return dispatch.KindOf(err).String(), err.Error()
}
